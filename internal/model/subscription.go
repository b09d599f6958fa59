package model

import "github.com/shopspring/decimal"

// Investor tax classifications.
const (
	InvestorTypePhysical  = "physique" // natural person, subject to withholding
	InvestorTypeCorporate = "morale"   // legal entity
)

// Investor represents a subscriber of one or more tranches.
type Investor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Subscription represents an investor's subscription to a tranche, joined
// with the investor's tax classification.
type Subscription struct {
	ID             string          `json:"id"`
	TrancheID      string          `json:"trancheId"`
	InvestorID     string          `json:"investorId"`
	InvestorType   string          `json:"investorType"`
	InvestedAmount decimal.Decimal `json:"investedAmount"`
}

// IsCorporate reports whether the subscribing investor is a legal entity.
func (s Subscription) IsCorporate() bool {
	return s.InvestorType == InvestorTypeCorporate
}
