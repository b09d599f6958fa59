package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Tranche represents one tranche of a project from the database.
type Tranche struct {
	ID                string              `json:"id"`
	ProjectID         string              `json:"projectId"`
	Name              string              `json:"name"`
	NominalRate       decimal.NullDecimal `json:"nominalRate"`
	PaymentFrequency  string              `json:"paymentFrequency,omitempty"` // never used for schedules, see echeancier.ResolveParameters
	IssuanceDate      *civil.Date         `json:"issuanceDate,omitempty"`
	DurationMonths    *int                `json:"durationMonths,omitempty"`
	FinalMaturityDate *civil.Date         `json:"finalMaturityDate,omitempty"`
}

// TrancheWithProject is a tranche joined with its parent project.
type TrancheWithProject struct {
	Tranche
	Project Project `json:"project"`
}
