package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Project represents a bond issuance programme from the database.
// Optional financial fields are nil (or Valid=false) when not configured; a
// tranche may override some of them.
type Project struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	NominalRate      decimal.NullDecimal `json:"nominalRate"`
	PaymentFrequency string              `json:"paymentFrequency,omitempty"`
	DurationMonths   *int                `json:"durationMonths,omitempty"`
	DayCountBasis    *int                `json:"dayCountBasis,omitempty"`
	IssuanceDate     *civil.Date         `json:"issuanceDate,omitempty"`

	// Maturity extension (prorogation) clause with its step-up rate.
	ExtensionPossible  bool                `json:"extensionPossible"`
	ExtensionActivated bool                `json:"extensionActivated"`
	ExtensionMonths    *int                `json:"extensionMonths,omitempty"`
	StepUpRate         decimal.NullDecimal `json:"stepUpRate"`
}
