package model

import "cloud.google.com/go/civil"

// RegenerationResult is returned after a successful schedule regeneration of a tranche.
type RegenerationResult struct {
	Success               bool        `json:"success"`
	TrancheID             string      `json:"trancheId"`
	TrancheName           string      `json:"trancheName"`
	UpdatedSubscriptions  int         `json:"updatedSubscriptions"`
	DeletedPendingCoupons int64       `json:"deletedPendingCoupons"`
	CreatedCoupons        int         `json:"createdCoupons"`
	PreservedPaidCoupons  int         `json:"preservedPaidCoupons"`
	FinalMaturityDate     *civil.Date `json:"finalMaturityDate,omitempty"`
	ExtensionActive       bool        `json:"extensionActive"`
	Warnings              []string    `json:"warnings,omitempty"`
}

// RegenerationFailure is returned when a regeneration was refused or failed.
// MissingParams and InvalidParams are only set for configuration errors.
type RegenerationFailure struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error"`
	MissingParams []string `json:"missingParams,omitempty"`
	InvalidParams []string `json:"invalidParams,omitempty"`
}

// SweepSummary reports a regeneration run over every tranche.
type SweepSummary struct {
	Tranches  int               `json:"tranches"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Failures  map[string]string `json:"failures,omitempty"` // tranche ID -> error
}
