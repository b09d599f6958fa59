package service

import (
	"context"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/echeancier"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/repository"
)

// TrancheService handles tranche-related read operations.
type TrancheService struct {
	trancheRepo *repository.TrancheRepository
	policy      echeancier.FrequencyPolicy
}

// NewTrancheService creates a new TrancheService with the provided repository dependencies.
func NewTrancheService(trancheRepo *repository.TrancheRepository, policy echeancier.FrequencyPolicy) *TrancheService {
	return &TrancheService{
		trancheRepo: trancheRepo,
		policy:      policy,
	}
}

// GetTranches retrieves all tranches.
func (s *TrancheService) GetTranches(ctx context.Context) ([]model.Tranche, error) {
	return s.trancheRepo.GetTranches(ctx)
}

// GetTranche retrieves a tranche joined with its project.
// Returns apperrors.ErrTrancheNotFound if the tranche doesn't exist.
func (s *TrancheService) GetTranche(ctx context.Context, trancheID string) (model.TrancheWithProject, error) {
	return s.trancheRepo.GetTrancheWithProject(ctx, trancheID)
}

// ResolvedParameters is the effective parameter set of a tranche as the
// schedule engine would see it.
type ResolvedParameters struct {
	TrancheID        string   `json:"trancheId"`
	NominalRate      string   `json:"nominalRate"`
	PaymentFrequency string   `json:"paymentFrequency"`
	PeriodRatio      string   `json:"periodRatio"`
	IssuanceDate     string   `json:"issuanceDate"`
	DurationMonths   int      `json:"durationMonths"`
	DayCountBasis    int      `json:"dayCountBasis"`
	ExtensionActive  bool     `json:"extensionActive"`
	ExtensionMonths  int      `json:"extensionMonths"`
	StepUpRate       string   `json:"stepUpRate"`
	Warnings         []string `json:"warnings,omitempty"`
}

// GetParameters resolves the effective parameters of a tranche without touching the schedule.
// Returns a *echeancier.ConfigError when required parameters are missing or invalid.
func (s *TrancheService) GetParameters(ctx context.Context, trancheID string) (ResolvedParameters, error) {
	twp, err := s.trancheRepo.GetTrancheWithProject(ctx, trancheID)
	if err != nil {
		return ResolvedParameters{}, err
	}

	params, err := echeancier.ResolveParameters(twp.Tranche, twp.Project, s.policy)
	if err != nil {
		return ResolvedParameters{}, err
	}

	return ResolvedParameters{
		TrancheID:        twp.ID,
		NominalRate:      params.NominalRate.String(),
		PaymentFrequency: string(params.Frequency),
		PeriodRatio:      echeancier.PeriodRatio(params.Frequency, params.DayCountBasis).String(),
		IssuanceDate:     params.IssuanceDate.String(),
		DurationMonths:   params.DurationMonths,
		DayCountBasis:    params.DayCountBasis,
		ExtensionActive:  params.Extension.Active,
		ExtensionMonths:  params.Extension.ExtraMonths,
		StepUpRate:       params.Extension.StepUpRate.String(),
		Warnings:         params.Warnings,
	}, nil
}
