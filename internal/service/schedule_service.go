package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/echeancier"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/repository"
)

// regenerateTimeout bounds a shared regeneration once it no longer follows its callers.
const regenerateTimeout = 5 * time.Minute

// ScheduleService regenerates the coupon schedules (échéanciers) of tranches.
type ScheduleService struct {
	db               *sql.DB
	trancheRepo      *repository.TrancheRepository
	subscriptionRepo *repository.SubscriptionRepository
	couponRepo       *repository.CouponRepository
	policy           echeancier.FrequencyPolicy
	logger           *zap.Logger
	inflight         singleflight.Group
	now              func() time.Time
}

// NewScheduleService creates a new ScheduleService with the provided repository dependencies.
// The database handle is only used to open the write transaction of a regeneration.
func NewScheduleService(
	db *sql.DB,
	trancheRepo *repository.TrancheRepository,
	subscriptionRepo *repository.SubscriptionRepository,
	couponRepo *repository.CouponRepository,
	policy echeancier.FrequencyPolicy,
	logger *zap.Logger,
) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		db:               db,
		trancheRepo:      trancheRepo,
		subscriptionRepo: subscriptionRepo,
		couponRepo:       couponRepo,
		policy:           policy,
		logger:           logger,
		now:              time.Now,
	}
}

// Regenerate recomputes every pending coupon of a tranche.
//
// The workflow is:
//  1. Load the tranche and its project
//  2. Resolve the effective parameters (a *echeancier.ConfigError aborts before any write)
//  3. Load the subscriptions; none means success with zero counts and no write
//  4. Load the paid coupons, which are kept as they are
//  5. Generate the schedule
//  6. In one transaction: delete pending coupons, insert the new ones and
//     store the final maturity date
//
// Concurrent calls for the same tranche share a single execution. That
// execution is detached from the caller's cancellation, so a client that
// disconnects does not fail the callers that joined it; it is bounded by
// regenerateTimeout instead.
//
// Returns:
//   - apperrors.ErrTrancheNotFound if the tranche doesn't exist
//   - *echeancier.ConfigError if required parameters are missing or invalid
//   - a wrapped data access error otherwise
func (s *ScheduleService) Regenerate(ctx context.Context, trancheID string) (model.RegenerationResult, error) {
	return s.runShared(trancheID, func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.WithoutCancel(ctx), regenerateTimeout)
	})
}

// runShared runs the regeneration of trancheID once for all concurrent callers,
// under the context returned by runCtx.
func (s *ScheduleService) runShared(
	trancheID string,
	runCtx func() (context.Context, context.CancelFunc),
) (model.RegenerationResult, error) {
	v, err, shared := s.inflight.Do(trancheID, func() (any, error) {
		ctx, cancel := runCtx()
		defer cancel()
		return s.regenerate(ctx, trancheID)
	})
	if shared {
		s.logger.Debug("joined in-flight regeneration", zap.String("tranche_id", trancheID))
	}
	if err != nil {
		return model.RegenerationResult{}, err
	}
	return v.(model.RegenerationResult), nil
}

func (s *ScheduleService) regenerate(ctx context.Context, trancheID string) (model.RegenerationResult, error) {
	log := s.logger.With(zap.String("tranche_id", trancheID))

	twp, err := s.trancheRepo.GetTrancheWithProject(ctx, trancheID)
	if err != nil {
		return model.RegenerationResult{}, err
	}

	params, err := echeancier.ResolveParameters(twp.Tranche, twp.Project, s.policy)
	if err != nil {
		log.Warn("tranche parameters are incomplete, schedule left untouched", zap.Error(err))
		return model.RegenerationResult{}, err
	}
	for _, w := range params.Warnings {
		log.Warn("parameter warning", zap.String("warning", w))
	}

	result := model.RegenerationResult{
		Success:         true,
		TrancheID:       twp.ID,
		TrancheName:     twp.Name,
		ExtensionActive: params.Extension.Active,
		Warnings:        params.Warnings,
	}

	subscriptions, err := s.subscriptionRepo.GetSubscriptionsForTranche(ctx, trancheID)
	if err != nil {
		return model.RegenerationResult{}, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	if len(subscriptions) == 0 {
		log.Info("tranche has no subscriptions, nothing to regenerate")
		return result, nil
	}

	subIDs := make([]string, len(subscriptions))
	for i, sub := range subscriptions {
		subIDs[i] = sub.ID
	}

	paid, err := s.couponRepo.GetPaidCoupons(ctx, subIDs)
	if err != nil {
		return model.RegenerationResult{}, fmt.Errorf("failed to load paid coupons: %w", err)
	}

	sched := echeancier.Generate(params, subscriptions, paid)
	coupons := s.toCoupons(sched.Entries)

	deleted, err := s.replacePending(ctx, trancheID, subIDs, coupons, sched)
	if err != nil {
		return model.RegenerationResult{}, err
	}

	maturity := sched.FinalMaturityDate
	result.UpdatedSubscriptions = len(subscriptions)
	result.DeletedPendingCoupons = deleted
	result.CreatedCoupons = len(coupons)
	result.PreservedPaidCoupons = sched.PreservedPaid
	result.FinalMaturityDate = &maturity

	log.Info("schedule regenerated",
		zap.Stringer("parameters", params),
		zap.Int("subscriptions", result.UpdatedSubscriptions),
		zap.Int64("deleted_pending", deleted),
		zap.Int("created", result.CreatedCoupons),
		zap.Int("preserved_paid", result.PreservedPaidCoupons),
		zap.Stringer("final_maturity", maturity),
	)

	return result, nil
}

// replacePending swaps the pending schedule and stores the final maturity in one transaction.
func (s *ScheduleService) replacePending(
	ctx context.Context,
	trancheID string,
	subIDs []string,
	coupons []model.Coupon,
	sched echeancier.Schedule,
) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.logger.Error("failed to roll back regeneration", zap.String("tranche_id", trancheID), zap.Error(err))
		}
	}()

	couponRepo := s.couponRepo.WithTx(tx)

	deleted, err := couponRepo.DeletePendingCoupons(ctx, subIDs)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToRegenerateSchedule, err)
	}
	if err := couponRepo.InsertCoupons(ctx, coupons); err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToRegenerateSchedule, err)
	}
	if err := s.trancheRepo.WithTx(tx).UpdateFinalMaturity(ctx, trancheID, sched.FinalMaturityDate); err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToRegenerateSchedule, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: failed to commit: %w", apperrors.ErrFailedToRegenerateSchedule, err)
	}
	return deleted, nil
}

func (s *ScheduleService) toCoupons(entries []echeancier.Entry) []model.Coupon {
	createdAt := s.now().UTC()
	coupons := make([]model.Coupon, len(entries))
	for i, e := range entries {
		coupons[i] = model.Coupon{
			ID:             uuid.New().String(),
			SubscriptionID: e.SubscriptionID,
			DueDate:        e.DueDate,
			GrossAmount:    e.GrossAmount,
			NetAmount:      e.NetAmount,
			Status:         model.CouponStatusPending,
			CreatedAt:      createdAt,
		}
	}
	return coupons
}

// RegenerateAll regenerates every tranche one after the other.
// A failing tranche is logged and recorded in the summary; the sweep carries on.
// Only a failure to list tranches or a cancelled context stops it. Unlike
// Regenerate, the tranche in progress follows ctx, so cancelling a sweep
// rolls back its current transaction.
func (s *ScheduleService) RegenerateAll(ctx context.Context) (model.SweepSummary, error) {
	tranches, err := s.trancheRepo.GetTranches(ctx)
	if err != nil {
		return model.SweepSummary{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTranches, err)
	}

	summary := model.SweepSummary{
		Tranches: len(tranches),
		Failures: map[string]string{},
	}

	for _, t := range tranches {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		_, err := s.runShared(t.ID, func() (context.Context, context.CancelFunc) {
			return context.WithCancel(ctx)
		})
		if err != nil {
			summary.Failed++
			summary.Failures[t.ID] = err.Error()
			s.logger.Error("tranche regeneration failed",
				zap.String("tranche_id", t.ID),
				zap.String("tranche_name", t.Name),
				zap.Error(err),
			)
			continue
		}
		summary.Succeeded++
	}

	s.logger.Info("regeneration sweep finished",
		zap.Int("tranches", summary.Tranches),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// FailureFromError builds the failure payload for a regeneration error.
// Configuration errors carry the names of the offending parameters.
func FailureFromError(err error) model.RegenerationFailure {
	failure := model.RegenerationFailure{Success: false, Error: err.Error()}

	var cfgErr *echeancier.ConfigError
	if errors.As(err, &cfgErr) {
		failure.MissingParams = cfgErr.MissingParams
		failure.InvalidParams = cfgErr.InvalidParams
	}
	return failure
}
