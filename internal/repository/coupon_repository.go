package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
)

// CouponRepository provides data access methods for the coupons ledger.
// Paid rows are only ever read; DeletePendingCoupons never touches them.
type CouponRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewCouponRepository creates a new CouponRepository with the provided database connection.
func NewCouponRepository(db *sql.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// WithTx returns a new CouponRepository scoped to the provided transaction.
func (r *CouponRepository) WithTx(tx *sql.Tx) *CouponRepository {
	return &CouponRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *CouponRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const couponColumns = `c.id, c.souscription_id, c.date_echeance, c.montant_brut, c.montant_net,
		c.statut, c.date_paiement, c.montant_paye, c.created_at`

// GetPaidCoupons retrieves the paid coupons of the given subscriptions.
// If subIDs is empty, returns an empty slice.
func (r *CouponRepository) GetPaidCoupons(ctx context.Context, subIDs []string) ([]model.Coupon, error) {
	if len(subIDs) == 0 {
		return []model.Coupon{}, nil
	}

	placeholders, args := inClause(subIDs)
	query := `
		SELECT ` + couponColumns + `
		FROM coupons c
		WHERE c.souscription_id IN (` + placeholders + `)
		AND c.statut = ?
		ORDER BY c.souscription_id ASC, c.date_echeance ASC
	`
	args = append(args, model.CouponStatusPaid)

	return r.queryCoupons(ctx, query, args...)
}

// GetCouponsForTranche retrieves the coupons of every subscription of a tranche.
// An empty status returns both pending and paid coupons.
func (r *CouponRepository) GetCouponsForTranche(ctx context.Context, trancheID, status string) ([]model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons c
		JOIN souscriptions s ON s.id = c.souscription_id
		WHERE s.tranche_id = ?
	`
	args := []any{trancheID}
	if status != "" {
		query += ` AND c.statut = ?`
		args = append(args, status)
	}
	query += ` ORDER BY c.date_echeance ASC, c.souscription_id ASC`

	return r.queryCoupons(ctx, query, args...)
}

// GetCoupon retrieves a single coupon by ID.
// Returns ErrCouponNotFound if no coupon with the given ID exists.
func (r *CouponRepository) GetCoupon(ctx context.Context, couponID string) (model.Coupon, error) {
	if couponID == "" {
		return model.Coupon{}, apperrors.ErrInvalidCouponID
	}

	coupons, err := r.queryCoupons(ctx, `SELECT `+couponColumns+` FROM coupons c WHERE c.id = ?`, couponID)
	if err != nil {
		return model.Coupon{}, err
	}
	if len(coupons) == 0 {
		return model.Coupon{}, apperrors.ErrCouponNotFound
	}
	return coupons[0], nil
}

// DeletePendingCoupons removes every non-paid coupon of the given subscriptions
// and returns the number of deleted rows.
func (r *CouponRepository) DeletePendingCoupons(ctx context.Context, subIDs []string) (int64, error) {
	if len(subIDs) == 0 {
		return 0, nil
	}

	placeholders, args := inClause(subIDs)
	query := `DELETE FROM coupons WHERE souscription_id IN (` + placeholders + `) AND statut <> ?`
	args = append(args, model.CouponStatusPaid)

	result, err := r.getQuerier().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pending coupons: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return deleted, nil
}

// InsertCoupons bulk-inserts coupon rows using a single prepared statement.
func (r *CouponRepository) InsertCoupons(ctx context.Context, coupons []model.Coupon) error {
	if len(coupons) == 0 {
		return nil
	}

	stmt, err := r.getQuerier().PrepareContext(ctx, `
		INSERT INTO coupons (id, souscription_id, date_echeance, montant_brut, montant_net,
			statut, date_paiement, montant_paye, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare coupon insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range coupons {
		_, err := stmt.ExecContext(ctx,
			c.ID,
			c.SubscriptionID,
			c.DueDate.String(),
			c.GrossAmount.StringFixed(2),
			c.NetAmount.StringFixed(2),
			c.Status,
			nullDateArg(c.PaymentDate),
			c.PaidAmount,
			c.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert coupon for subscription %s due %s: %w", c.SubscriptionID, c.DueDate, err)
		}
	}
	return nil
}

// MarkCouponPaid records the payment of a pending coupon.
// Returns ErrCouponNotFound for an unknown coupon and ErrCouponAlreadyPaid if
// the coupon was already paid.
func (r *CouponRepository) MarkCouponPaid(ctx context.Context, couponID string, paymentDate civil.Date, amount decimal.Decimal) error {
	result, err := r.getQuerier().ExecContext(ctx, `
		UPDATE coupons
		SET statut = ?, date_paiement = ?, montant_paye = ?
		WHERE id = ? AND statut <> ?
	`, model.CouponStatusPaid, paymentDate.String(), amount.StringFixed(2), couponID, model.CouponStatusPaid)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	if _, err := r.GetCoupon(ctx, couponID); err != nil {
		return err
	}
	return apperrors.ErrCouponAlreadyPaid
}

func (r *CouponRepository) queryCoupons(ctx context.Context, query string, args ...any) ([]model.Coupon, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query coupons table: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		var (
			c                      model.Coupon
			dueDateStr, createdStr string
			paymentDate            sql.NullString
		)

		err := rows.Scan(&c.ID, &c.SubscriptionID, &dueDateStr, &c.GrossAmount, &c.NetAmount,
			&c.Status, &paymentDate, &c.PaidAmount, &createdStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupons table results: %w", err)
		}

		if c.DueDate, err = ParseDate(dueDateStr); err != nil {
			return nil, fmt.Errorf("failed to parse date_echeance: %w", err)
		}
		if c.PaymentDate, err = parseNullDate(paymentDate); err != nil {
			return nil, fmt.Errorf("failed to parse date_paiement: %w", err)
		}
		if c.CreatedAt, err = ParseTime(createdStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coupons table: %w", err)
	}

	return coupons, nil
}
