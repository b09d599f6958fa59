package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
)

// SubscriptionRepository provides read access to the souscriptions table.
type SubscriptionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSubscriptionRepository creates a new SubscriptionRepository with the provided database connection.
func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// WithTx returns a new SubscriptionRepository scoped to the provided transaction.
func (r *SubscriptionRepository) WithTx(tx *sql.Tx) *SubscriptionRepository {
	return &SubscriptionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SubscriptionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetSubscriptionsForTranche retrieves the subscriptions of a tranche with the
// invested amount and the investor's tax classification, ordered by ID.
// Returns an empty slice if the tranche has no subscriptions.
func (r *SubscriptionRepository) GetSubscriptionsForTranche(ctx context.Context, trancheID string) ([]model.Subscription, error) {
	query := `
		SELECT s.id, s.tranche_id, s.investisseur_id, i.type, s.montant_investi
		FROM souscriptions s
		JOIN investisseurs i ON i.id = s.investisseur_id
		WHERE s.tranche_id = ?
		ORDER BY s.id ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, trancheID)
	if err != nil {
		return nil, fmt.Errorf("failed to query souscriptions table: %w", err)
	}
	defer rows.Close()

	subscriptions := []model.Subscription{}
	for rows.Next() {
		var s model.Subscription
		if err := rows.Scan(&s.ID, &s.TrancheID, &s.InvestorID, &s.InvestorType, &s.InvestedAmount); err != nil {
			return nil, fmt.Errorf("failed to scan souscriptions table results: %w", err)
		}
		subscriptions = append(subscriptions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating souscriptions table: %w", err)
	}

	return subscriptions, nil
}
