package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
)

// TrancheRepository provides data access methods for the tranches table and
// the project fields a tranche inherits.
type TrancheRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTrancheRepository creates a new TrancheRepository with the provided database connection.
func NewTrancheRepository(db *sql.DB) *TrancheRepository {
	return &TrancheRepository{db: db}
}

// WithTx returns a new TrancheRepository scoped to the provided transaction.
func (r *TrancheRepository) WithTx(tx *sql.Tx) *TrancheRepository {
	return &TrancheRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TrancheRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const trancheColumns = `t.id, t.projet_id, t.nom, t.taux_nominal, t.periodicite_coupon,
		t.date_emission_tranche, t.duree_mois, t.date_echeance_finale`

// GetTranches retrieves all tranches ordered by name.
func (r *TrancheRepository) GetTranches(ctx context.Context) ([]model.Tranche, error) {
	query := `SELECT ` + trancheColumns + ` FROM tranches t ORDER BY t.nom ASC, t.id ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tranches table: %w", err)
	}
	defer rows.Close()

	tranches := []model.Tranche{}
	for rows.Next() {
		t, err := scanTranche(rows)
		if err != nil {
			return nil, err
		}
		tranches = append(tranches, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tranches table: %w", err)
	}

	return tranches, nil
}

// GetTrancheWithProject retrieves one tranche joined with its parent project's
// rate, frequency, duration, day-count basis and extension fields.
// Returns ErrTrancheNotFound if no tranche with the given ID exists.
func (r *TrancheRepository) GetTrancheWithProject(ctx context.Context, trancheID string) (model.TrancheWithProject, error) {
	if trancheID == "" {
		return model.TrancheWithProject{}, apperrors.ErrInvalidTrancheID
	}

	query := `
		SELECT ` + trancheColumns + `,
			p.id, p.nom, p.taux_nominal, p.periodicite_coupon, p.duree_mois, p.base_interet,
			p.date_emission, p.prorogation_possible, p.prorogation_activee,
			p.duree_prorogation_mois, p.taux_majoration
		FROM tranches t
		LEFT JOIN projets p ON p.id = t.projet_id
		WHERE t.id = ?
	`

	var (
		twp                        model.TrancheWithProject
		trancheRate                decimal.NullDecimal
		trancheFrequency           sql.NullString
		issuance, finalMaturity    sql.NullString
		trancheDuration            sql.NullInt64
		projectID, projectName     sql.NullString
		projectFrequency           sql.NullString
		projectDuration, basis     sql.NullInt64
		projectIssuance            sql.NullString
		extPossible, extActivated  sql.NullBool
		extMonths                  sql.NullInt64
		projectRate, projectStepUp decimal.NullDecimal
	)

	err := r.getQuerier().QueryRowContext(ctx, query, trancheID).Scan(
		&twp.ID, &twp.ProjectID, &twp.Name, &trancheRate, &trancheFrequency,
		&issuance, &trancheDuration, &finalMaturity,
		&projectID, &projectName, &projectRate, &projectFrequency, &projectDuration, &basis,
		&projectIssuance, &extPossible, &extActivated,
		&extMonths, &projectStepUp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TrancheWithProject{}, apperrors.ErrTrancheNotFound
	}
	if err != nil {
		return model.TrancheWithProject{}, fmt.Errorf("failed to query tranche: %w", err)
	}
	if !projectID.Valid {
		return model.TrancheWithProject{}, fmt.Errorf("%w: tranche %s references missing project %s",
			apperrors.ErrProjectNotFound, twp.ID, twp.ProjectID)
	}

	twp.NominalRate = trancheRate
	twp.PaymentFrequency = trancheFrequency.String
	twp.DurationMonths = nullInt(trancheDuration)
	if twp.IssuanceDate, err = parseNullDate(issuance); err != nil {
		return model.TrancheWithProject{}, fmt.Errorf("failed to parse date_emission_tranche: %w", err)
	}
	if twp.FinalMaturityDate, err = parseNullDate(finalMaturity); err != nil {
		return model.TrancheWithProject{}, fmt.Errorf("failed to parse date_echeance_finale: %w", err)
	}

	twp.Project = model.Project{
		ID:                 projectID.String,
		Name:               projectName.String,
		NominalRate:        projectRate,
		PaymentFrequency:   projectFrequency.String,
		DurationMonths:     nullInt(projectDuration),
		DayCountBasis:      nullInt(basis),
		ExtensionPossible:  extPossible.Bool,
		ExtensionActivated: extActivated.Bool,
		ExtensionMonths:    nullInt(extMonths),
		StepUpRate:         projectStepUp,
	}
	if twp.Project.IssuanceDate, err = parseNullDate(projectIssuance); err != nil {
		return model.TrancheWithProject{}, fmt.Errorf("failed to parse project date_emission: %w", err)
	}

	return twp, nil
}

// UpdateFinalMaturity persists the authoritative final maturity date of a tranche.
func (r *TrancheRepository) UpdateFinalMaturity(ctx context.Context, trancheID string, maturity civil.Date) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE tranches SET date_echeance_finale = ? WHERE id = ?`,
		maturity.String(), trancheID,
	)
	if err != nil {
		return fmt.Errorf("failed to update final maturity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTrancheNotFound
	}
	return nil
}

func scanTranche(rows *sql.Rows) (model.Tranche, error) {
	var (
		t                       model.Tranche
		frequency               sql.NullString
		issuance, finalMaturity sql.NullString
		duration                sql.NullInt64
	)

	err := rows.Scan(&t.ID, &t.ProjectID, &t.Name, &t.NominalRate, &frequency,
		&issuance, &duration, &finalMaturity)
	if err != nil {
		return model.Tranche{}, fmt.Errorf("failed to scan tranches table results: %w", err)
	}

	t.PaymentFrequency = frequency.String
	t.DurationMonths = nullInt(duration)
	if t.IssuanceDate, err = parseNullDate(issuance); err != nil {
		return model.Tranche{}, fmt.Errorf("failed to parse date_emission_tranche: %w", err)
	}
	if t.FinalMaturityDate, err = parseNullDate(finalMaturity); err != nil {
		return model.Tranche{}, fmt.Errorf("failed to parse date_echeance_finale: %w", err)
	}
	return t, nil
}
