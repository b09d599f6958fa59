package testutil

import (
	"database/sql"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
)

// ProjectBuilder provides a fluent interface for creating test projects.
//
// The defaults describe a complete project: 6% quarterly coupons over 12
// months on a 360-day basis, without extension clause.
//
// Example usage:
//
//	// Simple creation with defaults
//	project := testutil.NewProject().Build(t, db)
//
//	// Project with an activated extension clause
//	project := testutil.NewProject().
//	    WithExtension(6, "1.5").
//	    ExtensionActivated().
//	    Build(t, db)
type ProjectBuilder struct {
	ID                 string
	Name               string
	NominalRate        decimal.NullDecimal
	PaymentFrequency   string
	DurationMonths     *int
	DayCountBasis      *int
	IssuanceDate       *civil.Date
	ExtensionPossible  bool
	ExtensionMonths    *int
	StepUpRate         decimal.NullDecimal

	extensionActivated bool
}

// NewProject creates a ProjectBuilder with sensible defaults.
func NewProject() *ProjectBuilder {
	return &ProjectBuilder{
		ID:               MakeID(),
		Name:             MakeProjectName("Test Project"),
		NominalRate:      decimal.NewNullDecimal(decimal.RequireFromString("6")),
		PaymentFrequency: "trimestrielle",
		DurationMonths:   IntPtr(12),
		DayCountBasis:    IntPtr(360),
	}
}

// WithID sets a custom ID.
func (b *ProjectBuilder) WithID(id string) *ProjectBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *ProjectBuilder) WithName(name string) *ProjectBuilder {
	b.Name = name
	return b
}

// WithRate sets the project nominal rate, in percent.
func (b *ProjectBuilder) WithRate(rate string) *ProjectBuilder {
	b.NominalRate = decimal.NewNullDecimal(decimal.RequireFromString(rate))
	return b
}

// WithoutRate clears the project nominal rate.
func (b *ProjectBuilder) WithoutRate() *ProjectBuilder {
	b.NominalRate = decimal.NullDecimal{}
	return b
}

// WithFrequency sets the coupon payment frequency. An empty string stores NULL.
func (b *ProjectBuilder) WithFrequency(frequency string) *ProjectBuilder {
	b.PaymentFrequency = frequency
	return b
}

// WithDuration sets the project duration in months.
func (b *ProjectBuilder) WithDuration(months int) *ProjectBuilder {
	b.DurationMonths = &months
	return b
}

// WithoutDuration clears the project duration.
func (b *ProjectBuilder) WithoutDuration() *ProjectBuilder {
	b.DurationMonths = nil
	return b
}

// WithBasis sets the day-count basis.
func (b *ProjectBuilder) WithBasis(basis int) *ProjectBuilder {
	b.DayCountBasis = &basis
	return b
}

// WithIssuanceDate sets the project issuance date. Schedules never use it.
func (b *ProjectBuilder) WithIssuanceDate(date civil.Date) *ProjectBuilder {
	b.IssuanceDate = &date
	return b
}

// WithExtension makes an extension clause possible with the given extra months and step-up rate.
func (b *ProjectBuilder) WithExtension(months int, stepUp string) *ProjectBuilder {
	b.ExtensionPossible = true
	b.ExtensionMonths = &months
	b.StepUpRate = decimal.NewNullDecimal(decimal.RequireFromString(stepUp))
	return b
}

// ExtensionActivated marks the extension clause as activated.
func (b *ProjectBuilder) ExtensionActivated() *ProjectBuilder {
	b.extensionActivated = true
	return b
}

// Build creates the project in the database and returns it.
func (b *ProjectBuilder) Build(t *testing.T, db *sql.DB) model.Project {
	t.Helper()

	query := `
		INSERT INTO projets (id, nom, taux_nominal, periodicite_coupon, duree_mois, base_interet,
			date_emission, prorogation_possible, prorogation_activee, duree_prorogation_mois, taux_majoration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.Name, b.NominalRate, nullString(b.PaymentFrequency), intArg(b.DurationMonths),
		intArg(b.DayCountBasis), dateArg(b.IssuanceDate), b.ExtensionPossible, b.extensionActivated,
		intArg(b.ExtensionMonths), b.StepUpRate,
	)
	if err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}

	return model.Project{
		ID:                 b.ID,
		Name:               b.Name,
		NominalRate:        b.NominalRate,
		PaymentFrequency:   b.PaymentFrequency,
		DurationMonths:     b.DurationMonths,
		DayCountBasis:      b.DayCountBasis,
		IssuanceDate:       b.IssuanceDate,
		ExtensionPossible:  b.ExtensionPossible,
		ExtensionActivated: b.extensionActivated,
		ExtensionMonths:    b.ExtensionMonths,
		StepUpRate:         b.StepUpRate,
	}
}

// TrancheBuilder provides a fluent interface for creating test tranches.
// By default the tranche is issued on 2024-01-01 and inherits rate and duration.
type TrancheBuilder struct {
	ID               string
	ProjectID        string
	Name             string
	NominalRate      decimal.NullDecimal
	PaymentFrequency string
	IssuanceDate     *civil.Date
	DurationMonths   *int
}

// NewTranche creates a TrancheBuilder for the given project.
func NewTranche(projectID string) *TrancheBuilder {
	issuance := civil.Date{Year: 2024, Month: time.January, Day: 1}
	return &TrancheBuilder{
		ID:           MakeID(),
		ProjectID:    projectID,
		Name:         MakeTrancheName("Tranche"),
		IssuanceDate: &issuance,
	}
}

// WithID sets a custom ID.
func (b *TrancheBuilder) WithID(id string) *TrancheBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *TrancheBuilder) WithName(name string) *TrancheBuilder {
	b.Name = name
	return b
}

// WithRate sets a tranche-level nominal rate overriding the project's.
func (b *TrancheBuilder) WithRate(rate string) *TrancheBuilder {
	b.NominalRate = decimal.NewNullDecimal(decimal.RequireFromString(rate))
	return b
}

// WithFrequency sets a tranche-level frequency. Schedules ignore it.
func (b *TrancheBuilder) WithFrequency(frequency string) *TrancheBuilder {
	b.PaymentFrequency = frequency
	return b
}

// WithIssuanceDate sets the issuance date.
func (b *TrancheBuilder) WithIssuanceDate(date civil.Date) *TrancheBuilder {
	b.IssuanceDate = &date
	return b
}

// WithoutIssuanceDate clears the issuance date.
func (b *TrancheBuilder) WithoutIssuanceDate() *TrancheBuilder {
	b.IssuanceDate = nil
	return b
}

// WithDuration sets a tranche-level duration overriding the project's.
func (b *TrancheBuilder) WithDuration(months int) *TrancheBuilder {
	b.DurationMonths = &months
	return b
}

// Build creates the tranche in the database and returns it.
func (b *TrancheBuilder) Build(t *testing.T, db *sql.DB) model.Tranche {
	t.Helper()

	query := `
		INSERT INTO tranches (id, projet_id, nom, taux_nominal, periodicite_coupon,
			date_emission_tranche, duree_mois)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.ProjectID, b.Name, b.NominalRate, nullString(b.PaymentFrequency),
		dateArg(b.IssuanceDate), intArg(b.DurationMonths),
	)
	if err != nil {
		t.Fatalf("Failed to create test tranche: %v", err)
	}

	return model.Tranche{
		ID:               b.ID,
		ProjectID:        b.ProjectID,
		Name:             b.Name,
		NominalRate:      b.NominalRate,
		PaymentFrequency: b.PaymentFrequency,
		IssuanceDate:     b.IssuanceDate,
		DurationMonths:   b.DurationMonths,
	}
}

// InvestorBuilder provides a fluent interface for creating test investors.
// Investors are physical persons unless Corporate is called.
type InvestorBuilder struct {
	ID   string
	Name string
	Type string
}

// NewInvestor creates an InvestorBuilder with sensible defaults.
func NewInvestor() *InvestorBuilder {
	return &InvestorBuilder{
		ID:   MakeID(),
		Name: "Investor " + randomAlphanumeric(6),
		Type: model.InvestorTypePhysical,
	}
}

// Corporate marks the investor as a legal entity.
func (b *InvestorBuilder) Corporate() *InvestorBuilder {
	b.Type = model.InvestorTypeCorporate
	return b
}

// Build creates the investor in the database and returns it.
func (b *InvestorBuilder) Build(t *testing.T, db *sql.DB) model.Investor {
	t.Helper()

	_, err := db.Exec(`INSERT INTO investisseurs (id, nom, type) VALUES (?, ?, ?)`, b.ID, b.Name, b.Type)
	if err != nil {
		t.Fatalf("Failed to create test investor: %v", err)
	}

	return model.Investor{ID: b.ID, Name: b.Name, Type: b.Type}
}

// SubscriptionBuilder provides a fluent interface for creating test subscriptions.
type SubscriptionBuilder struct {
	ID             string
	TrancheID      string
	Investor       model.Investor
	InvestedAmount decimal.Decimal
}

// NewSubscription creates a SubscriptionBuilder of €100,000 for the given tranche and investor.
func NewSubscription(trancheID string, investor model.Investor) *SubscriptionBuilder {
	return &SubscriptionBuilder{
		ID:             MakeID(),
		TrancheID:      trancheID,
		Investor:       investor,
		InvestedAmount: decimal.RequireFromString("100000"),
	}
}

// WithID sets a custom ID.
func (b *SubscriptionBuilder) WithID(id string) *SubscriptionBuilder {
	b.ID = id
	return b
}

// WithAmount sets the invested amount.
func (b *SubscriptionBuilder) WithAmount(amount string) *SubscriptionBuilder {
	b.InvestedAmount = decimal.RequireFromString(amount)
	return b
}

// Build creates the subscription in the database and returns it.
func (b *SubscriptionBuilder) Build(t *testing.T, db *sql.DB) model.Subscription {
	t.Helper()

	query := `
		INSERT INTO souscriptions (id, tranche_id, investisseur_id, montant_investi)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.TrancheID, b.Investor.ID, b.InvestedAmount)
	if err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return model.Subscription{
		ID:             b.ID,
		TrancheID:      b.TrancheID,
		InvestorID:     b.Investor.ID,
		InvestorType:   b.Investor.Type,
		InvestedAmount: b.InvestedAmount,
	}
}

// CouponBuilder provides a fluent interface for creating test coupons.
// Coupons are pending unless Paid is called.
type CouponBuilder struct {
	ID             string
	SubscriptionID string
	DueDate        civil.Date
	GrossAmount    decimal.Decimal
	NetAmount      decimal.Decimal
	Status         string
	PaymentDate    *civil.Date
	PaidAmount     decimal.NullDecimal
}

// NewCoupon creates a pending CouponBuilder for the given subscription and due date.
func NewCoupon(subscriptionID string, dueDate civil.Date) *CouponBuilder {
	return &CouponBuilder{
		ID:             MakeID(),
		SubscriptionID: subscriptionID,
		DueDate:        dueDate,
		GrossAmount:    decimal.RequireFromString("100"),
		NetAmount:      decimal.RequireFromString("70"),
		Status:         model.CouponStatusPending,
	}
}

// WithAmounts sets the gross and net amounts.
func (b *CouponBuilder) WithAmounts(gross, net string) *CouponBuilder {
	b.GrossAmount = decimal.RequireFromString(gross)
	b.NetAmount = decimal.RequireFromString(net)
	return b
}

// Paid marks the coupon as paid on the due date for its net amount.
func (b *CouponBuilder) Paid() *CouponBuilder {
	date := b.DueDate
	b.Status = model.CouponStatusPaid
	b.PaymentDate = &date
	b.PaidAmount = decimal.NewNullDecimal(b.NetAmount)
	return b
}

// Build creates the coupon in the database and returns it.
func (b *CouponBuilder) Build(t *testing.T, db *sql.DB) model.Coupon {
	t.Helper()

	query := `
		INSERT INTO coupons (id, souscription_id, date_echeance, montant_brut, montant_net,
			statut, date_paiement, montant_paye)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.SubscriptionID, b.DueDate.String(), b.GrossAmount, b.NetAmount,
		b.Status, dateArg(b.PaymentDate), b.PaidAmount,
	)
	if err != nil {
		t.Fatalf("Failed to create test coupon: %v", err)
	}

	return model.Coupon{
		ID:             b.ID,
		SubscriptionID: b.SubscriptionID,
		DueDate:        b.DueDate,
		GrossAmount:    b.GrossAmount,
		NetAmount:      b.NetAmount,
		Status:         b.Status,
		PaymentDate:    b.PaymentDate,
		PaidAmount:     b.PaidAmount,
	}
}

// Convenience functions

// CreateQuarterlyTranche creates a project with default parameters and one
// tranche issued on 2024-01-01 that inherits them.
func CreateQuarterlyTranche(t *testing.T, db *sql.DB) (model.Project, model.Tranche) {
	t.Helper()
	project := NewProject().Build(t, db)
	tranche := NewTranche(project.ID).Build(t, db)
	return project, tranche
}

// CreateSubscription creates an investor and a subscription of amount on the tranche.
func CreateSubscription(t *testing.T, db *sql.DB, trancheID, amount string, corporate bool) model.Subscription {
	t.Helper()
	ib := NewInvestor()
	if corporate {
		ib.Corporate()
	}
	investor := ib.Build(t, db)
	return NewSubscription(trancheID, investor).WithAmount(amount).Build(t, db)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func intArg(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func dateArg(d *civil.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
