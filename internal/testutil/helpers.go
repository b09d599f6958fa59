package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/echeancier"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/repository"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/service"
)

// NewTestScheduleService creates a ScheduleService using the lenient frequency policy
// and a logger that writes to the test output.
func NewTestScheduleService(t *testing.T, db *sql.DB) *service.ScheduleService {
	t.Helper()
	return NewTestScheduleServiceWithPolicy(t, db, echeancier.PolicyLenient)
}

// NewTestScheduleServiceWithPolicy creates a ScheduleService with the given frequency policy.
func NewTestScheduleServiceWithPolicy(t *testing.T, db *sql.DB, policy echeancier.FrequencyPolicy) *service.ScheduleService {
	t.Helper()

	return service.NewScheduleService(
		db,
		repository.NewTrancheRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewCouponRepository(db),
		policy,
		zaptest.NewLogger(t),
	)
}

func NewTestTrancheService(t *testing.T, db *sql.DB) *service.TrancheService {
	t.Helper()

	return service.NewTrancheService(
		repository.NewTrancheRepository(db),
		echeancier.PolicyLenient,
	)
}

func NewTestCouponService(t *testing.T, db *sql.DB) *service.CouponService {
	t.Helper()

	return service.NewCouponService(
		repository.NewTrancheRepository(db),
		repository.NewCouponRepository(db),
		zaptest.NewLogger(t),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, "0 2 * * *")
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeProjectName generates a unique project name for testing.
//
// Example usage:
//
//	name := testutil.MakeProjectName("Solar Park")
//	// Returns: "Solar Park ABC123"
func MakeProjectName(base string) string {
	if base == "" {
		base = "Project"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeTrancheName generates a unique tranche name for testing.
func MakeTrancheName(base string) string {
	if base == "" {
		base = "Tranche"
	}
	return base + " " + randomAlphanumeric(4)
}

// Date builds a civil.Date, for readable test tables.
func Date(year int, month time.Month, day int) civil.Date {
	return civil.Date{Year: year, Month: month, Day: day}
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
