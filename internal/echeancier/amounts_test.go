package echeancier_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/echeancier"
)

func TestComputeAmounts(t *testing.T) {
	invested := decimal.NewFromInt(100000)
	rate := decimal.NewFromInt(6)
	quarter := echeancier.PeriodRatio(echeancier.Quarterly, 360)
	stepUp := decimal.RequireFromString("1.5")

	t.Run("physical person receives 70% of gross", func(t *testing.T) {
		a := echeancier.ComputeAmounts(invested, rate, quarter, false, stepUp)

		if !a.BaseGross.Equal(decimal.NewFromInt(1500)) {
			t.Errorf("Expected base gross 1500, got %s", a.BaseGross)
		}
		if !a.BaseNet.Equal(decimal.NewFromInt(1050)) {
			t.Errorf("Expected base net 1050, got %s", a.BaseNet)
		}
		if !a.BaseNet.Equal(a.BaseGross.Mul(decimal.RequireFromString("0.7"))) {
			t.Errorf("Expected net to be exactly 70%% of gross, got %s / %s", a.BaseNet, a.BaseGross)
		}
	})

	t.Run("corporate investor net equals gross", func(t *testing.T) {
		a := echeancier.ComputeAmounts(invested, rate, quarter, true, stepUp)

		if !a.BaseNet.Equal(a.BaseGross) {
			t.Errorf("Expected net == gross, got %s / %s", a.BaseNet, a.BaseGross)
		}
		if !a.ExtensionNet.Equal(a.ExtensionGross) {
			t.Errorf("Expected extension net == gross, got %s / %s", a.ExtensionNet, a.ExtensionGross)
		}
	})

	t.Run("extension coupon uses rate plus step-up", func(t *testing.T) {
		a := echeancier.ComputeAmounts(invested, rate, quarter, false, stepUp)

		// 100000 x 7.5% x 0.25
		if !a.ExtensionGross.Equal(decimal.NewFromInt(1875)) {
			t.Errorf("Expected extension gross 1875, got %s", a.ExtensionGross)
		}
		if !a.ExtensionNet.Equal(decimal.RequireFromString("1312.5")) {
			t.Errorf("Expected extension net 1312.5, got %s", a.ExtensionNet)
		}
	})

	t.Run("no rounding is applied", func(t *testing.T) {
		a := echeancier.ComputeAmounts(decimal.NewFromInt(1000), decimal.RequireFromString("5.5"),
			echeancier.PeriodRatio(echeancier.Monthly, 365), false, decimal.Zero)

		if a.BaseGross.Equal(a.BaseGross.Round(2)) {
			t.Errorf("Expected unrounded gross, got %s", a.BaseGross)
		}
	})
}
