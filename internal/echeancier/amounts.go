package echeancier

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)

	// physicalPersonNetFactor applies the flat 30% withholding on natural persons.
	physicalPersonNetFactor = decimal.RequireFromString("0.70")
	corporateNetFactor      = decimal.NewFromInt(1)
)

// Amounts holds the per-period coupon of one subscription, unrounded.
type Amounts struct {
	BaseGross      decimal.Decimal
	BaseNet        decimal.Decimal
	ExtensionGross decimal.Decimal
	ExtensionNet   decimal.Decimal
}

// NetFactor returns the share of the gross coupon paid out to the investor.
func NetFactor(corporate bool) decimal.Decimal {
	if corporate {
		return corporateNetFactor
	}
	return physicalPersonNetFactor
}

// ComputeAmounts computes the base and extension coupon of one subscription.
// The extension coupon uses rate+stepUp and is always computed; the schedule
// generator decides whether it is used.
func ComputeAmounts(invested, rate, ratio decimal.Decimal, corporate bool, stepUp decimal.Decimal) Amounts {
	factor := NetFactor(corporate)
	periodCoupon := func(r decimal.Decimal) (gross, net decimal.Decimal) {
		annual := invested.Mul(r).Div(hundred)
		gross = annual.Mul(ratio)
		return gross, gross.Mul(factor)
	}

	var a Amounts
	a.BaseGross, a.BaseNet = periodCoupon(rate)
	a.ExtensionGross, a.ExtensionNet = periodCoupon(rate.Add(stepUp))
	return a
}
