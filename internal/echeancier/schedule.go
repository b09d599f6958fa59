package echeancier

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
)

// MoneyPlaces is the number of decimals kept when a coupon amount is emitted.
const MoneyPlaces = 2

// Entry is one pending coupon produced by Generate.
type Entry struct {
	SubscriptionID string
	Index          int
	DueDate        civil.Date
	GrossAmount    decimal.Decimal
	NetAmount      decimal.Decimal
	Extension      bool // due date falls in the extension window
}

// Schedule is the outcome of Generate for one tranche.
type Schedule struct {
	Entries           []Entry
	Amounts           map[string]Amounts // by subscription ID
	BasePaymentCount  int
	TotalPaymentCount int
	FinalMaturityDate civil.Date
	ExtensionActive   bool
	PreservedPaid     int // due dates skipped because a paid coupon exists
}

type paidKey struct {
	subscriptionID string
	dueDate        civil.Date
}

// Generate computes the pending coupons of every subscription of a tranche.
// A due date that already has a paid coupon for the same subscription is skipped.
// Entries are ordered by subscription (input order) then due date.
func Generate(params Parameters, subscriptions []model.Subscription, paid []model.Coupon) Schedule {
	step := params.Frequency.StepMonths()
	extraMonths := 0
	if params.Extension.Active {
		extraMonths = params.Extension.ExtraMonths
	}

	sched := Schedule{
		Amounts:           make(map[string]Amounts, len(subscriptions)),
		BasePaymentCount:  ceilDiv(params.DurationMonths, step),
		TotalPaymentCount: ceilDiv(params.DurationMonths+extraMonths, step),
		ExtensionActive:   params.Extension.Active,
	}
	sched.FinalMaturityDate = AddMonths(params.IssuanceDate, sched.TotalPaymentCount*step)

	paidDates := make(map[paidKey]struct{}, len(paid))
	for _, c := range paid {
		if c.IsPaid() {
			paidDates[paidKey{c.SubscriptionID, c.DueDate}] = struct{}{}
		}
	}

	ratio := PeriodRatio(params.Frequency, params.DayCountBasis)
	sched.Entries = make([]Entry, 0, len(subscriptions)*sched.TotalPaymentCount)

	for _, sub := range subscriptions {
		amounts := ComputeAmounts(sub.InvestedAmount, params.NominalRate, ratio, sub.IsCorporate(), params.Extension.StepUpRate)
		sched.Amounts[sub.ID] = amounts

		for i := 1; i <= sched.TotalPaymentCount; i++ {
			due := DueDate(params.IssuanceDate, i, params.Frequency)
			if _, ok := paidDates[paidKey{sub.ID, due}]; ok {
				sched.PreservedPaid++
				continue
			}

			entry := Entry{
				SubscriptionID: sub.ID,
				Index:          i,
				DueDate:        due,
				GrossAmount:    amounts.BaseGross,
				NetAmount:      amounts.BaseNet,
			}
			if params.Extension.Active && i > sched.BasePaymentCount {
				entry.Extension = true
				entry.GrossAmount = amounts.ExtensionGross
				entry.NetAmount = amounts.ExtensionNet
			}
			entry.GrossAmount = entry.GrossAmount.Round(MoneyPlaces)
			entry.NetAmount = entry.NetAmount.Round(MoneyPlaces)
			sched.Entries = append(sched.Entries, entry)
		}
	}

	return sched
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
