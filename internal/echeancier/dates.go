package echeancier

import (
	"time"

	"cloud.google.com/go/civil"
)

// AddMonths adds n calendar months to d. When the target month is shorter
// the day is clamped to its last day (2024-01-31 + 1 month = 2024-02-29).
func AddMonths(d civil.Date, n int) civil.Date {
	months := int(d.Month) - 1 + n
	year := d.Year + months/12
	months %= 12
	if months < 0 {
		months += 12
		year--
	}
	month := time.Month(months + 1)

	day := d.Day
	if last := daysIn(year, month); day > last {
		day = last
	}
	return civil.Date{Year: year, Month: month, Day: day}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DueDate returns the date of the index-th coupon (1-based). It is always
// computed from the issuance date so clamped days do not drift.
func DueDate(issuance civil.Date, index int, f Frequency) civil.Date {
	return AddMonths(issuance, index*f.StepMonths())
}
