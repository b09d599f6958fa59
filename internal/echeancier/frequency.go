package echeancier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Frequency is a coupon payment frequency.
type Frequency string

// Supported payment frequencies.
const (
	Annual     Frequency = "annual"
	Semiannual Frequency = "semiannual"
	Quarterly  Frequency = "quarterly"
	Monthly    Frequency = "monthly"
)

// FrequencyPolicy decides what happens to a payment frequency that is not recognized.
type FrequencyPolicy string

const (
	// PolicyLenient falls back to an annual frequency and reports a warning.
	PolicyLenient FrequencyPolicy = "lenient"
	// PolicyStrict rejects the tranche with a configuration error.
	PolicyStrict FrequencyPolicy = "strict"
)

// ErrUnknownFrequency is returned by ParseFrequency under PolicyStrict.
var ErrUnknownFrequency = errors.New("unknown payment frequency")

// Day-count bases accepted by PeriodRatio.
const (
	Basis360 = 360
	Basis365 = 365
)

var frequencyAliases = map[string]Frequency{
	"annual":        Annual,
	"annuel":        Annual,
	"annuelle":      Annual,
	"semiannual":    Semiannual,
	"semi-annual":   Semiannual,
	"semestriel":    Semiannual,
	"semestrielle":  Semiannual,
	"quarterly":     Quarterly,
	"trimestriel":   Quarterly,
	"trimestrielle": Quarterly,
	"monthly":       Monthly,
	"mensuel":       Monthly,
	"mensuelle":     Monthly,
}

// ParsePolicy parses a frequency policy name. An empty name selects PolicyLenient.
func ParsePolicy(name string) (FrequencyPolicy, error) {
	switch FrequencyPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicyLenient:
		return PolicyLenient, nil
	case PolicyStrict:
		return PolicyStrict, nil
	}
	return "", fmt.Errorf("invalid frequency policy %q", name)
}

// ParseFrequency maps a stored frequency (French or English spelling) to a Frequency.
// Under PolicyLenient an unrecognized value resolves to Annual and a non-empty
// warning is returned; under PolicyStrict it returns ErrUnknownFrequency.
func ParseFrequency(raw string, policy FrequencyPolicy) (Frequency, string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if f, ok := frequencyAliases[key]; ok {
		return f, "", nil
	}
	if policy == PolicyStrict {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownFrequency, raw)
	}
	return Annual, fmt.Sprintf("unknown payment frequency %q, falling back to annual", raw), nil
}

// StepMonths returns the number of months between two coupon dates.
func (f Frequency) StepMonths() int {
	switch f {
	case Semiannual:
		return 6
	case Quarterly:
		return 3
	case Monthly:
		return 1
	default:
		return 12
	}
}

// periodDays holds the length of one period in days for each basis.
var periodDays = map[Frequency]map[int]decimal.Decimal{
	Semiannual: {Basis360: decimal.NewFromInt(180), Basis365: decimal.RequireFromString("182.5")},
	Quarterly:  {Basis360: decimal.NewFromInt(90), Basis365: decimal.RequireFromString("91.25")},
	Monthly:    {Basis360: decimal.NewFromInt(30), Basis365: decimal.RequireFromString("30.42")},
}

// PeriodRatio returns the fraction of a year covered by one coupon period.
// A basis other than 365 is treated as 360. Annual and unknown frequencies
// yield exactly 1.
func PeriodRatio(f Frequency, basis int) decimal.Decimal {
	days, ok := periodDays[f]
	if !ok {
		return decimal.NewFromInt(1)
	}
	if basis != Basis365 {
		basis = Basis360
	}
	return days[basis].Div(decimal.NewFromInt(int64(basis)))
}
