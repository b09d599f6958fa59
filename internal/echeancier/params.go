package echeancier

import (
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
)

// Parameter names reported in configuration errors. They match the stored column names.
const (
	ParamNominalRate     = "taux_nominal"
	ParamFrequency       = "periodicite_coupon"
	ParamIssuanceDate    = "date_emission"
	ParamDuration        = "duree_mois"
	ParamDayCountBasis   = "base_interet"
	ParamExtensionMonths = "duree_prorogation_mois"
	ParamStepUpRate      = "taux_majoration"
)

// DefaultDayCountBasis is used when the project does not define one.
const DefaultDayCountBasis = Basis360

// Extension is the effective maturity extension clause of a tranche.
// When Active is false ExtraMonths and StepUpRate are zero.
type Extension struct {
	Active      bool
	ExtraMonths int
	StepUpRate  decimal.Decimal
}

// Parameters is the effective financial configuration of one tranche.
type Parameters struct {
	NominalRate    decimal.Decimal
	Frequency      Frequency
	IssuanceDate   civil.Date
	DurationMonths int
	DayCountBasis  int
	Extension      Extension
	Warnings       []string
}

// ConfigError reports tranche parameters that are missing or unusable.
type ConfigError struct {
	MissingParams []string `json:"missingParams,omitempty"`
	InvalidParams []string `json:"invalidParams,omitempty"`
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.MissingParams) > 0 {
		parts = append(parts, "missing required parameters: "+strings.Join(e.MissingParams, ", "))
	}
	if len(e.InvalidParams) > 0 {
		parts = append(parts, "invalid parameters: "+strings.Join(e.InvalidParams, ", "))
	}
	return strings.Join(parts, "; ")
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// ResolveParameters merges tranche and project fields into the effective parameters.
//
// Each field has its own source rule:
//   - taux_nominal: tranche, else project
//   - periodicite_coupon: project only, a tranche value is ignored
//   - date_emission: tranche only, a project value is ignored
//   - duree_mois: tranche, else project
//   - base_interet: project, else 360
//   - extension clause: project only
//
// All missing required fields are reported together in a *ConfigError.
func ResolveParameters(tranche model.Tranche, project model.Project, policy FrequencyPolicy) (Parameters, error) {
	var params Parameters
	cfgErr := &ConfigError{}

	switch {
	case tranche.NominalRate.Valid:
		params.NominalRate = tranche.NominalRate.Decimal
	case project.NominalRate.Valid:
		params.NominalRate = project.NominalRate.Decimal
	default:
		cfgErr.MissingParams = append(cfgErr.MissingParams, ParamNominalRate)
	}
	if params.NominalRate.IsNegative() {
		cfgErr.InvalidParams = append(cfgErr.InvalidParams, ParamNominalRate)
	}

	if strings.TrimSpace(project.PaymentFrequency) == "" {
		cfgErr.MissingParams = append(cfgErr.MissingParams, ParamFrequency)
	} else {
		freq, warning, err := ParseFrequency(project.PaymentFrequency, policy)
		if err != nil {
			cfgErr.InvalidParams = append(cfgErr.InvalidParams, ParamFrequency)
		}
		params.Frequency = freq
		if warning != "" {
			params.Warnings = append(params.Warnings, warning)
		}
	}

	if tranche.IssuanceDate == nil || tranche.IssuanceDate.IsZero() {
		cfgErr.MissingParams = append(cfgErr.MissingParams, ParamIssuanceDate)
	} else if !tranche.IssuanceDate.IsValid() {
		cfgErr.InvalidParams = append(cfgErr.InvalidParams, ParamIssuanceDate)
	} else {
		params.IssuanceDate = *tranche.IssuanceDate
	}

	switch {
	case tranche.DurationMonths != nil:
		params.DurationMonths = *tranche.DurationMonths
	case project.DurationMonths != nil:
		params.DurationMonths = *project.DurationMonths
	default:
		cfgErr.MissingParams = append(cfgErr.MissingParams, ParamDuration)
	}
	if (tranche.DurationMonths != nil || project.DurationMonths != nil) && params.DurationMonths <= 0 {
		cfgErr.InvalidParams = append(cfgErr.InvalidParams, ParamDuration)
	}

	params.DayCountBasis = DefaultDayCountBasis
	if project.DayCountBasis != nil {
		switch *project.DayCountBasis {
		case Basis360, Basis365:
			params.DayCountBasis = *project.DayCountBasis
		default:
			cfgErr.InvalidParams = append(cfgErr.InvalidParams, ParamDayCountBasis)
		}
	}

	if project.ExtensionPossible && project.ExtensionActivated {
		params.Extension.Active = true
		if project.ExtensionMonths != nil {
			if *project.ExtensionMonths < 0 {
				cfgErr.InvalidParams = append(cfgErr.InvalidParams, ParamExtensionMonths)
			}
			params.Extension.ExtraMonths = *project.ExtensionMonths
		}
		if project.StepUpRate.Valid {
			if project.StepUpRate.Decimal.IsNegative() {
				cfgErr.InvalidParams = append(cfgErr.InvalidParams, ParamStepUpRate)
			}
			params.Extension.StepUpRate = project.StepUpRate.Decimal
		}
	}

	if len(cfgErr.MissingParams) > 0 || len(cfgErr.InvalidParams) > 0 {
		return Parameters{}, cfgErr
	}
	return params, nil
}

// String renders the parameters for logs.
func (p Parameters) String() string {
	return fmt.Sprintf("rate=%s%% frequency=%s issued=%s duration=%dm basis=%d extension=%t(+%dm,+%s%%)",
		p.NominalRate, p.Frequency, p.IssuanceDate, p.DurationMonths, p.DayCountBasis,
		p.Extension.Active, p.Extension.ExtraMonths, p.Extension.StepUpRate)
}
