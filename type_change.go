package fincast

import "math"

// CustomCompoundingSpec configures the CustomCompounding change type: the
// rate is quoted per Period and compounded Frequency times per that period.
type CustomCompoundingSpec struct {
	Period    RatePeriod `json:"period,omitempty"`
	Frequency Frequency  `json:"frequency,omitempty"`
}

// PeriodicChange is a growth/decay rule applied to a balance or a
// transaction amount over elapsed time. Value is a percentage for
// Percentage mode (5 means 5%) and a currency amount for FixedAmount mode.
type PeriodicChange struct {
	Mode   ChangeMode `json:"changeMode"`
	Type   ChangeType `json:"changeType,omitempty"`
	Value  float64    `json:"value"`
	Period Frequency  `json:"period,omitempty"` // FixedAmount application frequency

	RatePeriod  RatePeriod             `json:"ratePeriod,omitempty"` // nominal period of Value for CustomCompounding
	Compounding *CustomCompoundingSpec `json:"customCompounding,omitempty"`
}

// IsZero reports whether the change is absent or a no-op.
func (pc *PeriodicChange) IsZero() bool { return pc == nil || pc.Value == 0 }

// AnnualRate returns the change's value as an annual rate fraction, or 0
// for fixed-amount changes. Goal requirement math quotes account growth as
// an annual rate.
func (pc *PeriodicChange) AnnualRate() float64 {
	if pc.IsZero() || pc.Mode == FixedAmount {
		return 0
	}
	return pc.Value / 100
}

// Apply grows a principal by the periodic change over the given elapsed
// time in years (fractional). A nil or zero-value change returns the
// principal unchanged, so Apply(p, 0 years) == p always holds.
func (pc *PeriodicChange) Apply(principal, years float64) float64 {
	if pc.IsZero() {
		return principal
	}

	if pc.Mode == FixedAmount {
		period := pc.Period
		if period == 0 {
			period = FreqMonthly
		}
		return principal + pc.Value*years*period.PerYear()
	}

	rate := pc.Value / 100
	switch pc.Type {
	case CompoundedMonthly:
		return principal * math.Pow(1+rate/12, 12*years)
	case CompoundedDaily:
		return principal * math.Pow(1+rate/365, 365*years)
	case CompoundedQuarterly:
		return principal * math.Pow(1+rate/4, 4*years)
	case CompoundedAnnually:
		return principal * math.Pow(1+rate, years)
	case Continuous:
		return principal * math.Exp(rate*years)
	case CustomCompounding:
		return pc.applyCustom(principal, rate, years)
	default:
		// SimpleInterest and unknown types fall back to P(1+rt).
		return principal * (1 + rate*years)
	}
}

// applyCustom normalizes the quoted rate to an annual rate using its
// nominal period, then compounds at the custom frequency:
// P(1 + annual/n)^(n*t).
func (pc *PeriodicChange) applyCustom(principal, rate, years float64) float64 {
	ratePeriod := pc.RatePeriod
	if ratePeriod == 0 && pc.Compounding != nil {
		ratePeriod = pc.Compounding.Period
	}
	if ratePeriod == 0 {
		ratePeriod = RateAnnual
	}
	freq := FreqMonthly
	if pc.Compounding != nil && pc.Compounding.Frequency != 0 {
		freq = pc.Compounding.Frequency
	}
	annual := rate * ratePeriod.PerYear()
	n := freq.PerYear()
	return principal * math.Pow(1+annual/n, n*years)
}
