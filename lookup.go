package fincast

// Display names for the identifier-coded enumerations, matching the wire
// format's {id, name} object shape.

var recurrenceKindNames = map[RecurrenceKind]string{
	OneTime:        "One-Time",
	EveryNDays:     "Every N Days",
	EveryNWeeks:    "Every N Weeks",
	MonthlyOnDay:   "Monthly - Day of Month",
	MonthlyWeekday: "Monthly - Day of Week",
	QuarterlyOnDay: "Quarterly",
	YearlyOnDay:    "Yearly",
	CustomDates:    "Custom Dates",
}

// Name returns the kind's display name, or "Unknown".
func (k RecurrenceKind) Name() string {
	if n, ok := recurrenceKindNames[k]; ok {
		return n
	}
	return "Unknown"
}

var changeModeNames = map[ChangeMode]string{
	Percentage:  "Percentage",
	FixedAmount: "Fixed Amount",
}

func (m ChangeMode) Name() string {
	if n, ok := changeModeNames[m]; ok {
		return n
	}
	return "Unknown"
}

var changeTypeNames = map[ChangeType]string{
	SimpleInterest:      "Simple Interest",
	CompoundedMonthly:   "Compounded Monthly",
	CompoundedDaily:     "Compounded Daily",
	CompoundedQuarterly: "Compounded Quarterly",
	CompoundedAnnually:  "Compounded Annually",
	Continuous:          "Continuous Compounding",
	CustomCompounding:   "Custom Compounding",
}

func (t ChangeType) Name() string {
	if n, ok := changeTypeNames[t]; ok {
		return n
	}
	return "Unknown"
}

var frequencyNames = map[Frequency]string{
	FreqDaily:     "Daily",
	FreqWeekly:    "Weekly",
	FreqMonthly:   "Monthly",
	FreqQuarterly: "Quarterly",
	FreqYearly:    "Yearly",
}

func (f Frequency) Name() string {
	if n, ok := frequencyNames[f]; ok {
		return n
	}
	return "Unknown"
}

var ratePeriodNames = map[RatePeriod]string{
	RateAnnual:    "Annual",
	RateMonthly:   "Monthly",
	RateQuarterly: "Quarterly",
	RateDaily:     "Daily",
	RateWeekly:    "Weekly",
}

func (p RatePeriod) Name() string {
	if n, ok := ratePeriodNames[p]; ok {
		return n
	}
	return "Unknown"
}

var transactionTypeNames = map[TransactionType]string{
	Inflow:  "Inflow",
	Outflow: "Outflow",
}

func (t TransactionType) Name() string {
	if n, ok := transactionTypeNames[t]; ok {
		return n
	}
	return "Unknown"
}
