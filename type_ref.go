package fincast

import (
	"encoding/json"
	"fmt"
)

// Ref is a reference-data identifier. Callers send these fields in two wire
// shapes, either a bare number (5) or an object ({"id":5,"name":"Yearly"});
// both normalize to the numeric id at unmarshal time so that nothing
// downstream ever branches on the wire shape.
type Ref int

// refObject is the expanded wire shape of a reference-data field.
type refObject struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func decodeRef(b []byte) (int, error) {
	var id int
	if err := json.Unmarshal(b, &id); err == nil {
		return id, nil
	}
	var obj refObject
	if err := json.Unmarshal(b, &obj); err != nil {
		return 0, fmt.Errorf("invalid reference field %s: want a number or an {id, name} object", string(b))
	}
	return obj.ID, nil
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	id, err := decodeRef(b)
	if err != nil {
		return err
	}
	*r = Ref(id)
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) { return json.Marshal(int(r)) }

// RecurrenceKind identifies how a recurrence rule repeats.
type RecurrenceKind int

const (
	OneTime        RecurrenceKind = 1 // single occurrence on the rule start date
	EveryNDays     RecurrenceKind = 2
	EveryNWeeks    RecurrenceKind = 3
	MonthlyOnDay   RecurrenceKind = 4 // fixed day of month, clamped to month length
	MonthlyWeekday RecurrenceKind = 5 // Nth weekday of the month
	QuarterlyOnDay RecurrenceKind = 6
	YearlyOnDay    RecurrenceKind = 7
	CustomDates    RecurrenceKind = 8 // explicit comma-separated date list
)

// legacyCustomRecurrenceID is the wire id older scenario files use for the
// custom date list kind.
const legacyCustomRecurrenceID = 11

func (k *RecurrenceKind) UnmarshalJSON(b []byte) error {
	id, err := decodeRef(b)
	if err != nil {
		return err
	}
	if id == legacyCustomRecurrenceID {
		id = int(CustomDates)
	}
	*k = RecurrenceKind(id)
	return nil
}

func (k RecurrenceKind) MarshalJSON() ([]byte, error) { return json.Marshal(int(k)) }

// TransactionType is the direction of a transaction relative to its primary
// account.
type TransactionType int

const (
	Inflow  TransactionType = 1 // money in: adds to primary, draws from secondary
	Outflow TransactionType = 2 // money out: draws from primary, adds to secondary
)

func (t *TransactionType) UnmarshalJSON(b []byte) error {
	id, err := decodeRef(b)
	if err != nil {
		return err
	}
	*t = TransactionType(id)
	return nil
}

func (t TransactionType) MarshalJSON() ([]byte, error) { return json.Marshal(int(t)) }

// ChangeMode selects between rate-based and fixed-amount periodic change.
type ChangeMode int

const (
	Percentage  ChangeMode = 1
	FixedAmount ChangeMode = 2
)

func (m *ChangeMode) UnmarshalJSON(b []byte) error {
	id, err := decodeRef(b)
	if err != nil {
		return err
	}
	*m = ChangeMode(id)
	return nil
}

func (m ChangeMode) MarshalJSON() ([]byte, error) { return json.Marshal(int(m)) }

// ChangeType is the compounding formula of a percentage periodic change.
type ChangeType int

const (
	SimpleInterest      ChangeType = 1
	CompoundedMonthly   ChangeType = 2
	CompoundedDaily     ChangeType = 3
	CompoundedQuarterly ChangeType = 4
	CompoundedAnnually  ChangeType = 5
	Continuous          ChangeType = 6
	CustomCompounding   ChangeType = 7
)

// legacyNominalChangeID is the wire id older scenario files use for the
// nominal-rate/compounding-period variant; it normalizes to CustomCompounding.
const legacyNominalChangeID = 8

func (t *ChangeType) UnmarshalJSON(b []byte) error {
	id, err := decodeRef(b)
	if err != nil {
		return err
	}
	if id == legacyNominalChangeID {
		id = int(CustomCompounding)
	}
	*t = ChangeType(id)
	return nil
}

func (t ChangeType) MarshalJSON() ([]byte, error) { return json.Marshal(int(t)) }

// Frequency is an application or compounding frequency.
type Frequency int

const (
	FreqDaily     Frequency = 1
	FreqWeekly    Frequency = 2
	FreqMonthly   Frequency = 3
	FreqQuarterly Frequency = 4
	FreqYearly    Frequency = 5
)

// PerYear returns how many times the frequency occurs in a year.
func (f Frequency) PerYear() float64 {
	switch f {
	case FreqDaily:
		return 365
	case FreqWeekly:
		return 52
	case FreqMonthly:
		return 12
	case FreqQuarterly:
		return 4
	case FreqYearly:
		return 1
	default:
		return 1
	}
}

func (f *Frequency) UnmarshalJSON(b []byte) error {
	id, err := decodeRef(b)
	if err != nil {
		return err
	}
	*f = Frequency(id)
	return nil
}

func (f Frequency) MarshalJSON() ([]byte, error) { return json.Marshal(int(f)) }

// RatePeriod is the nominal period a rate value is quoted against. Its wire
// ids differ from Frequency's, a quirk kept for scenario file compatibility.
type RatePeriod int

const (
	RateAnnual    RatePeriod = 1
	RateMonthly   RatePeriod = 2
	RateQuarterly RatePeriod = 3
	RateDaily     RatePeriod = 4
	RateWeekly    RatePeriod = 5
)

// PerYear returns how many of the nominal period fit in a year, used to
// normalize a per-period rate to an annual rate.
func (p RatePeriod) PerYear() float64 {
	switch p {
	case RateAnnual:
		return 1
	case RateMonthly:
		return 12
	case RateQuarterly:
		return 4
	case RateDaily:
		return 365
	case RateWeekly:
		return 52
	default:
		return 1
	}
}

func (p *RatePeriod) UnmarshalJSON(b []byte) error {
	id, err := decodeRef(b)
	if err != nil {
		return err
	}
	*p = RatePeriod(id)
	return nil
}

func (p RatePeriod) MarshalJSON() ([]byte, error) { return json.Marshal(int(p)) }
