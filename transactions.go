package fincast

import (
	"encoding/json"
	"fmt"

	"github.com/fincast/fincast/date"
)

// Transaction status names.
const (
	StatusPlanned = "planned"
	StatusActual  = "actual"
)

// Status tracks whether a transaction is still planned or has actually
// happened, and in the latter case when and for how much.
type Status struct {
	Name         string    `json:"name"`
	ActualDate   date.Date `json:"actualDate,omitzero"`
	ActualAmount float64   `json:"actualAmount,omitempty"`
}

// UnmarshalJSON accepts both the bare string ("planned") and the expanded
// object form, normalizing to the struct.
func (s *Status) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*s = Status{Name: name}
		return nil
	}
	type status Status // shed the method to avoid recursion
	var obj status
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("invalid transaction status %s: %w", string(b), err)
	}
	*s = Status(obj)
	return nil
}

func (s Status) IsPlanned() bool { return s.Name == StatusPlanned }
func (s Status) IsActual() bool  { return s.Name == StatusActual }

// Transaction is a single money movement between a primary account and an
// optional secondary account. Planned transactions may carry a recurrence
// (they then fire on every generated date) and an escalation rule that
// grows the amount over time.
type Transaction struct {
	ID          string          `json:"id"`
	Primary     int             `json:"primaryAccountId"`
	Secondary   int             `json:"secondaryAccountId,omitempty"`
	Type        TransactionType `json:"transactionTypeId"`
	Amount      float64         `json:"amount"`
	Effective   date.Date       `json:"effectiveDate,omitzero"`
	Description string          `json:"description,omitempty"`
	Recurrence  *RecurrenceRule `json:"recurrence,omitempty"`
	Escalation  *PeriodicChange `json:"periodicChange,omitempty"`
	Status      Status          `json:"status"`
	Tags        []string        `json:"tags,omitempty"`
}

// HasTag reports whether the transaction carries the given tag.
func (t *Transaction) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the transaction.
func (t Transaction) Clone() Transaction {
	if t.Recurrence != nil {
		r := *t.Recurrence
		if r.DayOfWeek != nil {
			dow := *r.DayOfWeek
			r.DayOfWeek = &dow
		}
		t.Recurrence = &r
	}
	if t.Escalation != nil {
		e := *t.Escalation
		if e.Compounding != nil {
			c := *e.Compounding
			e.Compounding = &c
		}
		t.Escalation = &e
	}
	t.Tags = append([]string(nil), t.Tags...)
	return t
}
