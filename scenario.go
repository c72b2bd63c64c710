package fincast

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fincast/fincast/date"
)

// Account is a named balance holder. Its optional PeriodicChange models
// interest or depreciation applied to the balance over time.
type Account struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Type            string          `json:"type,omitempty"`
	StartingBalance float64         `json:"startingBalance"`
	Change          *PeriodicChange `json:"periodicChange,omitempty"`
}

// AnnualRate returns the account's growth quoted as an annual rate
// fraction (0.05 for 5%), or 0 when the account carries no rate.
func (a *Account) AnnualRate() float64 {
	if a == nil {
		return 0
	}
	return a.Change.AnnualRate()
}

// Scenario is one self-contained what-if: a set of accounts, the
// transactions that move money between them, and the window over which to
// project. The core never mutates a scenario it is handed; solver trial
// runs operate on clones.
type Scenario struct {
	ID           int           `json:"id"`
	Name         string        `json:"name,omitempty"`
	Currency     string        `json:"currency,omitempty"`
	Start        date.Date     `json:"startDate"`
	End          date.Date     `json:"endDate"`
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
}

// Window returns the scenario's projection range.
func (s *Scenario) Window() date.Range { return date.Range{From: s.Start, To: s.End} }

// Account resolves an account by id, or nil when the id is unknown.
func (s *Scenario) Account(id int) *Account {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return &s.Accounts[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the scenario. Appending transactions to the
// clone leaves the original untouched.
func (s *Scenario) Clone() *Scenario {
	c := *s
	c.Accounts = make([]Account, len(s.Accounts))
	for i, a := range s.Accounts {
		if a.Change != nil {
			pc := *a.Change
			if pc.Compounding != nil {
				cc := *pc.Compounding
				pc.Compounding = &cc
			}
			a.Change = &pc
		}
		c.Accounts[i] = a
	}
	c.Transactions = make([]Transaction, len(s.Transactions))
	for i, t := range s.Transactions {
		c.Transactions[i] = t.Clone()
	}
	return &c
}

// Constraints bound what the goal solver may move.
type Constraints struct {
	FundingAccountID   int                `json:"fundingAccountId,omitempty"`
	LockedAccountIDs   []int              `json:"lockedAccountIds,omitempty"`
	MaxOutflowPerMonth *float64           `json:"maxOutflowPerMonth,omitempty"`
	MaxMovement        map[int]float64    `json:"maxMovementByAccountId,omitempty"`
	MinBalanceFloors   map[int]float64    `json:"minBalanceFloorsByAccountId,omitempty"`
}

// Locked reports whether the account may not be moved by the solver.
func (c *Constraints) Locked(accountID int) bool {
	for _, id := range c.LockedAccountIDs {
		if id == accountID {
			return true
		}
	}
	return false
}

// Plan bundles the goals and constraints of one solve request, the shape
// the host application persists alongside a scenario.
type Plan struct {
	Goals       []Goal      `json:"goals"`
	Constraints Constraints `json:"constraints"`
}

// DecodeScenario reads a scenario from its JSON representation.
func DecodeScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("could not decode scenario: %w", err)
	}
	if s.End.Before(s.Start) {
		return nil, fmt.Errorf("scenario window is inverted: %s after %s", s.Start, s.End)
	}
	return &s, nil
}

// EncodeScenario writes a scenario as indented JSON.
func EncodeScenario(w io.Writer, s *Scenario) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("could not encode scenario: %w", err)
	}
	return nil
}

// DecodePlan reads a solve plan (goals plus constraints) from JSON.
func DecodePlan(r io.Reader) (*Plan, error) {
	var p Plan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("could not decode plan: %w", err)
	}
	return &p, nil
}
