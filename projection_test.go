package fincast

import (
	"math"
	"reflect"
	"testing"

	"github.com/fincast/fincast/date"
)

func recordsByAccount(records []ProjectionRecord, accountID int) []ProjectionRecord {
	return recordsFor(records, accountID)
}

func TestGenerateProjectionsFlows(t *testing.T) {
	s := &Scenario{
		ID:    7,
		Start: date.MustParse("2026-01-01"),
		End:   date.MustParse("2026-03-31"),
		Accounts: []Account{
			{ID: 1, Name: "Checking", StartingBalance: 1000},
		},
		Transactions: []Transaction{{
			ID:         "salary",
			Primary:    1,
			Type:       Inflow,
			Amount:     500,
			Recurrence: monthlyRule("2026-01-01", "2026-03-31", 1),
			Status:     Status{Name: StatusPlanned},
		}},
	}
	records, err := GenerateProjections(s, ProjectionOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	wantBalances := []float64{1500, 2000, 2500}
	for i, rec := range records {
		if rec.Balance != wantBalances[i] {
			t.Errorf("period %d balance %v, want %v", i, rec.Balance, wantBalances[i])
		}
		if rec.Income != 500 || rec.Expenses != 0 || rec.NetChange != 500 {
			t.Errorf("period %d flows income=%v expenses=%v net=%v, want 500/0/500",
				i, rec.Income, rec.Expenses, rec.NetChange)
		}
		if rec.ScenarioID != 7 || rec.AccountID != 1 || rec.Period != i {
			t.Errorf("period %d record identity = %+v", i, rec)
		}
	}
	if records[0].Date != date.MustParse("2026-01-01") {
		t.Errorf("first record dated %s, want the window start", records[0].Date)
	}
}

func TestGenerateProjectionsTransfer(t *testing.T) {
	s := &Scenario{
		Start: date.MustParse("2026-01-01"),
		End:   date.MustParse("2026-02-28"),
		Accounts: []Account{
			{ID: 1, Name: "Checking", StartingBalance: 1000},
			{ID: 2, Name: "Savings", StartingBalance: 0},
		},
		Transactions: []Transaction{{
			ID:        "move",
			Primary:   2,
			Secondary: 1,
			Type:      Inflow,
			Amount:    300,
			Effective: date.MustParse("2026-01-15"),
			Status:    Status{Name: StatusPlanned},
		}},
	}
	records, err := GenerateProjections(s, ProjectionOptions{})
	if err != nil {
		t.Fatal(err)
	}
	checking := recordsByAccount(records, 1)
	savings := recordsByAccount(records, 2)
	if checking[0].Balance != 700 {
		t.Errorf("checking balance %v, want 700", checking[0].Balance)
	}
	if savings[0].Balance != 300 {
		t.Errorf("savings balance %v, want 300", savings[0].Balance)
	}
	// The transfer is zero-sum across the two accounts.
	total := checking[1].Balance + savings[1].Balance
	if total != 1000 {
		t.Errorf("total balance %v, want 1000", total)
	}
}

func TestGenerateProjectionsInterest(t *testing.T) {
	s := &Scenario{
		Start: date.MustParse("2026-01-01"),
		End:   date.MustParse("2026-12-31"),
		Accounts: []Account{{
			ID: 1, Name: "Savings", StartingBalance: 10_000,
			Change: &PeriodicChange{Mode: Percentage, Type: CompoundedMonthly, Value: 6},
		}},
	}
	records, err := GenerateProjections(s, ProjectionOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 12 {
		t.Fatalf("got %d records, want 12", len(records))
	}
	last := records[11]
	// A 6% nominal rate compounded monthly lands close to 6.17% effective.
	if last.Balance < 10_590 || last.Balance > 10_640 {
		t.Errorf("year-end balance %v, want roughly 10617", last.Balance)
	}
	for i, rec := range records {
		if rec.Interest <= 0 {
			t.Errorf("period %d interest %v, want positive", i, rec.Interest)
		}
		if rec.Income != rec.Interest {
			t.Errorf("period %d interest should count as income, got income=%v interest=%v", i, rec.Income, rec.Interest)
		}
	}
}

func TestGenerateProjectionsSimpleInterestOnPrincipal(t *testing.T) {
	s := &Scenario{
		Start: date.MustParse("2026-01-01"),
		End:   date.MustParse("2027-12-31"),
		Accounts: []Account{{
			ID: 1, Name: "CD", StartingBalance: 10_000,
			Change: &PeriodicChange{Mode: Percentage, Type: SimpleInterest, Value: 10},
		}},
	}
	records, err := GenerateProjections(s, ProjectionOptions{Periodicity: date.Yearly})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Simple interest accrues on the starting 10000 both years, no
	// compounding on accrued interest.
	if math.Abs(records[0].Interest-records[1].Interest) > 5 {
		t.Errorf("simple interest should be level year over year, got %v then %v",
			records[0].Interest, records[1].Interest)
	}
	if records[1].Balance < 11_990 || records[1].Balance > 12_010 {
		t.Errorf("two-year balance %v, want about 12000", records[1].Balance)
	}
}

func TestGenerateProjectionsWeeklyFirstWindowClipped(t *testing.T) {
	s := &Scenario{
		Start:    date.MustParse("2026-01-07"), // a Wednesday
		End:      date.MustParse("2026-01-31"),
		Accounts: []Account{{ID: 1, Name: "A", StartingBalance: 100}},
	}
	records, err := GenerateProjections(s, ProjectionOptions{Periodicity: date.Weekly})
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Date != date.MustParse("2026-01-07") {
		t.Errorf("first period starts %s, want the window start", records[0].Date)
	}
	if records[1].Date != date.MustParse("2026-01-12") {
		t.Errorf("second period starts %s, want the following Monday", records[1].Date)
	}
}

// A projection run must not mutate the scenario, and a second run must
// return the same records.
func TestGenerateProjectionsPure(t *testing.T) {
	s := testScenario(Transaction{
		ID:         "salary",
		Primary:    1,
		Type:       Inflow,
		Amount:     2500,
		Recurrence: monthlyRule("2026-01-01", "2026-12-31", 1),
		Escalation: &PeriodicChange{Mode: Percentage, Type: SimpleInterest, Value: 2},
		Status:     Status{Name: StatusPlanned},
	})
	before := s.Clone()
	first, err := GenerateProjections(s, ProjectionOptions{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := GenerateProjections(s, ProjectionOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two projection runs over the same scenario differ")
	}
	if !reflect.DeepEqual(s, before) {
		t.Error("projection mutated the scenario")
	}
}

func TestGenerateProjectionsInvertedWindow(t *testing.T) {
	s := testScenario()
	_, err := GenerateProjections(s, ProjectionOptions{Window: date.Range{
		From: date.MustParse("2026-06-01"), To: date.MustParse("2026-01-01"),
	}})
	if err == nil {
		t.Fatal("want an error for an inverted window")
	}
}
