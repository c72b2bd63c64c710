package fincast

import (
	"slices"
	"testing"

	"github.com/fincast/fincast/date"
)

func days(strs ...string) []date.Date {
	out := make([]date.Date, len(strs))
	for i, s := range strs {
		out[i] = date.MustParse(s)
	}
	return out
}

func ref(id int) *Ref { r := Ref(id); return &r }

func TestDates(t *testing.T) {
	jan := date.Range{From: date.MustParse("2026-01-01"), To: date.MustParse("2026-01-31")}
	q1 := date.Range{From: date.MustParse("2026-01-01"), To: date.MustParse("2026-04-30")}

	tests := []struct {
		name   string
		rule   RecurrenceRule
		window date.Range
		want   []date.Date
	}{
		{
			name:   "one-time inside window",
			rule:   RecurrenceRule{Kind: OneTime, Start: date.MustParse("2026-01-15")},
			window: jan,
			want:   days("2026-01-15"),
		},
		{
			name:   "one-time outside window",
			rule:   RecurrenceRule{Kind: OneTime, Start: date.MustParse("2026-02-15")},
			window: jan,
			want:   nil,
		},
		{
			name:   "every 10 days",
			rule:   RecurrenceRule{Kind: EveryNDays, Interval: 10, Start: date.MustParse("2026-01-01")},
			window: jan,
			want:   days("2026-01-01", "2026-01-11", "2026-01-21", "2026-01-31"),
		},
		{
			name: "every 2 weeks from a Monday",
			rule: RecurrenceRule{
				Kind:      EveryNWeeks,
				Interval:  2,
				Start:     date.MustParse("2026-01-05"), // a Monday
				DayOfWeek: ref(1),
			},
			window: jan,
			want:   days("2026-01-05", "2026-01-19"),
		},
		{
			name: "every 2 weeks entering the window mid-cycle",
			rule: RecurrenceRule{
				Kind:      EveryNWeeks,
				Interval:  2,
				Start:     date.MustParse("2025-12-22"), // two cycles before
				DayOfWeek: ref(1),
			},
			window: jan,
			want:   days("2026-01-05", "2026-01-19"),
		},
		{
			name:   "monthly day 31 clamps to short months",
			rule:   RecurrenceRule{Kind: MonthlyOnDay, DayOfMonth: 31},
			window: q1,
			want:   days("2026-01-31", "2026-02-28", "2026-03-31", "2026-04-30"),
		},
		{
			name:   "monthly last day",
			rule:   RecurrenceRule{Kind: MonthlyOnDay, DayOfMonth: -1},
			window: q1,
			want:   days("2026-01-31", "2026-02-28", "2026-03-31", "2026-04-30"),
		},
		{
			name: "last Friday of each month",
			rule: RecurrenceRule{Kind: MonthlyWeekday, WeekOfMonth: 5, DayOfWeekInMonth: 5},
			window: date.Range{
				From: date.MustParse("2026-05-01"), To: date.MustParse("2026-07-31"),
			},
			want: days("2026-05-29", "2026-06-26", "2026-07-31"),
		},
		{
			name:   "second Tuesday of each month",
			rule:   RecurrenceRule{Kind: MonthlyWeekday, WeekOfMonth: 2, DayOfWeekInMonth: 2},
			window: q1,
			want:   days("2026-01-13", "2026-02-10", "2026-03-10", "2026-04-14"),
		},
		{
			name:   "quarterly on day 15",
			rule:   RecurrenceRule{Kind: QuarterlyOnDay, DayOfQuarter: 15},
			window: date.Range{From: date.MustParse("2026-01-01"), To: date.MustParse("2026-12-31")},
			want:   days("2026-01-15", "2026-04-15", "2026-07-15", "2026-10-15"),
		},
		{
			name:   "yearly rolls forward past the window start",
			rule:   RecurrenceRule{Kind: YearlyOnDay, Month: 3, DayOfYear: 10},
			window: date.Range{From: date.MustParse("2026-06-01"), To: date.MustParse("2028-06-01")},
			want:   days("2027-03-10", "2028-03-10"),
		},
		{
			name:   "custom dates skip malformed entries",
			rule:   RecurrenceRule{Kind: CustomDates, Custom: "2026-01-10, not-a-date, 2026-01-20, 2026-03-01"},
			window: jan,
			want:   days("2026-01-10", "2026-01-20"),
		},
		{
			name: "rule end bounds the window",
			rule: RecurrenceRule{
				Kind:       MonthlyOnDay,
				DayOfMonth: 1,
				End:        date.MustParse("2026-02-28"),
			},
			window: q1,
			want:   days("2026-01-01", "2026-02-01"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.rule.Dates(tc.window)
			if !slices.Equal(got, tc.want) {
				t.Errorf("Dates() = %v, want %v", got, tc.want)
			}
		})
	}
}

// Whatever the rule, the generated dates must be ascending, unique, and
// inside the effective window.
func TestDatesProperties(t *testing.T) {
	window := date.Range{From: date.MustParse("2026-01-01"), To: date.MustParse("2027-12-31")}
	rules := []RecurrenceRule{
		{Kind: EveryNDays, Interval: 3, Start: date.MustParse("2025-11-11")},
		{Kind: EveryNWeeks, Interval: 3, Start: date.MustParse("2025-06-06"), DayOfWeek: ref(0)},
		{Kind: MonthlyOnDay, DayOfMonth: 30},
		{Kind: MonthlyWeekday, WeekOfMonth: 5, DayOfWeekInMonth: 7},
		{Kind: QuarterlyOnDay, DayOfQuarter: 90},
		{Kind: YearlyOnDay, Month: 2, DayOfYear: 29},
		{Kind: CustomDates, Custom: "2026-05-05,2026-05-05,2026-04-04"},
	}
	for _, rule := range rules {
		got := rule.Dates(window)
		if len(got) == 0 {
			t.Errorf("rule kind %d produced no dates", rule.Kind)
			continue
		}
		for i, d := range got {
			if !window.Contains(d) {
				t.Errorf("rule kind %d produced %s outside %s", rule.Kind, d, window)
			}
			if i > 0 && !got[i-1].Before(d) {
				t.Errorf("rule kind %d output not strictly ascending at %s", rule.Kind, d)
			}
		}
		again := rule.Dates(window)
		if !slices.Equal(got, again) {
			t.Errorf("rule kind %d is not deterministic", rule.Kind)
		}
	}
}

func TestDatesNilRule(t *testing.T) {
	var r *RecurrenceRule
	if got := r.Dates(date.Range{From: date.MustParse("2026-01-01"), To: date.MustParse("2026-12-31")}); got != nil {
		t.Errorf("nil rule produced %v", got)
	}
}
