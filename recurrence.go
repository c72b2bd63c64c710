package fincast

import (
	"slices"
	"strings"
	"time"

	"github.com/fincast/fincast/date"
)

// RecurrenceRule describes when a planned transaction repeats. Only the
// fields relevant to the rule's Kind are consulted; the rest stay zero.
type RecurrenceRule struct {
	Kind  RecurrenceKind `json:"recurrenceType"`
	Start date.Date      `json:"startDate,omitzero"`
	End   date.Date      `json:"endDate,omitzero"`

	Interval int `json:"interval,omitempty"` // every N days/weeks, default 1

	DayOfWeek *Ref `json:"dayOfWeek,omitempty"` // weekly anchor, 0=Sunday..6=Saturday

	DayOfMonth int `json:"dayOfMonth,omitempty"` // 1..31, or -1 for last day

	WeekOfMonth      Ref `json:"weekOfMonth,omitempty"`      // 1..4, or 5 for last
	DayOfWeekInMonth Ref `json:"dayOfWeekInMonth,omitempty"` // 1=Monday..6=Saturday, 7=Sunday

	DayOfQuarter int `json:"dayOfQuarter,omitempty"` // 1-based day offset from quarter start

	Month     Ref `json:"month,omitempty"`     // 1..12
	DayOfYear int `json:"dayOfYear,omitempty"` // day within Month

	Custom string `json:"customDates,omitempty"` // comma-separated date list
}

// Dates expands the rule into the concrete dates on which it fires inside
// the given window. The effective window is the intersection of the rule's
// own [Start, End] and the caller's window; an unset rule boundary defaults
// to the corresponding window boundary. The result is strictly ascending
// and deduplicated. The generator is pure: calling it twice with the same
// inputs yields the same dates.
func (r *RecurrenceRule) Dates(window date.Range) []date.Date {
	if r == nil || r.Kind == 0 {
		return nil
	}

	start := r.Start
	if start.IsZero() {
		start = window.From
	}
	end := r.End
	if end.IsZero() {
		end = window.To
	}
	eff := date.Range{From: date.Max(start, window.From), To: date.Min(end, window.To)}

	var dates []date.Date
	switch r.Kind {
	case OneTime:
		if eff.Contains(start) {
			dates = append(dates, start)
		}

	case EveryNDays:
		interval := max(r.Interval, 1)
		for d := eff.From; !d.After(eff.To); d = d.Add(interval) {
			dates = append(dates, d)
		}

	case EveryNWeeks:
		dates = r.weeklyDates(start, eff)

	case MonthlyOnDay:
		dom := r.DayOfMonth
		if dom == 0 {
			dom = 1
		}
		for m := date.New(eff.From.Year(), eff.From.Month(), 1); !m.After(eff.To); m = m.AddMonth(1) {
			day := dom
			if dom == -1 || dom > m.DaysInMonth() {
				day = m.DaysInMonth() // clamp to the month's last day
			}
			if occ := date.New(m.Year(), m.Month(), day); eff.Contains(occ) {
				dates = append(dates, occ)
			}
		}

	case MonthlyWeekday:
		nth := int(r.WeekOfMonth)
		if nth == 5 {
			nth = -1 // "5th" means last, searched backward from the month end
		} else if nth < 1 {
			nth = 1
		}
		weekday := monthWeekday(int(r.DayOfWeekInMonth))
		for m := date.New(eff.From.Year(), eff.From.Month(), 1); !m.After(eff.To); m = m.AddMonth(1) {
			if occ, ok := m.NthWeekday(weekday, nth); ok && eff.Contains(occ) {
				dates = append(dates, occ)
			}
		}

	case QuarterlyOnDay:
		offset := max(r.DayOfQuarter, 1)
		for q := eff.From.StartOf(date.Quarterly); !q.After(eff.To); q = q.AddMonth(3) {
			if occ := q.Add(offset - 1); eff.Contains(occ) {
				dates = append(dates, occ)
			}
		}

	case YearlyOnDay:
		month := int(r.Month)
		if month < 1 || month > 12 {
			month = 1
		}
		occ := date.New(eff.From.Year(), time.Month(month), max(r.DayOfYear, 1))
		if occ.Before(eff.From) {
			occ = occ.AddYear(1)
		}
		for ; !occ.After(eff.To); occ = occ.AddYear(1) {
			dates = append(dates, occ)
		}

	case CustomDates:
		for _, field := range strings.Split(r.Custom, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			d, err := date.Parse(field)
			if err != nil {
				continue // malformed entries are skipped, not fatal
			}
			if eff.Contains(d) {
				dates = append(dates, d)
			}
		}
	}

	slices.SortFunc(dates, func(a, b date.Date) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		default:
			return 0
		}
	})
	return slices.Compact(dates)
}

// weeklyDates anchors on the rule start (shifted to the target weekday),
// steps forward by whole interval-week jumps to enter the window, then
// walks interval by interval.
func (r *RecurrenceRule) weeklyDates(start date.Date, eff date.Range) []date.Date {
	interval := max(r.Interval, 1)

	target := start.Weekday()
	if r.DayOfWeek != nil {
		target = time.Weekday(*r.DayOfWeek)
	}

	anchor := start
	if anchor.Weekday() != target {
		anchor = anchor.Add(int(target-anchor.Weekday()+7) % 7)
	}

	if anchor.Before(eff.From) {
		weeksBehind := date.DaysBetween(anchor, eff.From) / 7
		skip := (weeksBehind + interval - 1) / interval // whole interval steps
		anchor = anchor.Add(skip * 7 * interval)
	}

	var dates []date.Date
	for d := anchor; !d.After(eff.To); d = d.Add(7 * interval) {
		if !d.Before(eff.From) {
			dates = append(dates, d)
		}
	}
	return dates
}

// monthWeekday maps the 1=Monday..6=Saturday, 7=Sunday wire convention of
// dayOfWeekInMonth to a time.Weekday.
func monthWeekday(id int) time.Weekday {
	switch {
	case id == 7:
		return time.Sunday
	case id >= 1 && id <= 6:
		return time.Weekday(id)
	default:
		return time.Monday
	}
}
