package date

import "fmt"

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange return a well known period range containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains return true date is included in the range (boundaries included).
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// IsZero returns true when both boundaries are unset.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Intersect returns the overlap of r and x. The result has From after To
// when the two ranges are disjoint.
func (r Range) Intersect(x Range) Range {
	return Range{From: Max(r.From, x.From), To: Min(r.To, x.To)}
}

// Days returns the inclusive number of days covered by the range.
func (r Range) Days() int { return DaysBetween(r.From, r.To) + 1 }

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }

// Windows cuts the range into consecutive period windows. The first window
// starts exactly at r.From and runs to that period's calendar end, so the
// leading window may be shorter than a full period; subsequent windows are
// aligned on calendar boundaries. The last window is clipped to r.To.
func (r Range) Windows(period Period) []Range {
	if r.To.Before(r.From) {
		return nil
	}
	var windows []Range
	start := r.From
	for !start.After(r.To) {
		end := Min(start.EndOf(period), r.To)
		windows = append(windows, Range{From: start, To: end})
		start = start.EndOf(period).Add(1)
	}
	return windows
}
