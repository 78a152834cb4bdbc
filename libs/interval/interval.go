// Package interval holds the half-open time interval overlap rule shared by
// the booking service and the client selector. Every overlap decision in the
// system goes through Overlaps; an inclusive comparison anywhere else is a bug.
package interval

import "time"

type Span struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the span has positive duration. Callers must reject
// invalid spans before asking about overlap.
func (s Span) Valid() bool {
	return s.End.After(s.Start)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Half-open semantics: a booking ending exactly when another starts does not
// overlap, so back-to-back bookings are legal.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// OverlapsAny reports whether [start, end) intersects any of the given spans.
func OverlapsAny(start, end time.Time, spans []Span) bool {
	for _, s := range spans {
		if Overlaps(start, end, s.Start, s.End) {
			return true
		}
	}
	return false
}
