// Package selector models the booking time-range picker as a pure state
// machine so the interaction logic can be tested without a UI. A host
// (web view, TUI, tests) feeds pointer and fetch events into Update and
// executes the returned effects.
package selector

import (
	"math"
	"time"

	"github.com/Tushar656/venue-booking/libs/interval"
)

// SnapHours is the selection granularity in hours.
const SnapHours = 0.5

type Phase int

const (
	// PhaseLoading blocks pointer input until the availability fetch
	// for the current context resolves.
	PhaseLoading Phase = iota
	PhaseIdle
	PhaseDragging
	PhaseSelected
)

// Range is a half-open clock-hour interval [Start, End) within one day,
// e.g. {9, 10.5} for 09:00-10:30.
type Range struct {
	Start float64
	End   float64
}

type State struct {
	Phase   Phase
	CourtID string
	Date    string // YYYY-MM-DD
	Gen     int    // fetch generation; stale results are discarded
	Booked  []Range

	anchor   float64
	SelStart float64
	SelEnd   float64
	Err      string
}

type Event interface{ isEvent() }

// ContextChanged switches the court or day the selector operates on.
type ContextChanged struct {
	CourtID string
	Date    string
}

// RangesLoaded delivers the fetched booked ranges for generation Gen.
type RangesLoaded struct {
	Gen    int
	Ranges []Range
}

// LoadFailed reports a failed fetch for generation Gen.
type LoadFailed struct {
	Gen int
	Err string
}

// PointerDown / PointerMove carry the pointer position as a fractional
// clock hour within the day (e.g. 9.25 for 09:15).
type PointerDown struct{ Hour float64 }
type PointerMove struct{ Hour float64 }
type PointerUp struct{}

// PointerLeave is treated as PointerUp while dragging, so leaving the
// widget mid-drag still finalizes the selection.
type PointerLeave struct{}

// Clear drops the current selection.
type Clear struct{}

func (ContextChanged) isEvent() {}
func (RangesLoaded) isEvent()   {}
func (LoadFailed) isEvent()     {}
func (PointerDown) isEvent()    {}
func (PointerMove) isEvent()    {}
func (PointerUp) isEvent()      {}
func (PointerLeave) isEvent()   {}
func (Clear) isEvent()          {}

type Effect interface{ isEffect() }

// FetchRanges asks the host to load booked ranges for the context and
// feed back RangesLoaded or LoadFailed with the same generation.
type FetchRanges struct {
	CourtID string
	Date    string
	Gen     int
}

// EmitSelection publishes a confirmed selection as wall-clock "HH:MM".
type EmitSelection struct {
	Start string
	End   string
}

// EmitEmpty publishes that no selection is held.
type EmitEmpty struct{}

func (FetchRanges) isEffect()   {}
func (EmitSelection) isEffect() {}
func (EmitEmpty) isEffect()     {}

// Update is the whole selector: pure, no clocks, no IO.
func Update(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case ContextChanged:
		s.CourtID = e.CourtID
		s.Date = e.Date
		s.Gen++
		s.Booked = nil
		s.SelStart, s.SelEnd = 0, 0
		s.Err = ""
		s.Phase = PhaseLoading
		return s, []Effect{EmitEmpty{}, FetchRanges{CourtID: e.CourtID, Date: e.Date, Gen: s.Gen}}

	case RangesLoaded:
		if e.Gen != s.Gen {
			return s, nil
		}
		s.Booked = e.Ranges
		s.Phase = PhaseIdle
		return s, nil

	case LoadFailed:
		if e.Gen != s.Gen {
			return s, nil
		}
		s.Phase = PhaseIdle
		s.Err = e.Err
		if s.Err == "" {
			s.Err = "failed to load availability"
		}
		return s, nil

	case PointerDown:
		if s.Phase == PhaseLoading || s.Phase == PhaseDragging {
			return s, nil
		}
		var effects []Effect
		if s.Phase == PhaseSelected {
			effects = append(effects, EmitEmpty{})
		}
		s.Err = ""
		s.anchor = clamp(Snap(e.Hour), 0, 24-SnapHours)
		s.SelStart = s.anchor
		s.SelEnd = s.anchor + SnapHours
		s.Phase = PhaseDragging
		return s, effects

	case PointerMove:
		if s.Phase != PhaseDragging {
			return s, nil
		}
		cur := clamp(Snap(e.Hour), 0, 24)
		start, end := s.anchor, cur
		if end < start {
			start, end = end, start
		}
		if end-start < SnapHours {
			end = start + SnapHours
		}
		if end > 24 {
			end = 24
			start = 24 - SnapHours
		}
		s.SelStart, s.SelEnd = start, end
		return s, nil

	case PointerUp:
		return finalizeDrag(s)

	case PointerLeave:
		if s.Phase != PhaseDragging {
			return s, nil
		}
		return finalizeDrag(s)

	case Clear:
		if s.Phase == PhaseLoading {
			return s, nil
		}
		s.SelStart, s.SelEnd = 0, 0
		s.Err = ""
		s.Phase = PhaseIdle
		return s, []Effect{EmitEmpty{}}
	}
	return s, nil
}

func finalizeDrag(s State) (State, []Effect) {
	if s.Phase != PhaseDragging {
		return s, nil
	}
	if s.SelEnd <= s.SelStart {
		s.SelStart, s.SelEnd = 0, 0
		s.Phase = PhaseIdle
		s.Err = "invalid time range"
		return s, []Effect{EmitEmpty{}}
	}
	if overlapsBooked(s.SelStart, s.SelEnd, s.Booked) {
		s.SelStart, s.SelEnd = 0, 0
		s.Phase = PhaseIdle
		s.Err = "selected time overlaps an existing booking"
		return s, []Effect{EmitEmpty{}}
	}
	s.Phase = PhaseSelected
	return s, []Effect{EmitSelection{Start: FormatHour(s.SelStart), End: FormatHour(s.SelEnd)}}
}

// overlapsBooked maps clock hours onto a reference day so the shared
// half-open predicate decides, exactly like the server side does.
func overlapsBooked(start, end float64, booked []Range) bool {
	spans := make([]interval.Span, 0, len(booked))
	for _, b := range booked {
		spans = append(spans, interval.Span{Start: hourToTime(b.Start), End: hourToTime(b.End)})
	}
	return interval.OverlapsAny(hourToTime(start), hourToTime(end), spans)
}

var refDay = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func hourToTime(h float64) time.Time {
	return refDay.Add(time.Duration(math.Round(h * 60)) * time.Minute)
}

// Snap rounds a fractional hour to the nearest half hour.
func Snap(h float64) float64 {
	return math.Round(h/SnapHours) * SnapHours
}

// FormatHour renders a fractional hour as "HH:MM".
func FormatHour(h float64) string {
	total := int(math.Round(h * 60))
	hh := total / 60
	mm := total % 60
	return twoDigits(hh) + ":" + twoDigits(mm)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
