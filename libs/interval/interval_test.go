package interval

import (
	"testing"
	"time"
)

func at(hour int) time.Time {
	return time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
}

func TestOverlaps_BackToBack(t *testing.T) {
	if Overlaps(at(9), at(10), at(10), at(11)) {
		t.Fatal("[9,10) and [10,11) must not overlap")
	}
	if Overlaps(at(10), at(11), at(9), at(10)) {
		t.Fatal("[10,11) and [9,10) must not overlap")
	}
}

func TestOverlaps_Partial(t *testing.T) {
	if !Overlaps(at(9), at(11), at(10), at(12)) {
		t.Fatal("[9,11) and [10,12) must overlap")
	}
	if Overlaps(at(9), at(10), at(11), at(12)) {
		t.Fatal("[9,10) and [11,12) must not overlap")
	}
}

func TestOverlaps_Symmetric(t *testing.T) {
	cases := [][4]time.Time{
		{at(9), at(11), at(10), at(12)},
		{at(9), at(10), at(10), at(11)},
		{at(8), at(20), at(12), at(13)},
		{at(9), at(10), at(11), at(12)},
	}
	for _, c := range cases {
		ab := Overlaps(c[0], c[1], c[2], c[3])
		ba := Overlaps(c[2], c[3], c[0], c[1])
		if ab != ba {
			t.Fatalf("overlap not symmetric for %v", c)
		}
	}
}

func TestOverlaps_Self(t *testing.T) {
	if !Overlaps(at(9), at(10), at(9), at(10)) {
		t.Fatal("a positive-duration interval must overlap itself")
	}
}

func TestOverlaps_Containment(t *testing.T) {
	if !Overlaps(at(8), at(20), at(12), at(13)) {
		t.Fatal("containing interval must overlap contained one")
	}
}

func TestOverlapsAny(t *testing.T) {
	spans := []Span{
		{Start: at(9), End: at(10)},
		{Start: at(14), End: at(16)},
	}
	if OverlapsAny(at(10), at(11), spans) {
		t.Fatal("[10,11) is free between bookings")
	}
	if !OverlapsAny(at(15), at(17), spans) {
		t.Fatal("[15,17) collides with [14,16)")
	}
}

func TestSpanValid(t *testing.T) {
	if (Span{Start: at(10), End: at(10)}).Valid() {
		t.Fatal("zero-duration span must be invalid")
	}
	if (Span{Start: at(11), End: at(10)}).Valid() {
		t.Fatal("inverted span must be invalid")
	}
	if !(Span{Start: at(10), End: at(11)}).Valid() {
		t.Fatal("positive span must be valid")
	}
}
