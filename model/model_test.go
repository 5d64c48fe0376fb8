package model

import (
	"math"
	"testing"
)

func TestBodyRoundTrip(t *testing.T) {
	for _, b := range Bodies {
		got, err := ParseBody(b.String())
		if err != nil {
			t.Fatalf("ParseBody(%q): %v", b.String(), err)
		}
		if got != b {
			t.Errorf("ParseBody(%q) = %v, want %v", b.String(), got, b)
		}
		if !b.Valid() {
			t.Errorf("%v reported invalid", b)
		}
	}

	if _, err := ParseBody("chiron"); err == nil {
		t.Error("ParseBody accepted an unsupported body")
	}
	if Body(42).Valid() {
		t.Error("Body(42) reported valid")
	}
	if got := Body(42).String(); got != "body(42)" {
		t.Errorf("Body(42).String() = %q", got)
	}
}

func TestAngleRoundTrip(t *testing.T) {
	for _, a := range Angles {
		got, err := ParseAngle(a.String())
		if err != nil {
			t.Fatalf("ParseAngle(%q): %v", a.String(), err)
		}
		if got != a {
			t.Errorf("ParseAngle(%q) = %v, want %v", a.String(), got, a)
		}
	}
	if _, err := ParseAngle("VERTEX"); err == nil {
		t.Error("ParseAngle accepted an unknown tag")
	}
}

func TestAngleOpposition(t *testing.T) {
	pairs := map[Angle]Angle{
		AngleMC:   AngleIC,
		AngleIC:   AngleMC,
		AngleASC:  AngleDESC,
		AngleDESC: AngleASC,
	}
	for a, want := range pairs {
		if got := a.Opposite(); got != want {
			t.Errorf("%v.Opposite() = %v, want %v", a, got, want)
		}
		if a.Opposite().Opposite() != a {
			t.Errorf("%v not its own double opposite", a)
		}
	}
	for _, a := range Angles {
		if a.IsAnti() == a.Opposite().IsAnti() {
			t.Errorf("exactly one of %v and %v should be the anti-node", a, a.Opposite())
		}
	}
}

func TestMethodRoundTrip(t *testing.T) {
	for _, m := range []Method{Zodiacal, Mundo} {
		got, err := ParseMethod(m.String())
		if err != nil {
			t.Fatalf("ParseMethod(%q): %v", m.String(), err)
		}
		if got != m {
			t.Errorf("ParseMethod(%q) = %v, want %v", m.String(), got, m)
		}
	}
	if _, err := ParseMethod("heliocentric"); err == nil {
		t.Error("ParseMethod accepted an unknown method")
	}
}

func TestNewGeographicPoint(t *testing.T) {
	p, err := NewGeographicPoint(2.35, 48.85)
	if err != nil {
		t.Fatalf("NewGeographicPoint: %v", err)
	}
	if p.Longitude != 2.35 || p.Latitude != 48.85 {
		t.Errorf("point = %+v", p)
	}

	bad := []struct{ lon, lat float64 }{
		{181, 0},
		{-181, 0},
		{0, 91},
		{0, -91},
		{math.NaN(), 0},
		{0, math.Inf(1)},
	}
	for _, tc := range bad {
		if _, err := NewGeographicPoint(tc.lon, tc.lat); err == nil {
			t.Errorf("(%v, %v) accepted", tc.lon, tc.lat)
		}
	}
}

func TestSegmentsSplitsAtBreaks(t *testing.T) {
	points := []LinePoint{
		PointAt(10, 0),
		PointAt(11, 1),
		BreakPoint(),
		PointAt(-170, 2),
		BreakPoint(),
		BreakPoint(),
		PointAt(100, 3),
	}
	segs := Segments(points)
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	if len(segs[0]) != 2 || len(segs[1]) != 1 || len(segs[2]) != 1 {
		t.Errorf("segment sizes = %d %d %d", len(segs[0]), len(segs[1]), len(segs[2]))
	}
	if segs[1][0].Longitude != -170 {
		t.Errorf("second segment start = %+v", segs[1][0])
	}

	if got := Segments(nil); got != nil {
		t.Errorf("Segments(nil) = %v, want nil", got)
	}
	if got := Segments([]LinePoint{BreakPoint()}); got != nil {
		t.Errorf("all-break sequence produced segments: %v", got)
	}
}

func TestLatitudeRangeValidate(t *testing.T) {
	if err := (LatitudeRange{Min: -60, Max: 60}).Validate(); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}
	bad := []LatitudeRange{
		{Min: 10, Max: 10},
		{Min: 20, Max: -20},
		{Min: -91, Max: 0},
		{Min: 0, Max: 91},
		{Min: math.NaN(), Max: 10},
	}
	for _, r := range bad {
		if err := r.Validate(); err == nil {
			t.Errorf("range %+v accepted", r)
		}
	}
}

func TestLatitudeRangeClamp(t *testing.T) {
	r := LatitudeRange{Min: -90, Max: 90}.Clamp(-66, 66)
	if r.Min != -66 || r.Max != 66 {
		t.Errorf("clamped = %+v", r)
	}
	inner := LatitudeRange{Min: -10, Max: 10}.Clamp(-66, 66)
	if inner.Min != -10 || inner.Max != 10 {
		t.Errorf("inner range changed: %+v", inner)
	}
}

func TestLongitudeRangeContains(t *testing.T) {
	r := LongitudeRange{Min: -30, Max: 45}
	if err := r.Validate(); err != nil {
		t.Fatalf("valid range rejected: %v", err)
	}
	for _, lon := range []float64{-30, 0, 45} {
		if !r.Contains(lon) {
			t.Errorf("Contains(%v) = false", lon)
		}
	}
	for _, lon := range []float64{-30.001, 45.001, 180} {
		if r.Contains(lon) {
			t.Errorf("Contains(%v) = true", lon)
		}
	}
	if err := (LongitudeRange{Min: -181, Max: 0}).Validate(); err == nil {
		t.Error("out-of-bounds longitude range accepted")
	}
}

func TestWorldRanges(t *testing.T) {
	if r := WorldLatitudes(); r.Min != MinLatitude || r.Max != MaxLatitude {
		t.Errorf("WorldLatitudes() = %+v", r)
	}
	if r := WorldLongitudes(); r.Min != MinLongitude || r.Max != MaxLongitude {
		t.Errorf("WorldLongitudes() = %+v", r)
	}
}

func TestLineKeyString(t *testing.T) {
	key := LineKey{Body: Mars, Angle: AngleASC}
	if got := key.String(); got != "mars/ASC" {
		t.Errorf("key = %q", got)
	}
	line := PlanetaryLine{Body: Mars, LineType: AngleASC}
	if line.Key() != key {
		t.Errorf("Key() = %v, want %v", line.Key(), key)
	}
}
