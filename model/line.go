package model

import "fmt"

// LineKey identifies one planetary line: a body at one of the four angles.
type LineKey struct {
	Body  Body  `json:"body"`
	Angle Angle `json:"angle"`
}

func (k LineKey) String() string {
	return fmt.Sprintf("%s/%s", k.Body, k.Angle)
}

// PlanetaryLine is the geographic locus where a body occupies one chart
// angle. Points are ordered by latitude and may contain break sentinels.
// Value object: generators return it fully built and it is never mutated.
type PlanetaryLine struct {
	Body               Body        `json:"body"`
	LineType           Angle       `json:"line_type"`
	Method             Method      `json:"method"`
	Points             []LinePoint `json:"points"`
	SamplingResolution float64     `json:"sampling_resolution"`
	OrbInfluenceKm     float64     `json:"orb_influence_km"`
}

// Key returns the line's (body, angle) identity.
func (l PlanetaryLine) Key() LineKey {
	return LineKey{Body: l.Body, Angle: l.LineType}
}

// ZenithPoint is the geographic point directly beneath a body at the birth
// moment.
type ZenithPoint struct {
	Body   Body            `json:"body"`
	Point  GeographicPoint `json:"point"`
	Method Method          `json:"method"`
	// PrecisionEstimate is the expected positional accuracy in arc-minutes.
	PrecisionEstimate float64 `json:"precision_estimate"`
	// JulianDate is the birth moment the point was derived for.
	JulianDate float64 `json:"julian_date"`
}

// ParanLine holds the points where two planetary lines cross: the latitudes
// at which both bodies are simultaneously angular.
type ParanLine struct {
	Primary      LineKey           `json:"primary"`
	Secondary    LineKey           `json:"secondary"`
	Points       []GeographicPoint `json:"points"`
	OrbTolerance float64           `json:"orb_tolerance"`
}

// AspectLine is the locus where a natal body holds a fixed angular
// separation from a local chart angle.
type AspectLine struct {
	Body           Body        `json:"body"`
	ReferenceAngle Angle       `json:"reference_angle"`
	AspectDegrees  float64     `json:"aspect_degrees"`
	OrbApplied     float64     `json:"orb_applied"`
	JulianDate     float64     `json:"julian_date"`
	Points         []LinePoint `json:"points"`
}

// LocalSpaceLine is the compass direction from a birth location toward a
// body's sub-point, with a projected great-circle endpoint.
type LocalSpaceLine struct {
	Body           Body            `json:"body"`
	Birth          GeographicPoint `json:"birth"`
	Endpoint       GeographicPoint `json:"endpoint"`
	AzimuthDegrees float64         `json:"azimuth_degrees"`
	DistanceKm     float64         `json:"distance_km"`
	// AltitudeDegrees is the body's altitude above the birth horizon;
	// negative when below it.
	AltitudeDegrees float64 `json:"altitude_degrees"`
}
