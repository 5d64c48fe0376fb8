package model

// PlanetaryPosition is a body's position at the calculator's birth moment.
// Ecliptic and equatorial coordinates are both carried so either calculation
// method can be served without re-querying the ephemeris. Immutable once
// computed; the position cache hands out copies by value.
type PlanetaryPosition struct {
	// Ecliptic coordinates in degrees.
	EclipticLongitude float64 `json:"ecliptic_longitude"`
	EclipticLatitude  float64 `json:"ecliptic_latitude"`

	// Equatorial coordinates in degrees. Right ascension is in [0, 360).
	RightAscension float64 `json:"right_ascension"`
	Declination    float64 `json:"declination"`

	// SpeedLongitude is the body's angular speed in ecliptic longitude,
	// degrees per day. Negative while retrograde.
	SpeedLongitude float64 `json:"speed_longitude"`
}
