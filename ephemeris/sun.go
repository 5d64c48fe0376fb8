package ephemeris

// sunEcliptic returns the Sun's apparent geocentric ecliptic longitude using
// the classical low-precision solar theory: mean longitude plus the equation
// of center, corrected for aberration and nutation in longitude. Latitude is
// below an arcsecond and treated as zero.
func sunEcliptic(jd float64) (lon, lat float64) {
	t := centuries(jd)

	meanLon := 280.46646 + 36000.76983*t + 0.0003032*t*t
	meanAnomaly := 357.52911 + 35999.05029*t - 0.0001537*t*t

	center := (1.914602-0.004817*t-0.000014*t*t)*sinDeg(meanAnomaly) +
		(0.019993-0.000101*t)*sinDeg(2*meanAnomaly) +
		0.000289*sinDeg(3*meanAnomaly)

	trueLon := meanLon + center

	node := 125.04 - 1934.136*t
	apparent := trueLon - 0.00569 - 0.00478*sinDeg(node)

	return norm360(apparent), 0
}
