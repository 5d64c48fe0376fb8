package ephemeris

// Truncated lunar theory. The full series runs to sixty terms; the leading
// terms kept here bound the error near 0.1° in longitude, which is an order
// of magnitude below the default geographic sampling resolution.

// longitudeTerm is one periodic term of the lunar longitude series: a
// coefficient in degrees against a linear combination of the fundamental
// arguments D, M, M' and F.
type lunarTerm struct {
	coeff       float64
	d, m, mp, f float64
}

var moonLongitudeTerms = []lunarTerm{
	{6.288774, 0, 0, 1, 0},
	{1.274027, 2, 0, -1, 0},
	{0.658314, 2, 0, 0, 0},
	{0.213618, 0, 0, 2, 0},
	{-0.185116, 0, 1, 0, 0},
	{-0.114332, 0, 0, 0, 2},
	{0.058793, 2, 0, -2, 0},
	{0.057066, 2, -1, -1, 0},
	{0.053322, 2, 0, 1, 0},
	{0.045758, 2, -1, 0, 0},
	{-0.040923, 0, 1, -1, 0},
	{-0.034720, 1, 0, 0, 0},
	{-0.030383, 0, 1, 1, 0},
	{0.015327, 2, 0, 0, -2},
	{-0.012528, 0, 0, 1, 2},
	{0.010980, 0, 0, 1, -2},
}

var moonLatitudeTerms = []lunarTerm{
	{5.128122, 0, 0, 0, 1},
	{0.280602, 0, 0, 1, 1},
	{0.277693, 0, 0, 1, -1},
	{0.173237, 2, 0, 0, -1},
	{0.055413, 2, 0, -1, 1},
	{0.046271, 2, 0, -1, -1},
	{0.032573, 2, 0, 0, 1},
	{0.017198, 0, 0, 2, 1},
}

// moonEcliptic returns the Moon's geocentric ecliptic longitude and latitude.
func moonEcliptic(jd float64) (lon, lat float64) {
	t := centuries(jd)

	// Fundamental arguments: mean longitude, mean elongation, solar and
	// lunar mean anomalies, argument of latitude.
	lp := 218.3164477 + 481267.88123421*t
	d := 297.8501921 + 445267.1114034*t
	m := 357.5291092 + 35999.0502909*t
	mp := 134.9633964 + 477198.8675055*t
	f := 93.2720950 + 483202.0175233*t

	for _, term := range moonLongitudeTerms {
		lon += term.coeff * sinDeg(term.d*d+term.m*m+term.mp*mp+term.f*f)
	}
	for _, term := range moonLatitudeTerms {
		lat += term.coeff * sinDeg(term.d*d+term.m*m+term.mp*mp+term.f*f)
	}

	return norm360(lp + lon), lat
}
