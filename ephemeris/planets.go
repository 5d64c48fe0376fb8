package ephemeris

import (
	"math"

	"github.com/signalsfoundry/astromap/model"
)

// Mean Keplerian elements and their per-century rates, J2000 ecliptic frame.
// Values follow the JPL approximate-position tables; planet positions come
// out heliocentric and are differenced against the Earth-Moon barycenter for
// the geocentric view.
type orbitalElements struct {
	a, aDot float64 // semi-major axis, au
	e, eDot float64 // eccentricity
	i, iDot float64 // inclination, deg
	l, lDot float64 // mean longitude, deg
	w, wDot float64 // longitude of perihelion, deg
	o, oDot float64 // longitude of ascending node, deg
}

var earthElements = orbitalElements{
	1.00000261, 0.00000562, 0.01671123, -0.00004392,
	-0.00001531, -0.01294668, 100.46457166, 35999.37244981,
	102.93768193, 0.32327364, 0.0, 0.0,
}

var planetElements = map[model.Body]orbitalElements{
	model.Mercury: {
		0.38709927, 0.00000037, 0.20563593, 0.00001906,
		7.00497902, -0.00594749, 252.25032350, 149472.67411175,
		77.45779628, 0.16047689, 48.33076593, -0.12534081,
	},
	model.Venus: {
		0.72333566, 0.00000390, 0.00677672, -0.00004107,
		3.39467605, -0.00078890, 181.97909950, 58517.81538729,
		131.60246718, 0.00268329, 76.67984255, -0.27769418,
	},
	model.Mars: {
		1.52371034, 0.00001847, 0.09339410, 0.00007882,
		1.84969142, -0.00813131, -4.55343205, 19140.30268499,
		-23.94362959, 0.44441088, 49.55953891, -0.29257343,
	},
	model.Jupiter: {
		5.20288700, -0.00011607, 0.04838624, -0.00013253,
		1.30439695, -0.00183714, 34.39644051, 3034.74612775,
		14.72847983, 0.21252668, 100.47390909, 0.20469106,
	},
	model.Saturn: {
		9.53667594, -0.00125060, 0.05386179, -0.00050991,
		2.48599187, 0.00193609, 49.95424423, 1222.49362201,
		92.59887831, -0.41897216, 113.66242448, -0.28867794,
	},
	model.Uranus: {
		19.18916464, -0.00196176, 0.04725744, -0.00004397,
		0.77263783, -0.00242939, 313.23810451, 428.48202785,
		170.95427630, 0.40805281, 74.01692503, 0.04240589,
	},
	model.Neptune: {
		30.06992276, 0.00026291, 0.00859048, 0.00005105,
		1.77004347, 0.00035372, -55.12002969, 218.45945325,
		44.96476227, -0.32241464, 131.78422574, -0.00508664,
	},
	model.Pluto: {
		39.48211675, -0.00031596, 0.24882730, 0.00005170,
		17.14001206, 0.00004818, 238.92903833, 145.20780515,
		224.06891629, -0.04062942, 110.30393684, -0.01183482,
	},
}

// planetEcliptic returns the geocentric ecliptic position of a planet from
// its mean orbital elements.
func planetEcliptic(jd float64, body model.Body) (lon, lat float64) {
	t := centuries(jd)

	px, py, pz := heliocentric(planetElements[body], t)
	ex, ey, ez := heliocentric(earthElements, t)

	gx, gy, gz := px-ex, py-ey, pz-ez
	lon = norm360(math.Atan2(gy, gx) / deg2rad)
	lat = math.Atan2(gz, math.Hypot(gx, gy)) / deg2rad
	return lon, lat
}

// heliocentric computes a body's J2000 ecliptic position vector in au.
func heliocentric(el orbitalElements, t float64) (x, y, z float64) {
	a := el.a + el.aDot*t
	e := el.e + el.eDot*t
	i := (el.i + el.iDot*t) * deg2rad
	l := el.l + el.lDot*t
	w := el.w + el.wDot*t
	o := el.o + el.oDot*t

	meanAnomaly := wrap180(l - w)
	argPeri := (w - o) * deg2rad
	node := o * deg2rad

	ecc := solveKepler(meanAnomaly, e) * deg2rad

	// Position in the orbital plane, perihelion along x'.
	xp := a * (math.Cos(ecc) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ecc)

	cw, sw := math.Cos(argPeri), math.Sin(argPeri)
	co, so := math.Cos(node), math.Sin(node)
	ci, si := math.Cos(i), math.Sin(i)

	x = (cw*co-sw*so*ci)*xp + (-sw*co-cw*so*ci)*yp
	y = (cw*so+sw*co*ci)*xp + (-sw*so+cw*co*ci)*yp
	z = sw*si*xp + cw*si*yp
	return x, y, z
}

// solveKepler iterates E - e·sin E = M by Newton's method. Arguments and
// result are in degrees.
func solveKepler(meanAnomalyDeg, e float64) float64 {
	const tol = 1e-8
	eDeg := e / deg2rad

	ecc := meanAnomalyDeg + eDeg*sinDeg(meanAnomalyDeg)
	for iter := 0; iter < 30; iter++ {
		dm := meanAnomalyDeg - (ecc - eDeg*sinDeg(ecc))
		de := dm / (1 - e*cosDeg(ecc))
		ecc += de
		if math.Abs(de) < tol {
			break
		}
	}
	return ecc
}
