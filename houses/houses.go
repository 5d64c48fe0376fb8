// Package houses computes chart angles and Placidus house cusps for a
// relocated moment, implementing the engine's house-system port.
package houses

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/signalsfoundry/astromap/core"
)

// ErrPolarRegion marks latitudes where Placidus house division is undefined:
// circumpolar geometry leaves some cusps with no horizon crossing to divide.
var ErrPolarRegion = errors.New("houses: placidus undefined in polar region")

// PolarLimit is the latitude beyond which Cusps refuses to iterate.
const PolarLimit = 80.0

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// Provider implements core.HouseSystemPort using closed-form angle formulas
// and semi-arc iteration for the intermediate cusps. It is stateless and
// safe for concurrent use.
type Provider struct {
	eph core.EphemerisPort
}

// New builds a house provider on top of an ephemeris, which supplies the
// obliquity for the moment.
func New(eph core.EphemerisPort) *Provider {
	return &Provider{eph: eph}
}

// Angles computes the four chart angles from sidereal time, geographic
// position and obliquity alone. No house division is involved, which keeps
// this call an order of magnitude cheaper than Cusps.
func (p *Provider) Angles(ctx context.Context, jd, latitude, longitude float64) (core.ChartAngles, error) {
	if err := ctx.Err(); err != nil {
		return core.ChartAngles{}, err
	}
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return core.ChartAngles{}, fmt.Errorf("%w: location (%v, %v)", core.ErrInvalidInput, longitude, latitude)
	}

	gst, err := core.GreenwichSiderealTime(jd)
	if err != nil {
		return core.ChartAngles{}, err
	}
	obliquity, err := p.eph.Obliquity(jd)
	if err != nil {
		return core.ChartAngles{}, err
	}

	armc := norm360(gst + longitude)
	return anglesFromARMC(armc, latitude, obliquity), nil
}

// anglesFromARMC derives the chart angles from the right ascension of the
// Midheaven.
func anglesFromARMC(armc, latitude, obliquity float64) core.ChartAngles {
	armcRad := armc * deg2rad
	oblRad := obliquity * deg2rad
	latRad := latitude * deg2rad

	mc := norm360(math.Atan2(math.Sin(armcRad), math.Cos(armcRad)*math.Cos(oblRad)) * rad2deg)

	asc := norm360(math.Atan2(
		math.Cos(armcRad),
		-(math.Sin(armcRad)*math.Cos(oblRad) + math.Tan(latRad)*math.Sin(oblRad)),
	) * rad2deg)
	// The ascendant sits in the eastern half-chart, within 180° after the
	// Midheaven in zodiacal order.
	if d := norm360(asc - mc); d >= 180 {
		asc = norm360(asc + 180)
	}

	return core.ChartAngles{
		ASC:  asc,
		MC:   mc,
		ARMC: armc,
		DESC: norm360(asc + 180),
		IC:   norm360(mc + 180),
	}
}

// Cusps computes the full Placidus cusp set, indexed 1..12 at [0..11].
// Cusp 1 is the ascendant and cusp 10 the Midheaven; the intermediate cusps
// 11, 12, 2 and 3 come from semi-arc iteration and the rest are their
// opposites.
func (p *Provider) Cusps(ctx context.Context, jd, latitude, longitude float64) (core.ChartAngles, []float64, error) {
	if math.Abs(latitude) >= PolarLimit {
		return core.ChartAngles{}, nil, fmt.Errorf("%w: latitude %.1f", ErrPolarRegion, latitude)
	}
	angles, err := p.Angles(ctx, jd, latitude, longitude)
	if err != nil {
		return core.ChartAngles{}, nil, err
	}
	obliquity, err := p.eph.Obliquity(jd)
	if err != nil {
		return core.ChartAngles{}, nil, err
	}

	// Semi-arc fractions for the intermediate cusps. Cusps 11 and 12 trisect
	// the diurnal semi-arc east of the Midheaven; cusps 2 and 3 trisect the
	// nocturnal semi-arc west of the lower meridian.
	type spec struct {
		index    int
		fraction float64
		diurnal  bool
	}
	specs := []spec{
		{10, 1.0 / 3.0, true}, // cusp 11
		{11, 2.0 / 3.0, true}, // cusp 12
		{1, 2.0 / 3.0, false}, // cusp 2
		{2, 1.0 / 3.0, false}, // cusp 3
	}

	cusps := make([]float64, 12)
	cusps[0] = angles.ASC
	cusps[9] = angles.MC

	for _, s := range specs {
		lon, err := placidusCusp(angles.ARMC, latitude, obliquity, s.fraction, s.diurnal)
		if err != nil {
			return core.ChartAngles{}, nil, err
		}
		cusps[s.index] = lon
	}

	cusps[3] = norm360(cusps[9] + 180)  // IC
	cusps[6] = norm360(cusps[0] + 180)  // DESC
	cusps[4] = norm360(cusps[10] + 180) // cusp 5 opposes 11
	cusps[5] = norm360(cusps[11] + 180) // cusp 6 opposes 12
	cusps[7] = norm360(cusps[1] + 180)  // cusp 8 opposes 2
	cusps[8] = norm360(cusps[2] + 180)  // cusp 9 opposes 3

	return angles, cusps, nil
}

// placidusCusp iterates the ecliptic longitude whose right ascension divides
// the relevant semi-arc at the given fraction. The fixed point is
// RA = ARMC + f·SDA for diurnal cusps and RA = ARMC + 180 − f·SNA for
// nocturnal ones, where the semi-arcs depend on the declination of the
// current estimate.
func placidusCusp(armc, latitude, obliquity, fraction float64, diurnal bool) (float64, error) {
	tanLat := math.Tan(latitude * deg2rad)
	oblRad := obliquity * deg2rad

	var offset float64
	if diurnal {
		offset = fraction * 90
	} else {
		offset = 180 - fraction*90
	}
	ra := armc + offset

	const (
		maxIterations = 30
		tolerance     = 1e-6
	)
	for i := 0; i < maxIterations; i++ {
		raRad := ra * deg2rad

		// Declination of the ecliptic point at this right ascension.
		lonRad := math.Atan2(math.Sin(raRad), math.Cos(raRad)*math.Cos(oblRad))
		decRad := math.Asin(math.Sin(oblRad) * math.Sin(lonRad))

		arg := tanLat * math.Tan(decRad)
		if arg < -1 || arg > 1 {
			return 0, fmt.Errorf("%w: circumpolar cusp at latitude %.1f", ErrPolarRegion, latitude)
		}
		ascDiff := math.Asin(arg) * rad2deg

		var next float64
		if diurnal {
			sda := 90 + ascDiff
			next = armc + fraction*sda
		} else {
			sna := 90 - ascDiff
			next = armc + 180 - fraction*sna
		}
		if math.Abs(wrap180(next-ra)) < tolerance {
			ra = next
			break
		}
		ra = next
	}

	raRad := ra * deg2rad
	lon := math.Atan2(math.Sin(raRad), math.Cos(raRad)*math.Cos(oblRad)) * rad2deg
	return norm360(lon), nil
}

func norm360(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func wrap180(deg float64) float64 {
	d := math.Mod(deg+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}
