package core

import (
	"math"
	"sort"

	"github.com/signalsfoundry/astromap/model"
)

// DefaultParanOrb is the longitude tolerance, in degrees, within which two
// lines at the same latitude are considered crossing.
const DefaultParanOrb = 1.0

// ParanOptions tunes the cross-line intersection search.
type ParanOptions struct {
	// OrbTolerance is the longitude match tolerance in degrees.
	// Zero means DefaultParanOrb.
	OrbTolerance float64
	// ExcludeMirrored skips pairs in which both lines sit on anti-angles
	// (IC/DESC): such a pair is the 180°-shifted mirror of the node pair
	// and carries no new information.
	ExcludeMirrored bool
}

// ParanStats reports how much work the bounding-box prefilter saved.
type ParanStats struct {
	PairsConsidered  int
	PairsSkipped     int
	PointComparisons int
}

// FindParans searches every unordered pair of distinct line keys for
// latitudes where both lines pass through the same longitude. Same-body
// pairs are excluded. Each surviving pair yields one ParanLine, possibly
// with zero points.
//
// Bounding boxes are precomputed per line so non-overlapping pairs are
// discarded in O(1) before any per-segment work.
func FindParans(lines map[model.LineKey]model.PlanetaryLine, opts ParanOptions) ([]model.ParanLine, ParanStats) {
	orb := opts.OrbTolerance
	if orb <= 0 {
		orb = DefaultParanOrb
	}

	keys := make([]model.LineKey, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Body != keys[j].Body {
			return keys[i].Body < keys[j].Body
		}
		return keys[i].Angle < keys[j].Angle
	})

	boxes := make(map[model.LineKey]lineBox, len(keys))
	index := make(map[model.LineKey]map[int64][]float64, len(keys))
	for _, k := range keys {
		boxes[k] = boundingBox(lines[k])
		index[k] = lonByLatitude(lines[k])
	}

	var stats ParanStats
	var parans []model.ParanLine
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			a, b := keys[i], keys[j]
			if a.Body == b.Body {
				continue
			}
			if opts.ExcludeMirrored && a.Angle.IsAnti() && b.Angle.IsAnti() {
				continue
			}
			stats.PairsConsidered++
			if !boxes[a].overlaps(boxes[b], orb) {
				stats.PairsSkipped++
				parans = append(parans, model.ParanLine{
					Primary: a, Secondary: b, OrbTolerance: orb,
				})
				continue
			}

			points := matchLatitudes(index[a], index[b], orb, &stats)
			parans = append(parans, model.ParanLine{
				Primary:      a,
				Secondary:    b,
				Points:       points,
				OrbTolerance: orb,
			})
		}
	}
	return parans, stats
}

type lineBox struct {
	minLon, maxLon float64
	minLat, maxLat float64
	empty          bool
}

func boundingBox(line model.PlanetaryLine) lineBox {
	box := lineBox{
		minLon: math.Inf(1), maxLon: math.Inf(-1),
		minLat: math.Inf(1), maxLat: math.Inf(-1),
		empty: true,
	}
	for _, p := range line.Points {
		if p.Break {
			continue
		}
		box.empty = false
		box.minLon = math.Min(box.minLon, p.Point.Longitude)
		box.maxLon = math.Max(box.maxLon, p.Point.Longitude)
		box.minLat = math.Min(box.minLat, p.Point.Latitude)
		box.maxLat = math.Max(box.maxLat, p.Point.Latitude)
	}
	return box
}

func (b lineBox) overlaps(other lineBox, orb float64) bool {
	if b.empty || other.empty {
		return false
	}
	if b.maxLon+orb < other.minLon || other.maxLon+orb < b.minLon {
		return false
	}
	if b.maxLat < other.minLat || other.maxLat < b.minLat {
		return false
	}
	return true
}

// latKey quantizes a latitude so points sampled at the same grid latitude
// compare equal despite float accumulation.
func latKey(lat float64) int64 {
	return int64(math.Round(lat * 1e6))
}

// lonByLatitude indexes a line's longitudes by quantized latitude. Break
// sentinels are dropped. Synthetic date-line wrap segments (consecutive
// points spanning more than 180° of longitude) contribute no pairing, so a
// line's artificial jump across the map edge can never read as a crossing.
func lonByLatitude(line model.PlanetaryLine) map[int64][]float64 {
	out := make(map[int64][]float64)
	for _, segment := range model.Segments(line.Points) {
		for i, p := range segment {
			if i > 0 && math.Abs(p.Longitude-segment[i-1].Longitude) > 180 {
				continue
			}
			key := latKey(p.Latitude)
			out[key] = append(out[key], p.Longitude)
		}
	}
	return out
}

func matchLatitudes(a, b map[int64][]float64, orb float64, stats *ParanStats) []model.GeographicPoint {
	var points []model.GeographicPoint
	for key, lonsA := range a {
		lonsB, ok := b[key]
		if !ok {
			continue
		}
		lat := float64(key) / 1e6
		for _, la := range lonsA {
			for _, lb := range lonsB {
				stats.PointComparisons++
				diff := wrap180(la - lb)
				if math.Abs(diff) > orb {
					continue
				}
				points = append(points, model.GeographicPoint{
					Longitude: NormalizeLongitude(la - diff/2),
					Latitude:  lat,
				})
			}
		}
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Latitude != points[j].Latitude {
			return points[i].Latitude < points[j].Latitude
		}
		return points[i].Longitude < points[j].Longitude
	})
	return points
}
