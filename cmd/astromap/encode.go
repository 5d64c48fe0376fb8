package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/signalsfoundry/astromap/core"
	"github.com/signalsfoundry/astromap/model"
)

func worldLat() model.LatitudeRange  { return model.WorldLatitudes() }
func worldLon() model.LongitudeRange { return model.WorldLongitudes() }

// Flag values are folded to the canonical casing so "mc" and "MC" both
// resolve, matching the lowercase defaults the flags advertise.
func parseBody(s string) (model.Body, error) {
	return model.ParseBody(strings.ToLower(strings.TrimSpace(s)))
}

func parseAngle(s string) (model.Angle, error) {
	return model.ParseAngle(strings.ToUpper(strings.TrimSpace(s)))
}

func parseBodies(s string) ([]model.Body, error) {
	var out []model.Body
	for _, part := range strings.Split(s, ",") {
		body, err := parseBody(part)
		if err != nil {
			return nil, err
		}
		out = append(out, body)
	}
	return out, nil
}

func parseAngles(s string) ([]model.Angle, error) {
	var out []model.Angle
	for _, part := range strings.Split(s, ",") {
		angle, err := parseAngle(part)
		if err != nil {
			return nil, err
		}
		out = append(out, angle)
	}
	return out, nil
}

func parseLineKey(s string) (model.LineKey, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return model.LineKey{}, fmt.Errorf("expected body:angle, got %q", s)
	}
	body, err := parseBody(parts[0])
	if err != nil {
		return model.LineKey{}, err
	}
	angle, err := parseAngle(parts[1])
	if err != nil {
		return model.LineKey{}, err
	}
	return model.LineKey{Body: body, Angle: angle}, nil
}

// JSON shapes for the world-map output. Line keys are structs, so the map
// is flattened into a sorted list for stable output.
type worldMapOutput struct {
	ID         string                   `json:"id"`
	JulianDate float64                  `json:"julian_date"`
	Lines      []lineOutput             `json:"lines"`
	Errors     map[string]string        `json:"errors,omitempty"`
	Estimate   core.PerformanceEstimate `json:"estimate"`
	ElapsedMs  float64                  `json:"elapsed_ms"`
	Incomplete bool                     `json:"incomplete"`
}

type lineOutput struct {
	Body       string                    `json:"body"`
	LineType   string                    `json:"line_type"`
	Method     string                    `json:"method"`
	Resolution float64                   `json:"sampling_resolution"`
	OrbKm      float64                   `json:"orb_influence_km"`
	Segments   [][]model.GeographicPoint `json:"segments"`
}

func worldMapJSON(result core.WorldMapResult) worldMapOutput {
	out := worldMapOutput{
		ID:         result.ID,
		JulianDate: result.JulianDate,
		Estimate:   result.Estimate,
		ElapsedMs:  float64(result.Elapsed.Microseconds()) / 1000,
		Incomplete: result.Incomplete,
	}

	keys := make([]model.LineKey, 0, len(result.Lines))
	for key := range result.Lines {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Body != keys[j].Body {
			return keys[i].Body < keys[j].Body
		}
		return keys[i].Angle < keys[j].Angle
	})

	for _, key := range keys {
		line := result.Lines[key]
		out.Lines = append(out.Lines, lineOutput{
			Body:       line.Body.String(),
			LineType:   line.LineType.String(),
			Method:     line.Method.String(),
			Resolution: line.SamplingResolution,
			OrbKm:      line.OrbInfluenceKm,
			Segments:   model.Segments(line.Points),
		})
	}

	if len(result.Errors) > 0 {
		out.Errors = make(map[string]string, len(result.Errors))
		for key, err := range result.Errors {
			out.Errors[fmt.Sprintf("%s:%s", key.Body, key.Angle)] = err.Error()
		}
	}
	return out
}
