package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/signalsfoundry/astromap/internal/logging"
	"github.com/signalsfoundry/astromap/model"
)

// WorldMapRequest asks for a batch of planetary lines covering a geographic
// window.
type WorldMapRequest struct {
	Bodies         []model.Body
	LineTypes      []model.Angle
	LatitudeRange  model.LatitudeRange
	LongitudeRange model.LongitudeRange
	// TargetSeconds is the pre-flight budget; zero means the default.
	TargetSeconds float64
	// SimplifyEpsilon, when positive, runs line simplification on every
	// generated line before it is returned.
	SimplifyEpsilon float64
}

// WorldMapResult carries the lines a world-map request produced. Failed
// lines land in Errors keyed the same way; a request only fails as a whole
// on invalid input or a blown budget.
type WorldMapResult struct {
	ID         string
	JulianDate float64
	Lines      map[model.LineKey]model.PlanetaryLine
	Errors     map[model.LineKey]error
	Estimate   PerformanceEstimate
	Elapsed    time.Duration
	// Incomplete marks a cancelled request whose Lines hold only what
	// finished before the cutoff.
	Incomplete bool
}

// WorldMap computes the requested lines in parallel. Bodies are independent
// and share only the additive position cache, so each (body, angle-pair)
// task runs on its own goroutine under the configured worker limit.
// Cancellation stops scheduling new tasks and the partial result is
// returned marked incomplete alongside ErrIncomplete.
func (c *Calculator) WorldMap(ctx context.Context, req WorldMapRequest) (WorldMapResult, error) {
	if len(req.Bodies) == 0 {
		return WorldMapResult{}, fmt.Errorf("%w: no bodies requested", ErrInvalidInput)
	}
	for _, b := range req.Bodies {
		if err := c.validBody(b); err != nil {
			return WorldMapResult{}, err
		}
	}
	if err := req.LatitudeRange.Validate(); err != nil {
		return WorldMapResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := req.LongitudeRange.Validate(); err != nil {
		return WorldMapResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	estimate, err := c.ValidatePerformance(len(req.Bodies), req.LineTypes, req.TargetSeconds)
	if err != nil {
		return WorldMapResult{Estimate: estimate}, err
	}

	ctx, log := logging.WithCalculationLogger(ctx, c.log)
	start := time.Now()
	result := WorldMapResult{
		ID:         uuid.NewString(),
		JulianDate: c.jd,
		Lines:      make(map[model.LineKey]model.PlanetaryLine),
		Errors:     make(map[model.LineKey]error),
		Estimate:   estimate,
	}

	wantMeridian := containsAngle(req.LineTypes, model.AngleMC) || containsAngle(req.LineTypes, model.AngleIC)
	wantHorizon := containsAngle(req.LineTypes, model.AngleASC) || containsAngle(req.LineTypes, model.AngleDESC)

	var mu sync.Mutex
	store := func(key model.LineKey, line model.PlanetaryLine, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			result.Errors[key] = err
			return
		}
		if req.SimplifyEpsilon > 0 {
			line.Points = Simplify(line.Points, req.SimplifyEpsilon)
		}
		result.Lines[key] = line
	}

	g, gctx := errgroup.WithContext(ctx)
	if c.cfg.Workers > 0 {
		g.SetLimit(c.cfg.Workers)
	}

	for _, body := range req.Bodies {
		body := body
		if wantMeridian {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				mc, ic, err := c.MCICLines(gctx, body, req.LatitudeRange)
				if containsAngle(req.LineTypes, model.AngleMC) {
					store(model.LineKey{Body: body, Angle: model.AngleMC}, mc, err)
				}
				if containsAngle(req.LineTypes, model.AngleIC) {
					store(model.LineKey{Body: body, Angle: model.AngleIC}, ic, err)
				}
				return nil
			})
		}
		if wantHorizon {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				asc, desc, err := c.AscendantDescendantLines(gctx, body, req.LongitudeRange, req.LatitudeRange)
				if containsAngle(req.LineTypes, model.AngleASC) {
					store(model.LineKey{Body: body, Angle: model.AngleASC}, asc, err)
				}
				if containsAngle(req.LineTypes, model.AngleDESC) {
					store(model.LineKey{Body: body, Angle: model.AngleDESC}, desc, err)
				}
				return nil
			})
		}
	}

	waitErr := g.Wait()
	result.Elapsed = time.Since(start)

	if waitErr != nil || ctx.Err() != nil {
		result.Incomplete = true
		log.Warn(ctx, "world map cancelled",
			logging.String("id", result.ID),
			logging.Int("lines_done", len(result.Lines)))
		return result, fmt.Errorf("%w: world map cancelled after %d lines", ErrIncomplete, len(result.Lines))
	}

	log.Info(ctx, "world map complete",
		logging.String("id", result.ID),
		logging.Int("lines", len(result.Lines)),
		logging.Int("failed", len(result.Errors)))
	return result, nil
}

func containsAngle(angles []model.Angle, a model.Angle) bool {
	for _, x := range angles {
		if x == a {
			return true
		}
	}
	return false
}
