package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/signalsfoundry/astromap/model"
)

// slowEphemeris blocks every position call until released, so concurrent
// callers pile up on the cache.
type slowEphemeris struct {
	*fakeEphemeris
	release chan struct{}
}

func (s *slowEphemeris) Position(ctx context.Context, jd float64, body model.Body, method model.Method) (model.PlanetaryPosition, error) {
	<-s.release
	return s.fakeEphemeris.Position(ctx, jd, body, method)
}

func TestPositionCacheSerializesConcurrentFirstComputation(t *testing.T) {
	eph := &slowEphemeris{fakeEphemeris: newFakeEphemeris(), release: make(chan struct{})}
	cache := newPositionCache(nil, nil)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.position(context.Background(), eph, testJD, model.Sun, model.Zodiacal)
			errs <- err
		}()
	}

	close(eph.release)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("position: %v", err)
		}
	}

	if calls := eph.positionCalls.Load(); calls != 1 {
		t.Fatalf("ephemeris called %d times under concurrency, want 1", calls)
	}
}

func TestPositionCacheSeparatesMethods(t *testing.T) {
	eph := newFakeEphemeris()
	cache := newPositionCache(nil, nil)
	ctx := context.Background()

	if _, err := cache.position(ctx, eph, testJD, model.Sun, model.Zodiacal); err != nil {
		t.Fatalf("position: %v", err)
	}
	if _, err := cache.position(ctx, eph, testJD, model.Sun, model.Mundo); err != nil {
		t.Fatalf("position: %v", err)
	}
	if calls := eph.positionCalls.Load(); calls != 2 {
		t.Fatalf("distinct methods shared a cache entry: %d calls, want 2", calls)
	}
}

func TestPositionCacheCountsHitsAndMisses(t *testing.T) {
	var hits, misses atomic.Int64
	eph := newFakeEphemeris()
	cache := newPositionCache(
		func() { hits.Add(1) },
		func() { misses.Add(1) },
	)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := cache.position(ctx, eph, testJD, model.Moon, model.Zodiacal); err != nil {
			t.Fatalf("position: %v", err)
		}
	}
	if misses.Load() != 1 {
		t.Errorf("misses = %d, want 1", misses.Load())
	}
	if hits.Load() != 3 {
		t.Errorf("hits = %d, want 3", hits.Load())
	}
}

func TestPositionCacheDoesNotCacheFailures(t *testing.T) {
	eph := newFakeEphemeris()
	eph.err = context.DeadlineExceeded
	cache := newPositionCache(nil, nil)
	ctx := context.Background()

	if _, err := cache.position(ctx, eph, testJD, model.Sun, model.Zodiacal); err == nil {
		t.Fatal("expected error")
	}

	eph.err = nil
	if _, err := cache.position(ctx, eph, testJD, model.Sun, model.Zodiacal); err != nil {
		t.Fatalf("recovered ephemeris still failing through cache: %v", err)
	}
}
