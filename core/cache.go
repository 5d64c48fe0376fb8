package core

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/signalsfoundry/astromap/model"
)

// positionCache memoizes ephemeris positions per (body, method). Entries are
// written once and never updated; reads of a populated key are lock-cheap
// and race-free. First computations for one key are serialized through a
// singleflight group so concurrent line workers cannot trigger duplicate
// ephemeris calls for the same body.
type positionCache struct {
	mu      sync.RWMutex
	entries map[positionKey]model.PlanetaryPosition
	group   singleflight.Group

	hits   func()
	misses func()
}

type positionKey struct {
	body   model.Body
	method model.Method
}

func (k positionKey) String() string {
	return fmt.Sprintf("%s/%s", k.body, k.method)
}

func newPositionCache(hits, misses func()) *positionCache {
	return &positionCache{
		entries: make(map[positionKey]model.PlanetaryPosition),
		hits:    hits,
		misses:  misses,
	}
}

func (c *positionCache) position(ctx context.Context, eph EphemerisPort, jd float64, body model.Body, method model.Method) (model.PlanetaryPosition, error) {
	key := positionKey{body: body, method: method}

	c.mu.RLock()
	pos, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		if c.hits != nil {
			c.hits()
		}
		return pos, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		c.mu.RLock()
		pos, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return pos, nil
		}
		if c.misses != nil {
			c.misses()
		}
		pos, err := eph.Position(ctx, jd, body, method)
		if err != nil {
			return model.PlanetaryPosition{}, err
		}
		c.mu.Lock()
		c.entries[key] = pos
		c.mu.Unlock()
		return pos, nil
	})
	if err != nil {
		return model.PlanetaryPosition{}, err
	}
	return v.(model.PlanetaryPosition), nil
}
