package cache

import (
	"context"
	"sync"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
)

type memoryItem struct {
	route     entity.Route
	expiresAt time.Time
}

// MemoryRouteCache is a process-local RouteCache with per-entry expiry
type MemoryRouteCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryRouteCache creates an in-memory cache. now may be nil.
func NewMemoryRouteCache(now func() time.Time) *MemoryRouteCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryRouteCache{
		items: make(map[string]memoryItem),
		now:   now,
	}
}

var _ repository.RouteCache = (*MemoryRouteCache)(nil)

// Get returns a copy of the cached route
func (c *MemoryRouteCache) Get(_ context.Context, key string) (*entity.Route, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !c.now().Before(item.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.items[key]; ok && cur.expiresAt.Equal(item.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, nil
	}
	return copyRoute(item.route), nil
}

// Put stores a copy of route until ttl elapses
func (c *MemoryRouteCache) Put(_ context.Context, key string, route *entity.Route, ttl time.Duration) error {
	if route == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryItem{
		route:     *copyRoute(*route),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryRouteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func copyRoute(r entity.Route) *entity.Route {
	r.ConnectionCities = append([]string(nil), r.ConnectionCities...)
	r.CandidateFlightNumbers = append([]string(nil), r.CandidateFlightNumbers...)
	r.CandidateAirlines = append([]string(nil), r.CandidateAirlines...)
	return &r
}
