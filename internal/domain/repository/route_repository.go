package repository

import (
	"context"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
)

// RouteCache stores resolved routes with an expiry
type RouteCache interface {
	// Get returns nil, nil on a miss or an expired entry
	Get(ctx context.Context, key string) (*entity.Route, error)
	Put(ctx context.Context, key string, route *entity.Route, ttl time.Duration) error
}

// RouteSearchRepository is the best-effort external route lookup
type RouteSearchRepository interface {
	WebSearch(ctx context.Context, query string, maxResults int, detailed bool) ([]entity.SearchResult, error)
}
