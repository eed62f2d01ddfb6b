package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	"medtour-itinerary-service/pkg/logger"
	"medtour-itinerary-service/pkg/metrics"
	"medtour-itinerary-service/pkg/utils"
)

// Resolution tiers, also used as the Route.Source value and the metrics label
const (
	TierCache    = "cache"
	TierTable    = "table"
	TierSearch   = "search"
	TierEstimate = "estimate"
)

const (
	DefaultRouteTTL        = 24 * time.Hour
	defaultSearchMaxResult = 5
)

// RouteResolverOptions tunes a RouteResolver
type RouteResolverOptions struct {
	TTL        time.Duration
	MaxResults int
	Clock      Clock
}

// RouteResolver resolves a city pair into route metadata through the
// cache -> curated table -> external search -> distance estimate chain. It never fails.
type RouteResolver struct {
	cache      repository.RouteCache
	search     repository.RouteSearchRepository
	cities     *CityDirectory
	parser     *utils.RouteSearchParser
	metrics    *metrics.Metrics
	logger     logger.Logger
	ttl        time.Duration
	maxResults int
	now        Clock
}

// NewRouteResolver creates a new route resolver. search may be nil, in which case the
// external tier is skipped.
func NewRouteResolver(
	cache repository.RouteCache,
	search repository.RouteSearchRepository,
	cities *CityDirectory,
	metrics *metrics.Metrics,
	logger logger.Logger,
	opts RouteResolverOptions,
) *RouteResolver {
	if opts.TTL <= 0 {
		opts.TTL = DefaultRouteTTL
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultSearchMaxResult
	}
	if opts.Clock == nil {
		opts.Clock = systemClock
	}
	return &RouteResolver{
		cache:      cache,
		search:     search,
		cities:     cities,
		parser:     utils.NewRouteSearchParser(),
		metrics:    metrics,
		logger:     logger,
		ttl:        opts.TTL,
		maxResults: opts.MaxResults,
		now:        opts.Clock,
	}
}

// CacheKey returns the cache key of an ordered city pair
func (r *RouteResolver) CacheKey(ctx context.Context, origin, destination string) string {
	return fmt.Sprintf("route:%s:%s", r.cities.Code(ctx, origin), r.cities.Code(ctx, destination))
}

// Resolve returns a best-effort Route for the ordered pair. Callers must ask for the exact
// direction they intend to fly.
func (r *RouteResolver) Resolve(ctx context.Context, origin, destination string) *entity.Route {
	from := r.cities.Canonical(ctx, origin)
	to := r.cities.Canonical(ctx, destination)
	key := r.CacheKey(ctx, origin, destination)

	if cached := r.fromCache(ctx, key); cached != nil {
		r.observe(TierCache, from, to)
		return cached
	}

	route := r.fromTable(from, to)
	if route == nil {
		route = r.fromSearch(ctx, from, to)
	}
	if route == nil {
		route = r.estimate(from, to)
	}

	route.ResolvedAt = r.now()
	r.observe(route.Source, from, to)

	if r.cache != nil {
		if err := r.cache.Put(ctx, key, route, r.ttl); err != nil {
			r.logger.Warn("Failed to cache route", "key", key, "error", err)
		}
	}
	return route
}

func (r *RouteResolver) observe(tier, origin, destination string) {
	r.metrics.ObserveResolution(tier)
	r.logger.Debug("Route resolved", "tier", tier, "origin", origin, "destination", destination)
}

func (r *RouteResolver) fromCache(ctx context.Context, key string) *entity.Route {
	if r.cache == nil {
		return nil
	}
	route, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("Route cache read failed", "key", key, "error", err)
		return nil
	}
	if route == nil {
		return nil
	}
	if r.now().Sub(route.ResolvedAt) > r.ttl {
		r.logger.Debug("Cached route is stale", "key", key, "resolvedAt", route.ResolvedAt)
		return nil
	}
	return route
}

func (r *RouteResolver) fromTable(origin, destination string) *entity.Route {
	known, ok := curatedRoutes[pairKey(origin, destination)]
	if !ok {
		return nil
	}
	return &entity.Route{
		Origin:                   origin,
		Destination:              destination,
		IsDirect:                 known.IsDirect,
		ConnectionCities:         append([]string(nil), known.Connections...),
		EstimatedDurationMinutes: known.Duration,
		CandidateFlightNumbers:   append([]string(nil), known.FlightNumbers...),
		CandidateAirlines:        append([]string(nil), known.Airlines...),
		MinPrice:                 known.MinPrice,
		MaxPrice:                 known.MaxPrice,
		TypicalPrice:             known.TypicalPrice,
		Source:                   TierTable,
	}
}

// fromSearch returns nil when the lookup fails or yields no numeric signal
func (r *RouteResolver) fromSearch(ctx context.Context, origin, destination string) *entity.Route {
	if r.search == nil {
		return nil
	}

	query := fmt.Sprintf("flights from %s to %s direct or connecting flight duration price airline", origin, destination)
	results, err := r.search.WebSearch(ctx, query, r.maxResults, true)
	if err != nil {
		r.metrics.ObserveExternalFailure()
		r.logger.Warn("External route lookup failed", "origin", origin, "destination", destination, "error", err)
		return nil
	}

	signals := r.parser.Parse(results)
	if !signals.HasNumericSignal() {
		r.metrics.ObserveExternalFailure()
		r.logger.Info("External route lookup found nothing usable",
			"origin", origin,
			"destination", destination,
			"results", len(results))
		return nil
	}

	duration := signals.DurationMinutes
	if duration == 0 {
		duration = estimatedMinutes(origin, destination)
	}

	route := &entity.Route{
		Origin:                   origin,
		Destination:              destination,
		IsDirect:                 signals.IsDirect(),
		EstimatedDurationMinutes: duration,
		CandidateFlightNumbers:   signals.FlightNumbers,
		CandidateAirlines:        signals.Airlines,
		Source:                   TierSearch,
	}
	if !route.IsDirect && signals.ConnectionCity != "" {
		route.ConnectionCities = []string{signals.ConnectionCity}
	}
	if len(signals.Prices) > 0 {
		route.MinPrice, route.MaxPrice, route.TypicalPrice = signals.PriceBand()
		route.TypicalPrice = roundPrice(route.TypicalPrice)
	} else {
		route.MinPrice, route.MaxPrice, route.TypicalPrice = priceBand(duration)
	}
	return route
}

func (r *RouteResolver) estimate(origin, destination string) *entity.Route {
	duration := estimatedMinutes(origin, destination)
	known, ok := lookupDuration(origin, destination)
	route := &entity.Route{
		Origin:                   origin,
		Destination:              destination,
		IsDirect:                 ok && known.Nonstop,
		EstimatedDurationMinutes: duration,
		Source:                   TierEstimate,
	}
	route.MinPrice, route.MaxPrice, route.TypicalPrice = priceBand(duration)
	return route
}

func estimatedMinutes(origin, destination string) int {
	if d, ok := lookupDuration(origin, destination); ok {
		return d.Minutes
	}
	return defaultEstimateMinutes
}

// priceBand is the linear price model used when no price was observed
func priceBand(durationMinutes int) (min, max, typical float64) {
	d := float64(durationMinutes)
	return d * 2, d * 5, d * 3.5
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}
