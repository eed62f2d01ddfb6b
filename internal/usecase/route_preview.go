package usecase

import (
	"context"
	"strings"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	apperrors "medtour-itinerary-service/pkg/errors"
)

// RoutePreview is a resolved route with the journey SegmentBuilder would produce for it
type RoutePreview struct {
	Route   *entity.Route         `json:"route"`
	Details *entity.FlightDetails `json:"flightDetails"`
}

// RoutePreviewer regenerates flight details for an ad-hoc city pair without touching any order
type RoutePreviewer struct {
	resolver *RouteResolver
	builder  *SegmentBuilder
	now      Clock
}

// NewRoutePreviewer creates a new route previewer
func NewRoutePreviewer(resolver *RouteResolver, builder *SegmentBuilder, clock Clock) *RoutePreviewer {
	if clock == nil {
		clock = systemClock
	}
	return &RoutePreviewer{resolver: resolver, builder: builder, now: clock}
}

// Preview resolves origin to destination and builds a journey departing at departure. A zero
// departure means tomorrow at 10:00 UTC. seed keys the synthetic flight numbers and layover.
func (p *RoutePreviewer) Preview(ctx context.Context, origin, destination string, departure time.Time, seed string) (*RoutePreview, error) {
	origin, destination = strings.TrimSpace(origin), strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return nil, apperrors.NewValidationError("origin and destination are required")
	}
	if departure.IsZero() {
		departure = atClock(p.now().AddDate(0, 0, 1), 10, 0)
	}
	if seed == "" {
		seed = "preview"
	}

	route := p.resolver.Resolve(ctx, origin, destination)
	return &RoutePreview{
		Route:   route,
		Details: p.builder.BuildFromRoute(ctx, route, departure, seed, legOutbound),
	}, nil
}
