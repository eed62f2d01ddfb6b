package usecase

import (
	"context"
	"fmt"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	apperrors "medtour-itinerary-service/pkg/errors"
	"medtour-itinerary-service/pkg/logger"
	"medtour-itinerary-service/pkg/utils"
)

// Direction correction outcomes
const (
	ReasonDirectionFixed = "direction_inverted_fixed"
	ReasonAlreadyCorrect = "already_correct"
	ReasonRouteMismatch  = "route_mismatch"
	ReasonUnparseable    = "location_unparseable"
)

// DirectionCorrection reports what the corrector found and, when it rebuilt the pair, the
// old and new flight entries
type DirectionCorrection struct {
	OrderID     string                 `json:"orderId"`
	Corrected   bool                   `json:"corrected"`
	Reason      string                 `json:"reason"`
	OldOutbound *entity.ItineraryEntry `json:"oldOutbound,omitempty"`
	OldReturn   *entity.ItineraryEntry `json:"oldReturn,omitempty"`
	NewOutbound *entity.ItineraryEntry `json:"newOutbound,omitempty"`
	NewReturn   *entity.ItineraryEntry `json:"newReturn,omitempty"`
}

// DirectionCorrector detects an outbound/return pair flown the wrong way round and rebuilds both legs
type DirectionCorrector struct {
	orderRepo     repository.OrderRepository
	itineraryRepo repository.ItineraryRepository
	uow           repository.UnitOfWork
	resolver      *RouteResolver
	builder       *SegmentBuilder
	cities        *CityDirectory
	logger        logger.Logger
	now           Clock
}

// NewDirectionCorrector creates a new direction corrector
func NewDirectionCorrector(
	orderRepo repository.OrderRepository,
	itineraryRepo repository.ItineraryRepository,
	uow repository.UnitOfWork,
	resolver *RouteResolver,
	builder *SegmentBuilder,
	cities *CityDirectory,
	logger logger.Logger,
	clock Clock,
) *DirectionCorrector {
	if clock == nil {
		clock = systemClock
	}
	return &DirectionCorrector{
		orderRepo:     orderRepo,
		itineraryRepo: itineraryRepo,
		uow:           uow,
		resolver:      resolver,
		builder:       builder,
		cities:        cities,
		logger:        logger,
		now:           clock,
	}
}

// Correct checks the order's flight pair and rebuilds it when the direction is inverted.
// Running it again on a corrected order is a no-op.
func (c *DirectionCorrector) Correct(ctx context.Context, orderID string) (*DirectionCorrection, error) {
	if _, err := c.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	entries, err := c.itineraryRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itinerary entries: %w", err)
	}

	outbound, ret, err := pairFlights(flightsOf(entries))
	if err != nil {
		return nil, err
	}
	result := &DirectionCorrection{OrderID: orderID, OldOutbound: outbound, OldReturn: ret}

	outOrigin, outDest, err := entryRoute(outbound)
	if err != nil {
		c.logger.Warn("Outbound flight location cannot be parsed", "orderID", orderID, "entryID", outbound.ID, "error", err)
		result.Reason = ReasonUnparseable
		return result, nil
	}
	retOrigin, retDest, err := entryRoute(ret)
	if err != nil {
		c.logger.Warn("Return flight location cannot be parsed", "orderID", orderID, "entryID", ret.ID, "error", err)
		result.Reason = ReasonUnparseable
		return result, nil
	}

	if !utils.SameCity(outOrigin, retDest) || !utils.SameCity(outDest, retOrigin) {
		c.logger.Info("Flight pair is not a mirrored route, leaving untouched",
			"orderID", orderID,
			"outbound", outbound.Location,
			"return", ret.Location)
		result.Reason = ReasonRouteMismatch
		return result, nil
	}

	outboundToChina := c.cities.IsChinaCity(ctx, outDest)
	returnToChina := c.cities.IsChinaCity(ctx, retDest)
	switch {
	case outboundToChina && !returnToChina:
		result.Reason = ReasonAlreadyCorrect
		return result, nil
	case outboundToChina == returnToChina:
		return nil, apperrors.NewUndecidableDirectionError("cannot determine flight direction").
			WithDetail("outboundDestination", outDest).
			WithDetail("returnDestination", retDest)
	}

	if outbound.StartDate.IsZero() || ret.StartDate.IsZero() {
		return nil, apperrors.NewMissingAnchorError("flight departure date is missing", 2, expectedFlightCount)
	}

	// the return leg currently holds the intended outbound route
	origin, destination := retOrigin, retDest
	c.logger.Info("Flight direction is inverted, rebuilding both legs",
		"orderID", orderID,
		"origin", origin,
		"destination", destination)

	now := c.now()
	outRoute := c.resolver.Resolve(ctx, origin, destination)
	retRoute := c.resolver.Resolve(ctx, destination, origin)
	outDetails := c.builder.BuildFromRoute(ctx, outRoute, outbound.StartDate, orderID, legOutbound)
	retDetails := c.builder.BuildFromRoute(ctx, retRoute, ret.StartDate, orderID, legReturn)

	newOutbound := newFlightEntry(orderID, entity.TripDirectionOutbound, outDetails, outRoute.Origin, outRoute.Destination, outbound.Status, now)
	newReturn := newFlightEntry(orderID, entity.TripDirectionReturn, retDetails, retRoute.Origin, retRoute.Destination, ret.Status, now)

	err = c.uow.Do(ctx, func(itineraries repository.ItineraryRepository, _ repository.OrderRepository) error {
		for _, old := range []*entity.ItineraryEntry{outbound, ret} {
			if err := itineraries.Delete(ctx, old.ID); err != nil {
				return fmt.Errorf("failed to delete flight entry %s: %w", old.ID, err)
			}
		}
		for _, e := range []*entity.ItineraryEntry{newOutbound, newReturn} {
			if _, err := itineraries.Insert(ctx, e); err != nil {
				return fmt.Errorf("failed to insert flight entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Corrected = true
	result.Reason = ReasonDirectionFixed
	result.NewOutbound = newOutbound
	result.NewReturn = newReturn
	c.logger.Info("Flight direction corrected",
		"orderID", orderID,
		"newOutbound", newOutbound.Location,
		"newReturn", newReturn.Location)
	return result, nil
}
