package usecase

import (
	"context"
	"fmt"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	"medtour-itinerary-service/pkg/logger"
)

// Fix actions written to the update log
const (
	FixActionRebuilt      = "rebuilt"
	FixActionUnchanged    = "unchanged"
	FixActionParseFailure = "parse_failure"
	FixActionMissingDate  = "missing_start_date"
	FixActionHotelSwapped = "hotel_dates_swapped"
)

// FlightUpdate is one line of the fix-flights update log
type FlightUpdate struct {
	EntryID string `json:"entryId"`
	Action  string `json:"action"`
	Message string `json:"message"`
}

// FixFlightsResult is the outcome of one fix-flights pass
type FixFlightsResult struct {
	OrderID      string         `json:"orderId"`
	UpdatedCount int            `json:"updatedCount"`
	UpdateLog    []FlightUpdate `json:"updateLog"`
}

// FlightFixer rebuilds flight details that are missing or disagree with the entry dates, and
// swaps hotel dates entered the wrong way round
type FlightFixer struct {
	orderRepo     repository.OrderRepository
	itineraryRepo repository.ItineraryRepository
	uow           repository.UnitOfWork
	resolver      *RouteResolver
	builder       *SegmentBuilder
	logger        logger.Logger
}

// NewFlightFixer creates a new flight fixer
func NewFlightFixer(
	orderRepo repository.OrderRepository,
	itineraryRepo repository.ItineraryRepository,
	uow repository.UnitOfWork,
	resolver *RouteResolver,
	builder *SegmentBuilder,
	logger logger.Logger,
) *FlightFixer {
	return &FlightFixer{
		orderRepo:     orderRepo,
		itineraryRepo: itineraryRepo,
		uow:           uow,
		resolver:      resolver,
		builder:       builder,
		logger:        logger,
	}
}

type pendingUpdate struct {
	id    string
	patch entity.EntryPatch
}

// Fix repairs the order's flight and hotel entries. An entry that cannot be parsed is
// logged and skipped; the rest of the batch still runs.
func (f *FlightFixer) Fix(ctx context.Context, orderID string) (*FixFlightsResult, error) {
	if _, err := f.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	entries, err := f.itineraryRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itinerary entries: %w", err)
	}

	result := &FixFlightsResult{OrderID: orderID, UpdateLog: []FlightUpdate{}}
	var updates []pendingUpdate

	flights := flightsOf(entries)
	for i, e := range flights {
		update, logLine := f.planFlight(ctx, orderID, e, i, len(flights))
		result.UpdateLog = append(result.UpdateLog, logLine)
		if update != nil {
			updates = append(updates, *update)
		}
	}

	for _, hotel := range sortedByStart(entries, (*entity.ItineraryEntry).IsHotel) {
		if !hotel.HasDates() || !hotel.StartDate.After(hotel.EndDate) {
			continue
		}
		updates = append(updates, pendingUpdate{id: hotel.ID, patch: entity.EntryPatch{
			StartDate: timePtr(hotel.EndDate),
			EndDate:   timePtr(hotel.StartDate),
		}})
		result.UpdateLog = append(result.UpdateLog, FlightUpdate{
			EntryID: hotel.ID,
			Action:  FixActionHotelSwapped,
			Message: fmt.Sprintf("check-in and check-out swapped for %q", hotel.Name),
		})
	}

	if len(updates) > 0 {
		err = f.uow.Do(ctx, func(itineraries repository.ItineraryRepository, _ repository.OrderRepository) error {
			for _, u := range updates {
				if _, err := itineraries.Update(ctx, u.id, u.patch); err != nil {
					return fmt.Errorf("failed to update entry %s: %w", u.id, err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	result.UpdatedCount = len(updates)
	f.logger.Info("Flights fixed", "orderID", orderID, "updated", result.UpdatedCount)
	return result, nil
}

// planFlight decides whether one flight needs rebuilding. The first flight is the outbound
// leg and the rest are return legs unless the entry records its direction.
func (f *FlightFixer) planFlight(ctx context.Context, orderID string, e *entity.ItineraryEntry, index, total int) (*pendingUpdate, FlightUpdate) {
	origin, destination, err := entryRoute(e)
	if err != nil {
		f.logger.Warn("Flight location cannot be parsed", "orderID", orderID, "entryID", e.ID, "error", err)
		return nil, FlightUpdate{EntryID: e.ID, Action: FixActionParseFailure, Message: err.Error()}
	}
	if flightDetailsConsistent(e) {
		return nil, FlightUpdate{EntryID: e.ID, Action: FixActionUnchanged, Message: "flight details match entry dates"}
	}
	if e.StartDate.IsZero() {
		return nil, FlightUpdate{EntryID: e.ID, Action: FixActionMissingDate, Message: "flight has no departure date to rebuild from"}
	}

	direction := e.Metadata.TripDirection
	if direction == "" {
		direction = entity.TripDirectionReturn
		if index == 0 || total == 1 {
			direction = entity.TripDirectionOutbound
		}
	}
	legIndex := legOutbound
	if direction == entity.TripDirectionReturn {
		legIndex = legReturn
	}

	route := f.resolver.Resolve(ctx, origin, destination)
	details := f.builder.BuildFromRoute(ctx, route, e.StartDate, orderID, legIndex)

	metadata := e.Metadata
	metadata.FlightDetails = details
	metadata.OriginCity = route.Origin
	metadata.DestinationCity = route.Destination
	metadata.TripDirection = direction

	patch := entity.EntryPatch{
		StartDate:       timePtr(details.Departure()),
		EndDate:         timePtr(details.Arrival()),
		DurationMinutes: intPtr(details.TotalDurationMinutes),
		Price:           floatPtr(details.TotalPriceUSD),
		Description:     stringPtr(flightDescription(details, route.Origin, route.Destination)),
		Metadata:        &metadata,
	}
	return &pendingUpdate{id: e.ID, patch: patch}, FlightUpdate{
		EntryID: e.ID,
		Action:  FixActionRebuilt,
		Message: fmt.Sprintf("rebuilt %s flight %s with %d segment(s) via %s tier",
			direction, flightDescription(details, route.Origin, route.Destination), len(details.Segments), route.Source),
	}
}
