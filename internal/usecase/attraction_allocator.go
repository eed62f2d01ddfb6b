package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	"medtour-itinerary-service/pkg/logger"
)

// AllocationResult lists the attraction entries created for an order
type AllocationResult struct {
	OrderID     string                   `json:"orderId"`
	Attractions []*entity.ItineraryEntry `json:"attractions"`
	Summary     string                   `json:"summary"`
	Skipped     bool                     `json:"skipped"`
}

// AttractionAllocator creates default sightseeing entries for orders that paid a ticket fee
// but have none
type AttractionAllocator struct {
	orderRepo     repository.OrderRepository
	itineraryRepo repository.ItineraryRepository
	uow           repository.UnitOfWork
	logger        logger.Logger
	now           Clock
}

// NewAttractionAllocator creates a new attraction allocator
func NewAttractionAllocator(
	orderRepo repository.OrderRepository,
	itineraryRepo repository.ItineraryRepository,
	uow repository.UnitOfWork,
	logger logger.Logger,
	clock Clock,
) *AttractionAllocator {
	if clock == nil {
		clock = systemClock
	}
	return &AttractionAllocator{
		orderRepo:     orderRepo,
		itineraryRepo: itineraryRepo,
		uow:           uow,
		logger:        logger,
		now:           clock,
	}
}

// Allocate places the city's default attractions inside the trip window
func (a *AttractionAllocator) Allocate(ctx context.Context, orderID string) (*AllocationResult, error) {
	order, err := a.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.TicketFee <= 0 {
		return &AllocationResult{OrderID: orderID, Skipped: true, Summary: "order has no sightseeing fee"}, nil
	}

	entries, err := a.itineraryRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itinerary entries: %w", err)
	}
	if existing := attractionsOf(entries); len(existing) > 0 {
		return &AllocationResult{
			OrderID: orderID,
			Skipped: true,
			Summary: fmt.Sprintf("order already has %d attraction entries", len(existing)),
		}, nil
	}

	anchors, err := resolveAnchors(entries)
	if err != nil {
		return nil, err
	}

	var medicalEnd *time.Time
	if medical := firstOf(entries, (*entity.ItineraryEntry).IsMedical); medical != nil && !medical.EndDate.IsZero() {
		medicalEnd = timePtr(medical.EndDate)
	}

	city := a.stayCity(entries, anchors)
	templates := defaultAttractions(city)
	slots, err := planAttractionSlots(len(templates), anchors.Arrival, anchors.Depart, medicalEnd)
	if err != nil {
		a.logger.Warn("No slot for attractions", "orderID", orderID, "error", err)
		return nil, err
	}

	now := a.now()
	price := math.Round(order.TicketFee/float64(len(slots))*100) / 100
	created := make([]*entity.ItineraryEntry, 0, len(slots))
	for i, start := range slots {
		t := templates[i]
		created = append(created, &entity.ItineraryEntry{
			ID:              uuid.NewString(),
			OrderID:         orderID,
			Type:            entity.EntryTypeTicket,
			Name:            t.Name,
			Description:     t.Description,
			StartDate:       start,
			EndDate:         start.Add(attractionDuration),
			Location:        city,
			Price:           price,
			DurationMinutes: int(attractionDuration / time.Minute),
			Metadata:        entity.EntryMetadata{AttractionType: t.Type},
			Status:          entity.EntryStatusScheduled,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	err = a.uow.Do(ctx, func(itineraries repository.ItineraryRepository, _ repository.OrderRepository) error {
		for _, e := range created {
			if _, err := itineraries.Insert(ctx, e); err != nil {
				return fmt.Errorf("failed to insert attraction entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("Attractions allocated", "orderID", orderID, "city", city, "count", len(created))
	return &AllocationResult{
		OrderID:     orderID,
		Attractions: created,
		Summary:     fmt.Sprintf("created %d of %d default attractions for %s", len(created), len(templates), city),
	}, nil
}

// stayCity is the hotel's location, or the outbound destination when there is no hotel
func (a *AttractionAllocator) stayCity(entries []*entity.ItineraryEntry, anchors *tripAnchors) string {
	if hotel := firstOf(entries, (*entity.ItineraryEntry).IsHotel); hotel != nil && hotel.Location != "" {
		return hotel.Location
	}
	if _, destination, err := entryRoute(anchors.Outbound[len(anchors.Outbound)-1]); err == nil {
		return destination
	}
	return ""
}
