package repository

import (
	"context"

	"medtour-itinerary-service/internal/domain/entity"
)

// ItineraryRepository defines the interface for itinerary entry operations
type ItineraryRepository interface {
	ListByOrder(ctx context.Context, orderID string) ([]*entity.ItineraryEntry, error)
	Insert(ctx context.Context, entry *entity.ItineraryEntry) (*entity.ItineraryEntry, error)
	Update(ctx context.Context, id string, patch entity.EntryPatch) (*entity.ItineraryEntry, error)
	Delete(ctx context.Context, id string) error
}

// UnitOfWork runs fn with repositories bound to one transaction. If fn returns an error
// nothing fn wrote is kept.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(itineraries ItineraryRepository, orders OrderRepository) error) error
}
