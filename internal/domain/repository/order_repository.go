package repository

import (
	"context"

	"medtour-itinerary-service/internal/domain/entity"
)

// OrderRepository defines the interface for the order operations the itinerary core needs
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Update(ctx context.Context, id string, patch entity.OrderPatch) (*entity.Order, error)
}
