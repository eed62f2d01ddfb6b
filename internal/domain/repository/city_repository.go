package repository

import (
	"context"

	"medtour-itinerary-service/internal/domain/entity"
)

// CityRepository defines the interface for city directory lookups
type CityRepository interface {
	// GetByName returns nil, nil when the city is not in the directory
	GetByName(ctx context.Context, name string) (*entity.City, error)
	GetByAirportCode(ctx context.Context, code string) (*entity.City, error)
}
