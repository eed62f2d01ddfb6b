package repository

import (
	"context"

	"medtour-itinerary-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormUnitOfWork runs a repair batch inside one database transaction
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new unit of work
func NewGormUnitOfWork(db *gorm.DB) repository.UnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do commits when fn returns nil and rolls back otherwise
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(repository.ItineraryRepository, repository.OrderRepository) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormItineraryRepository(tx), NewGormOrderRepository(tx))
	})
}
