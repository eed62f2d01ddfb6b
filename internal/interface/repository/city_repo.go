package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormCityRepository implements the CityRepository interface
type GormCityRepository struct {
	db *gorm.DB
}

// NewGormCityRepository creates a new GORM city repository
func NewGormCityRepository(db *gorm.DB) repository.CityRepository {
	return &GormCityRepository{
		db: db,
	}
}

// Cities GORM model for database mapping
type Cities struct {
	ID          uint           `gorm:"primaryKey"`
	Name        string         `gorm:"column:name;index"`
	AirportCode string         `gorm:"column:airportcode;index"`
	Country     string         `gorm:"column:country"`
	TzName      string         `gorm:"column:tzname"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (Cities) TableName() string {
	return "m_cities"
}

// GetByName finds a city by name, ignoring case
func (r *GormCityRepository) GetByName(ctx context.Context, name string) (*entity.City, error) {
	return r.first(ctx, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
}

// GetByAirportCode finds a city by its airport code
func (r *GormCityRepository) GetByAirportCode(ctx context.Context, code string) (*entity.City, error) {
	return r.first(ctx, "airportcode = ?", strings.ToUpper(strings.TrimSpace(code)))
}

func (r *GormCityRepository) first(ctx context.Context, query string, arg string) (*entity.City, error) {
	var city Cities
	result := r.db.WithContext(ctx).Where(query, arg).First(&city)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get city %s: %w", arg, result.Error)
	}

	return &entity.City{
		ID:          city.ID,
		Name:        city.Name,
		AirportCode: city.AirportCode,
		Country:     city.Country,
		TzName:      city.TzName,
		CreatedAt:   city.CreatedAt,
		UpdatedAt:   city.UpdatedAt,
	}, nil
}
