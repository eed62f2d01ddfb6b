package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	apperrors "medtour-itinerary-service/pkg/errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormItineraryRepository implements the ItineraryRepository interface
type GormItineraryRepository struct {
	db *gorm.DB
}

// NewGormItineraryRepository creates a new GORM itinerary repository
func NewGormItineraryRepository(db *gorm.DB) repository.ItineraryRepository {
	return &GormItineraryRepository{
		db: db,
	}
}

// ItineraryEntries GORM model for database mapping
type ItineraryEntries struct {
	ID              string                                   `gorm:"primaryKey;column:id"`
	OrderID         string                                   `gorm:"column:order_id;index"`
	Type            string                                   `gorm:"column:type"`
	Name            string                                   `gorm:"column:name"`
	Description     string                                   `gorm:"column:description"`
	StartDate       *time.Time                               `gorm:"column:start_date"`
	EndDate         *time.Time                               `gorm:"column:end_date"`
	Location        string                                   `gorm:"column:location"`
	Price           float64                                  `gorm:"column:price"`
	DurationMinutes int                                      `gorm:"column:duration"`
	Metadata        datatypes.JSONType[entity.EntryMetadata] `gorm:"column:metadata;type:jsonb"`
	Status          string                                   `gorm:"column:status"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the default table name
func (ItineraryEntries) TableName() string {
	return "itinerary_entries"
}

// ListByOrder returns every entry of an order in start order
func (r *GormItineraryRepository) ListByOrder(ctx context.Context, orderID string) ([]*entity.ItineraryEntry, error) {
	var rows []ItineraryEntries
	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("start_date ASC NULLS LAST").
		Order("id ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list itinerary entries: %w", result.Error)
	}

	entries := make([]*entity.ItineraryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toEntryEntity(row))
	}
	return entries, nil
}

// Insert inserts a new entry
func (r *GormItineraryRepository) Insert(ctx context.Context, entry *entity.ItineraryEntry) (*entity.ItineraryEntry, error) {
	model := toEntryModel(entry)
	if result := r.db.WithContext(ctx).Create(&model); result.Error != nil {
		return nil, fmt.Errorf("failed to insert itinerary entry: %w", result.Error)
	}
	return toEntryEntity(model), nil
}

// Update writes the non-nil fields of patch
func (r *GormItineraryRepository) Update(ctx context.Context, id string, patch entity.EntryPatch) (*entity.ItineraryEntry, error) {
	var row ItineraryEntries
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("itinerary entry %s not found", id))
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load itinerary entry: %w", result.Error)
	}
	if patch.IsEmpty() {
		return toEntryEntity(row), nil
	}

	updated := toEntryEntity(row)
	patch.Apply(updated, time.Now().UTC())
	model := toEntryModel(updated)

	result = r.db.WithContext(ctx).Model(&ItineraryEntries{ID: id}).
		Select(patchColumns(patch)).
		Updates(&model)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update itinerary entry: %w", result.Error)
	}
	return updated, nil
}

// Delete removes an entry
func (r *GormItineraryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ItineraryEntries{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete itinerary entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("itinerary entry %s not found", id))
	}
	return nil
}

// patchColumns lists the columns a patch touches so zero values are written too
func patchColumns(p entity.EntryPatch) []string {
	cols := []string{"updated_at"}
	add := func(set bool, col string) {
		if set {
			cols = append(cols, col)
		}
	}
	add(p.Name != nil, "name")
	add(p.Description != nil, "description")
	add(p.StartDate != nil, "start_date")
	add(p.EndDate != nil, "end_date")
	add(p.Location != nil, "location")
	add(p.Price != nil, "price")
	add(p.DurationMinutes != nil, "duration")
	add(p.Metadata != nil, "metadata")
	add(p.Status != nil, "status")
	return cols
}

func toEntryModel(e *entity.ItineraryEntry) ItineraryEntries {
	return ItineraryEntries{
		ID:              e.ID,
		OrderID:         e.OrderID,
		Type:            string(e.Type),
		Name:            e.Name,
		Description:     e.Description,
		StartDate:       nullableTime(e.StartDate),
		EndDate:         nullableTime(e.EndDate),
		Location:        e.Location,
		Price:           e.Price,
		DurationMinutes: e.DurationMinutes,
		Metadata:        datatypes.NewJSONType(e.Metadata),
		Status:          e.Status,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func toEntryEntity(m ItineraryEntries) *entity.ItineraryEntry {
	e := &entity.ItineraryEntry{
		ID:              m.ID,
		OrderID:         m.OrderID,
		Type:            entity.EntryType(m.Type),
		Name:            m.Name,
		Description:     m.Description,
		Location:        m.Location,
		Price:           m.Price,
		DurationMinutes: m.DurationMinutes,
		Metadata:        m.Metadata.Data(),
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.StartDate != nil {
		e.StartDate = m.StartDate.UTC()
	}
	if m.EndDate != nil {
		e.EndDate = m.EndDate.UTC()
	}
	return e
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
