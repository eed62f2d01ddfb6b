package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	apperrors "medtour-itinerary-service/pkg/errors"

	"gorm.io/gorm"
)

// GormOrderRepository implements the OrderRepository interface
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &GormOrderRepository{
		db: db,
	}
}

// Orders GORM model for database mapping. The booking flow owns the table; only the
// columns read here are mapped.
type Orders struct {
	ID                    string     `gorm:"primaryKey;column:id"`
	UserID                string     `gorm:"column:user_id"`
	Status                string     `gorm:"column:status"`
	DoctorAppointmentDate *time.Time `gorm:"column:doctor_appointment_date"`
	TicketFee             float64    `gorm:"column:ticket_fee"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName overrides the default table name
func (Orders) TableName() string {
	return "orders"
}

// GetByID finds an order by id
func (r *GormOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var order Orders
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&order)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get order: %w", result.Error)
	}
	return toOrderEntity(order), nil
}

// Update writes the appointment date of an order
func (r *GormOrderRepository) Update(ctx context.Context, id string, patch entity.OrderPatch) (*entity.Order, error) {
	if patch.DoctorAppointmentDate != nil {
		result := r.db.WithContext(ctx).Model(&Orders{}).Where("id = ?", id).Updates(map[string]interface{}{
			"doctor_appointment_date": patch.DoctorAppointmentDate.UTC(),
			"updated_at":              time.Now().UTC(),
		})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
		}
	}
	return r.GetByID(ctx, id)
}

func toOrderEntity(o Orders) *entity.Order {
	order := &entity.Order{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    o.Status,
		TicketFee: o.TicketFee,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.DoctorAppointmentDate != nil {
		t := o.DoctorAppointmentDate.UTC()
		order.DoctorAppointmentDate = &t
	}
	return order
}
