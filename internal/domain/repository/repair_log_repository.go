package repository

import (
	"context"

	"medtour-itinerary-service/internal/domain/entity"
)

// RepairLogRepository defines the interface for the repair audit log
type RepairLogRepository interface {
	Save(ctx context.Context, run *entity.RepairRun) error
	FindByOrder(ctx context.Context, orderID string, limit int) ([]*entity.RepairRun, error)
}
