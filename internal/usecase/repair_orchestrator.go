package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	apperrors "medtour-itinerary-service/pkg/errors"
	"medtour-itinerary-service/pkg/logger"
	"medtour-itinerary-service/pkg/metrics"
)

const defaultHistoryLimit = 50

// RepairOrchestrator runs a named repair over a batch of orders and records one audit entry
// per order
type RepairOrchestrator struct {
	router  OperationRouter
	logRepo repository.RepairLogRepository
	metrics *metrics.Metrics
	logger  logger.Logger
	now     Clock
}

// NewRepairOrchestrator creates a new repair orchestrator. logRepo may be nil.
func NewRepairOrchestrator(
	router OperationRouter,
	logRepo repository.RepairLogRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
	clock Clock,
) *RepairOrchestrator {
	if clock == nil {
		clock = systemClock
	}
	return &RepairOrchestrator{
		router:  router,
		logRepo: logRepo,
		metrics: metrics,
		logger:  logger,
		now:     clock,
	}
}

// Run applies the operation to every order. A failing order is recorded and the batch
// continues.
func (o *RepairOrchestrator) Run(ctx context.Context, operation string, orderIDs []string) ([]*entity.RepairRun, error) {
	op := o.router.GetOperation(operation)
	if op == nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown repair operation %q", operation)).
			WithDetail("operations", o.router.Names())
	}
	if len(orderIDs) == 0 {
		return nil, apperrors.NewValidationError("no order ids given")
	}

	runs := make([]*entity.RepairRun, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		if err := ctx.Err(); err != nil {
			return runs, err
		}
		runs = append(runs, o.RunOne(ctx, op, orderID))
	}
	return runs, nil
}

// RunOne applies one operation to one order and records the outcome
func (o *RepairOrchestrator) RunOne(ctx context.Context, op RepairOperation, orderID string) *entity.RepairRun {
	run := &entity.RepairRun{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Operation: op.Name(),
		StartedAt: o.now(),
	}

	o.logger.Info("Running repair", "orderID", orderID, "operation", op.Name())
	result, skipped, err := op.Run(ctx, orderID)
	run.FinishedAt = o.now()

	switch {
	case err != nil && apperrors.IsType(err, apperrors.ErrorTypeUndecidableDirection):
		run.Status = entity.RepairStatusSkipped
		run.Error = err.Error()
	case err != nil:
		run.Status = entity.RepairStatusFailed
		run.Error = err.Error()
		o.logger.Error("Repair failed", "orderID", orderID, "operation", op.Name(), "error", err)
	case skipped:
		run.Status = entity.RepairStatusSkipped
	default:
		run.Status = entity.RepairStatusCompleted
	}
	if appErr, ok := apperrors.As(err); ok && len(appErr.Details) > 0 {
		run.Detail = map[string]interface{}{"errorType": string(appErr.Type), "details": appErr.Details}
	}
	if result != nil {
		run.Detail = map[string]interface{}{"result": result}
	}

	o.metrics.ObserveRepair(op.Name(), run.Status, run.FinishedAt.Sub(run.StartedAt))
	o.record(ctx, run)
	return run
}

func (o *RepairOrchestrator) record(ctx context.Context, run *entity.RepairRun) {
	if o.logRepo == nil {
		return
	}
	// the audit write must not be lost to a cancelled request
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := o.logRepo.Save(saveCtx, run); err != nil {
		o.logger.Error("Failed to record repair run", "orderID", run.OrderID, "operation", run.Operation, "error", err)
	}
}

// History returns the most recent repair runs of an order
func (o *RepairOrchestrator) History(ctx context.Context, orderID string, limit int) ([]*entity.RepairRun, error) {
	if o.logRepo == nil {
		return []*entity.RepairRun{}, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	runs, err := o.logRepo.FindByOrder(ctx, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load repair history: %w", err)
	}
	return runs, nil
}
