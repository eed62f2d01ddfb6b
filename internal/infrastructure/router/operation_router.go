package router

import (
	"medtour-itinerary-service/internal/usecase"
	"medtour-itinerary-service/pkg/logger"
)

// OperationRouter routes repair requests to the registered operation by name
type OperationRouter struct {
	operations []usecase.RepairOperation
	logger     logger.Logger
}

// NewOperationRouter creates a new operation router
func NewOperationRouter(logger logger.Logger) *OperationRouter {
	return &OperationRouter{
		operations: make([]usecase.RepairOperation, 0),
		logger:     logger,
	}
}

// Register registers an operation
func (r *OperationRouter) Register(op usecase.RepairOperation) {
	r.operations = append(r.operations, op)
	r.logger.Info("Registered repair operation", "operation", op.Name())
}

// GetOperation returns the first operation that answers to name
func (r *OperationRouter) GetOperation(name string) usecase.RepairOperation {
	for _, op := range r.operations {
		if op.CanHandle(name) {
			return op
		}
	}
	return nil
}

// Names lists the registered operation names
func (r *OperationRouter) Names() []string {
	names := make([]string, 0, len(r.operations))
	for _, op := range r.operations {
		names = append(names, op.Name())
	}
	return names
}
