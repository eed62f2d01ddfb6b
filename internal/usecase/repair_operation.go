package usecase

import (
	"context"
	"strings"
)

// Repair operation names
const (
	OperationFixFlights          = "fix-flights"
	OperationAdjustTimeline      = "adjust-timeline"
	OperationCorrectDirection    = "correct-direction"
	OperationAllocateAttractions = "allocate-attractions"
)

// RepairOperation is one named repair pass that can run against a single order
type RepairOperation interface {
	// Name is the canonical operation name
	Name() string

	// CanHandle determines if this operation answers to the given name
	CanHandle(name string) bool

	// Run repairs one order. skipped reports a run that found nothing to do.
	Run(ctx context.Context, orderID string) (result interface{}, skipped bool, err error)
}

// OperationRouter finds the repair operation for a requested name
type OperationRouter interface {
	// Register registers an operation
	Register(op RepairOperation)

	// GetOperation returns the operation for a name, or nil
	GetOperation(name string) RepairOperation

	// Names lists the registered operations
	Names() []string
}

// RepairOperationAdapter adapts a use case method to RepairOperation
type RepairOperationAdapter struct {
	name    string
	aliases []string
	run     func(ctx context.Context, orderID string) (interface{}, bool, error)
}

// NewRepairOperationAdapter creates a new adapter
func NewRepairOperationAdapter(name string, aliases []string, run func(ctx context.Context, orderID string) (interface{}, bool, error)) *RepairOperationAdapter {
	return &RepairOperationAdapter{
		name:    name,
		aliases: aliases,
		run:     run,
	}
}

// Name returns the canonical operation name
func (a *RepairOperationAdapter) Name() string {
	return a.name
}

// CanHandle matches the name or any alias, ignoring case and underscores
func (a *RepairOperationAdapter) CanHandle(name string) bool {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if normalized == a.name {
		return true
	}
	for _, alias := range a.aliases {
		if normalized == alias {
			return true
		}
	}
	return false
}

// Run runs the wrapped use case
func (a *RepairOperationAdapter) Run(ctx context.Context, orderID string) (interface{}, bool, error) {
	return a.run(ctx, orderID)
}

// NewFixFlightsOperation wraps FlightFixer.Fix
func NewFixFlightsOperation(fixer *FlightFixer) *RepairOperationAdapter {
	return NewRepairOperationAdapter(OperationFixFlights, []string{"fix-flight"}, func(ctx context.Context, orderID string) (interface{}, bool, error) {
		res, err := fixer.Fix(ctx, orderID)
		if err != nil {
			return nil, false, err
		}
		return res, res.UpdatedCount == 0, nil
	})
}

// NewAdjustTimelineOperation wraps TimelineReconciler.Adjust
func NewAdjustTimelineOperation(reconciler *TimelineReconciler) *RepairOperationAdapter {
	return NewRepairOperationAdapter(OperationAdjustTimeline, []string{"reconcile"}, func(ctx context.Context, orderID string) (interface{}, bool, error) {
		res, err := reconciler.Adjust(ctx, orderID)
		if err != nil {
			return nil, false, err
		}
		return res, len(res.Adjustments) == 0, nil
	})
}

// NewCorrectDirectionOperation wraps DirectionCorrector.Correct
func NewCorrectDirectionOperation(corrector *DirectionCorrector) *RepairOperationAdapter {
	return NewRepairOperationAdapter(OperationCorrectDirection, []string{"fix-direction"}, func(ctx context.Context, orderID string) (interface{}, bool, error) {
		res, err := corrector.Correct(ctx, orderID)
		if err != nil {
			return nil, false, err
		}
		return res, !res.Corrected, nil
	})
}

// NewAllocateAttractionsOperation wraps AttractionAllocator.Allocate
func NewAllocateAttractionsOperation(allocator *AttractionAllocator) *RepairOperationAdapter {
	return NewRepairOperationAdapter(OperationAllocateAttractions, []string{"allocate"}, func(ctx context.Context, orderID string) (interface{}, bool, error) {
		res, err := allocator.Allocate(ctx, orderID)
		if err != nil {
			return nil, false, err
		}
		return res, res.Skipped, nil
	})
}
