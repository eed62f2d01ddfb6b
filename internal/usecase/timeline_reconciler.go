package usecase

import (
	"context"
	"fmt"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	"medtour-itinerary-service/pkg/logger"
)

// Adjustment kinds
const (
	AdjustHotel       = "hotel"
	AdjustMedical     = "medical"
	AdjustAttraction  = "attraction"
	AdjustAppointment = "appointment"
)

// Adjustment is one change the reconciler made
type Adjustment struct {
	Kind     string    `json:"kind"`
	EntryID  string    `json:"entryId"`
	Name     string    `json:"name"`
	OldStart time.Time `json:"oldStart"`
	OldEnd   time.Time `json:"oldEnd,omitempty"`
	NewStart time.Time `json:"newStart"`
	NewEnd   time.Time `json:"newEnd,omitempty"`
}

// AdjustmentResult is the outcome of one reconciliation pass
type AdjustmentResult struct {
	OrderID     string       `json:"orderId"`
	Arrival     time.Time    `json:"arrival"`
	Return      time.Time    `json:"return"`
	Adjustments []Adjustment `json:"adjustments"`
}

type plannedEntry struct {
	entry *entity.ItineraryEntry
	kind  string
	start time.Time
	end   time.Time
}

// timelinePlan is where every dependent entry should sit for the current flight anchors
type timelinePlan struct {
	anchors     *tripAnchors
	entries     []plannedEntry
	appointment *time.Time
}

func (p *timelinePlan) medicalEnd() *time.Time {
	for _, pe := range p.entries {
		if pe.kind == AdjustMedical {
			return timePtr(pe.end)
		}
	}
	return nil
}

// planTimeline computes hotel, medical and attraction placement without touching storage
func planTimeline(order *entity.Order, entries []*entity.ItineraryEntry) (*timelinePlan, error) {
	anchors, err := resolveAnchors(entries)
	if err != nil {
		return nil, err
	}
	plan := &timelinePlan{anchors: anchors}
	plan.placeHotels(entries)
	if err := plan.placeMedical(order, entries); err != nil {
		return nil, err
	}
	if err := plan.placeAttractions(entries); err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *timelinePlan) placeHotels(entries []*entity.ItineraryEntry) {
	for _, hotel := range sortedByStart(entries, (*entity.ItineraryEntry).IsHotel) {
		start, end := hotelStay(p.anchors.Arrival, p.anchors.Depart)
		p.entries = append(p.entries, plannedEntry{entry: hotel, kind: AdjustHotel, start: start, end: end})
	}
}

func (p *timelinePlan) placeMedical(order *entity.Order, entries []*entity.ItineraryEntry) error {
	medical := firstOf(entries, (*entity.ItineraryEntry).IsMedical)
	if medical == nil {
		return nil
	}
	start, err := medicalSlot(p.anchors.Arrival, p.anchors.Depart)
	if err != nil {
		return err
	}
	end := start.Add(entryDuration(medical, medicalDefaultLength))
	p.entries = append(p.entries, plannedEntry{entry: medical, kind: AdjustMedical, start: start, end: end})
	if order.DoctorAppointmentDate == nil || !order.DoctorAppointmentDate.Equal(start) {
		p.appointment = timePtr(start)
	}
	return nil
}

func (p *timelinePlan) placeAttractions(entries []*entity.ItineraryEntry) error {
	attractions := attractionsOf(entries)
	durations := make([]time.Duration, len(attractions))
	for i, a := range attractions {
		durations[i] = entryDuration(a, attractionDuration)
	}
	slots, err := planExistingAttractionSlots(durations, p.anchors.Arrival, p.anchors.Depart, p.medicalEnd())
	if err != nil {
		return err
	}
	for i, a := range attractions {
		p.entries = append(p.entries, plannedEntry{entry: a, kind: AdjustAttraction, start: slots[i], end: slots[i].Add(durations[i])})
	}
	return nil
}

// TimelineReconciler moves hotel, medical and attraction entries back inside the window the
// flights define
type TimelineReconciler struct {
	orderRepo     repository.OrderRepository
	itineraryRepo repository.ItineraryRepository
	uow           repository.UnitOfWork
	logger        logger.Logger
}

// NewTimelineReconciler creates a new timeline reconciler
func NewTimelineReconciler(
	orderRepo repository.OrderRepository,
	itineraryRepo repository.ItineraryRepository,
	uow repository.UnitOfWork,
	logger logger.Logger,
) *TimelineReconciler {
	return &TimelineReconciler{
		orderRepo:     orderRepo,
		itineraryRepo: itineraryRepo,
		uow:           uow,
		logger:        logger,
	}
}

// Adjust recomputes dependent entries and writes back only the ones that moved. A plan that
// cannot be satisfied writes nothing.
func (r *TimelineReconciler) Adjust(ctx context.Context, orderID string) (*AdjustmentResult, error) {
	order, err := r.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	entries, err := r.itineraryRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itinerary entries: %w", err)
	}

	plan, err := planTimeline(order, entries)
	if err != nil {
		r.logger.Warn("Timeline cannot be reconciled", "orderID", orderID, "error", err)
		return nil, err
	}

	result := &AdjustmentResult{
		OrderID:     orderID,
		Arrival:     plan.anchors.Arrival,
		Return:      plan.anchors.Depart,
		Adjustments: []Adjustment{},
	}

	type pendingPatch struct {
		id    string
		patch entity.EntryPatch
	}
	var patches []pendingPatch
	for _, pe := range plan.entries {
		var patch entity.EntryPatch
		if !pe.entry.StartDate.Equal(pe.start) {
			patch.StartDate = timePtr(pe.start)
		}
		if !pe.entry.EndDate.Equal(pe.end) {
			patch.EndDate = timePtr(pe.end)
		}
		if patch.IsEmpty() {
			continue
		}
		patches = append(patches, pendingPatch{id: pe.entry.ID, patch: patch})
		result.Adjustments = append(result.Adjustments, Adjustment{
			Kind:     pe.kind,
			EntryID:  pe.entry.ID,
			Name:     pe.entry.Name,
			OldStart: pe.entry.StartDate,
			OldEnd:   pe.entry.EndDate,
			NewStart: pe.start,
			NewEnd:   pe.end,
		})
	}
	if plan.appointment != nil {
		adj := Adjustment{Kind: AdjustAppointment, EntryID: orderID, Name: "doctorAppointmentDate", NewStart: *plan.appointment}
		if order.DoctorAppointmentDate != nil {
			adj.OldStart = *order.DoctorAppointmentDate
		}
		result.Adjustments = append(result.Adjustments, adj)
	}

	if len(result.Adjustments) == 0 {
		r.logger.Info("Timeline already consistent", "orderID", orderID)
		return result, nil
	}

	err = r.uow.Do(ctx, func(itineraries repository.ItineraryRepository, orders repository.OrderRepository) error {
		for _, p := range patches {
			if _, err := itineraries.Update(ctx, p.id, p.patch); err != nil {
				return fmt.Errorf("failed to update entry %s: %w", p.id, err)
			}
		}
		if plan.appointment != nil {
			if _, err := orders.Update(ctx, orderID, entity.OrderPatch{DoctorAppointmentDate: plan.appointment}); err != nil {
				return fmt.Errorf("failed to update appointment date: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Timeline adjusted", "orderID", orderID, "adjustments", len(result.Adjustments))
	return result, nil
}
