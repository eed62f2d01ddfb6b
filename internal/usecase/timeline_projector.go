package usecase

import (
	"context"
	"fmt"
	"sort"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	"medtour-itinerary-service/pkg/logger"
	"medtour-itinerary-service/pkg/utils"
)

// TimelineProjector merges itinerary entries and the doctor appointment into one sorted,
// display-ready timeline
type TimelineProjector struct {
	orderRepo     repository.OrderRepository
	itineraryRepo repository.ItineraryRepository
	logger        logger.Logger
}

// NewTimelineProjector creates a new timeline projector
func NewTimelineProjector(orderRepo repository.OrderRepository, itineraryRepo repository.ItineraryRepository, logger logger.Logger) *TimelineProjector {
	return &TimelineProjector{
		orderRepo:     orderRepo,
		itineraryRepo: itineraryRepo,
		logger:        logger,
	}
}

// Project builds the timeline of an order
func (p *TimelineProjector) Project(ctx context.Context, orderID string) (*entity.Timeline, error) {
	order, err := p.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	entries, err := p.itineraryRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itinerary entries: %w", err)
	}
	return projectTimeline(order, entries), nil
}

func projectTimeline(order *entity.Order, entries []*entity.ItineraryEntry) *entity.Timeline {
	items := make([]entity.TimelineItem, 0, len(entries)+1)

	if order.DoctorAppointmentDate != nil {
		items = append(items, entity.TimelineItem{
			Kind:  entity.ItemKindAppointment,
			Title: "Doctor appointment",
			Start: *order.DoctorAppointmentDate,
		})
	}

	for _, e := range entries {
		item := entity.TimelineItem{
			EntryID:         e.ID,
			Title:           e.Name,
			Description:     e.Description,
			Location:        e.Location,
			Start:           e.StartDate,
			End:             e.EndDate,
			DurationMinutes: e.DurationMinutes,
			Status:          e.Status,
		}
		switch e.Type {
		case entity.EntryTypeFlight:
			item.Kind = entity.ItemKindFlight
			item.Flight = projectFlight(e)
			if item.Flight != nil && item.Flight.TotalDurationMinutes > 0 {
				item.DurationMinutes = item.Flight.TotalDurationMinutes
			}
		case entity.EntryTypeHotel:
			item.Kind = entity.ItemKindHotel
			item.Nights = hotelNights(e)
		default:
			item.Kind = entity.ItemKindTicket
		}
		items = append(items, item)
	}

	// undated items go last
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Start, items[j].Start
		if a.IsZero() != b.IsZero() {
			return !a.IsZero()
		}
		return a.Before(b)
	})
	return &entity.Timeline{OrderID: order.ID, Items: items}
}

// projectFlight prefers stored flight details and falls back to the legacy description markers
func projectFlight(e *entity.ItineraryEntry) *entity.FlightView {
	if fd := e.Metadata.FlightDetails; fd != nil {
		view := &entity.FlightView{
			IsDirect:             fd.IsDirect,
			Segments:             fd.Segments,
			ConnectionCity:       fd.ConnectionCity,
			LayoverMinutes:       fd.LayoverMinutes,
			TotalDurationMinutes: fd.TotalDurationMinutes,
		}
		if fd.LayoverMinutes > 0 {
			view.Layover = utils.FormatMinutes(fd.LayoverMinutes)
		}
		return view
	}

	isDirect, via, ok := utils.ParseLegacyFlightDescription(e.Description)
	if !ok {
		return nil
	}
	return &entity.FlightView{
		IsDirect:             isDirect,
		ConnectionCity:       via,
		TotalDurationMinutes: e.DurationMinutes,
		FromLegacy:           true,
	}
}

func hotelNights(e *entity.ItineraryEntry) int {
	if !e.HasDates() || !e.EndDate.After(e.StartDate) {
		return 0
	}
	start := atClock(e.StartDate, 0, 0)
	end := atClock(e.EndDate.In(e.StartDate.Location()), 0, 0)
	nights := int(end.Sub(start).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	return nights
}
