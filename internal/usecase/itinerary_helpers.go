package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"medtour-itinerary-service/internal/domain/entity"
	apperrors "medtour-itinerary-service/pkg/errors"
	"medtour-itinerary-service/pkg/utils"
)

const expectedFlightCount = 2

// entryRoute reads the structured route of a flight entry, falling back to its
// "Origin - Destination" location
func entryRoute(e *entity.ItineraryEntry) (string, string, error) {
	if e.Metadata.OriginCity != "" && e.Metadata.DestinationCity != "" {
		return e.Metadata.OriginCity, e.Metadata.DestinationCity, nil
	}
	return utils.ParseLocation(e.ID, e.Location)
}

// sortedByStart returns the entries matching keep, ordered by start date. Entries without
// a start date sort last.
func sortedByStart(entries []*entity.ItineraryEntry, keep func(*entity.ItineraryEntry) bool) []*entity.ItineraryEntry {
	var out []*entity.ItineraryEntry
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].StartDate, out[j].StartDate
		if a.IsZero() != b.IsZero() {
			return !a.IsZero()
		}
		return a.Before(b)
	})
	return out
}

func flightsOf(entries []*entity.ItineraryEntry) []*entity.ItineraryEntry {
	return sortedByStart(entries, (*entity.ItineraryEntry).IsFlight)
}

func attractionsOf(entries []*entity.ItineraryEntry) []*entity.ItineraryEntry {
	return sortedByStart(entries, (*entity.ItineraryEntry).IsAttraction)
}

func firstOf(entries []*entity.ItineraryEntry, keep func(*entity.ItineraryEntry) bool) *entity.ItineraryEntry {
	if s := sortedByStart(entries, keep); len(s) > 0 {
		return s[0]
	}
	return nil
}

// pairFlights splits exactly two flights into outbound and return. Recorded trip
// directions win over start-date order.
func pairFlights(flights []*entity.ItineraryEntry) (*entity.ItineraryEntry, *entity.ItineraryEntry, error) {
	if len(flights) != expectedFlightCount {
		return nil, nil, apperrors.NewMissingAnchorError(
			fmt.Sprintf("expected %d flight entries, found %d", expectedFlightCount, len(flights)),
			len(flights), expectedFlightCount)
	}
	a, b := flights[0], flights[1]
	if a.Metadata.TripDirection == entity.TripDirectionReturn && b.Metadata.TripDirection == entity.TripDirectionOutbound {
		return b, a, nil
	}
	return a, b, nil
}

// tripAnchors are the fixed points dependent entries are placed around
type tripAnchors struct {
	Outbound []*entity.ItineraryEntry
	Return   []*entity.ItineraryEntry
	Arrival  time.Time
	Depart   time.Time
}

// resolveAnchors needs at least two flights. When every flight records its trip direction
// the groups come from it, otherwise the first flight is outbound and the last is return.
func resolveAnchors(entries []*entity.ItineraryEntry) (*tripAnchors, error) {
	flights := flightsOf(entries)
	if len(flights) < expectedFlightCount {
		return nil, apperrors.NewMissingAnchorError(
			fmt.Sprintf("at least %d flight entries are required, found %d", expectedFlightCount, len(flights)),
			len(flights), expectedFlightCount)
	}

	anchors := &tripAnchors{}
	allTagged := true
	for _, f := range flights {
		switch f.Metadata.TripDirection {
		case entity.TripDirectionOutbound:
			anchors.Outbound = append(anchors.Outbound, f)
		case entity.TripDirectionReturn:
			anchors.Return = append(anchors.Return, f)
		default:
			allTagged = false
		}
	}
	if !allTagged || len(anchors.Outbound) == 0 || len(anchors.Return) == 0 {
		anchors.Outbound = flights[:1]
		anchors.Return = flights[len(flights)-1:]
	}

	for _, f := range anchors.Outbound {
		if f.EndDate.After(anchors.Arrival) {
			anchors.Arrival = f.EndDate
		}
	}
	for _, f := range anchors.Return {
		if !f.StartDate.IsZero() && (anchors.Depart.IsZero() || f.StartDate.Before(anchors.Depart)) {
			anchors.Depart = f.StartDate
		}
	}
	if anchors.Arrival.IsZero() || anchors.Depart.IsZero() {
		return nil, apperrors.NewMissingAnchorError("arrival or return departure date is missing",
			len(flights), expectedFlightCount)
	}
	return anchors, nil
}

// atClock keeps the date of t and sets the wall clock
func atClock(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

func entryDuration(e *entity.ItineraryEntry, fallback time.Duration) time.Duration {
	if e.HasDates() && e.EndDate.After(e.StartDate) {
		return e.EndDate.Sub(e.StartDate)
	}
	if e.DurationMinutes > 0 {
		return time.Duration(e.DurationMinutes) * time.Minute
	}
	return fallback
}

// flightDetailsConsistent reports whether the entry's dates match its segments
func flightDetailsConsistent(e *entity.ItineraryEntry) bool {
	fd := e.Metadata.FlightDetails
	if fd == nil || len(fd.Segments) == 0 {
		return false
	}
	return fd.Departure().Equal(e.StartDate) && fd.Arrival().Equal(e.EndDate)
}

func flightDescription(details *entity.FlightDetails, origin, destination string) string {
	numbers := make([]string, 0, len(details.Segments))
	for _, s := range details.Segments {
		numbers = append(numbers, s.FlightNumber)
	}
	marker := "(Direct)"
	if !details.IsDirect {
		marker = fmt.Sprintf("(Via %s)", details.ConnectionCity)
	}
	return fmt.Sprintf("%s %s %s", strings.Join(numbers, "/"), utils.FormatLocation(origin, destination), marker)
}

func flightName(direction entity.TripDirection, destination string) string {
	if direction == entity.TripDirectionReturn {
		return fmt.Sprintf("Return flight to %s", destination)
	}
	return fmt.Sprintf("Outbound flight to %s", destination)
}

// newFlightEntry builds a fresh flight entry whose dates follow its segments
func newFlightEntry(orderID string, direction entity.TripDirection, details *entity.FlightDetails, origin, destination, status string, now time.Time) *entity.ItineraryEntry {
	if status == "" {
		status = entity.EntryStatusScheduled
	}
	return &entity.ItineraryEntry{
		ID:              uuid.NewString(),
		OrderID:         orderID,
		Type:            entity.EntryTypeFlight,
		Name:            flightName(direction, destination),
		Description:     flightDescription(details, origin, destination),
		StartDate:       details.Departure(),
		EndDate:         details.Arrival(),
		Location:        utils.FormatLocation(origin, destination),
		Price:           details.TotalPriceUSD,
		DurationMinutes: details.TotalDurationMinutes,
		Metadata: entity.EntryMetadata{
			FlightDetails:   details,
			OriginCity:      origin,
			DestinationCity: destination,
			TripDirection:   direction,
		},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func stringPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
