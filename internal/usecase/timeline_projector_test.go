package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medtour-itinerary-service/internal/domain/entity"
)

func TestTimelineProjector_Project(t *testing.T) {
	order := newOrder("order-t", 50, timePtr(at(2, 10, 0)))
	f := newFixture(t, order)

	outbound := f.builder.BuildFromRoute(context.Background(), f.resolver.Resolve(context.Background(), "New York", "Changchun"), at(1, 0, 0), order.ID, legOutbound)
	withDetails := newFlightEntry(order.ID, entity.TripDirectionOutbound, outbound, "New York", "Changchun", "", f.now)
	legacy := flightEntry("f-legacy", order.ID, "Changchun - New York", at(10, 0, 0), at(10, 19, 0))
	legacy.Description = "CA1612/CA981 Changchun - New York (Via Beijing)"
	legacy.DurationMinutes = 1140

	for _, e := range []*entity.ItineraryEntry{
		legacy,
		hotelEntry("h1", order.ID, "Changchun", at(1, 22, 0), at(10, 10, 0)),
		attractionEntry("a1", order.ID, "Park", at(3, 14, 0), at(3, 16, 0)),
		withDetails,
	} {
		_, err := f.itineraries.Insert(context.Background(), e)
		require.NoError(t, err)
	}

	timeline, err := NewTimelineProjector(f.orders, f.itineraries, f.log).Project(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, timeline.Items, 5)

	kinds := make([]string, 0, len(timeline.Items))
	for i, item := range timeline.Items {
		kinds = append(kinds, item.Kind)
		if i > 0 {
			assert.False(t, item.Start.Before(timeline.Items[i-1].Start))
		}
	}
	assert.Equal(t, []string{
		entity.ItemKindFlight, entity.ItemKindHotel, entity.ItemKindAppointment, entity.ItemKindTicket, entity.ItemKindFlight,
	}, kinds)

	rich := timeline.Items[0].Flight
	require.NotNil(t, rich)
	assert.False(t, rich.IsDirect)
	assert.Equal(t, "Beijing", rich.ConnectionCity)
	assert.Len(t, rich.Segments, 2)
	assert.NotEmpty(t, rich.Layover)
	assert.False(t, rich.FromLegacy)

	assert.Equal(t, 9, timeline.Items[1].Nights)
	assert.Equal(t, 120, timeline.Items[3].DurationMinutes)

	old := timeline.Items[4].Flight
	require.NotNil(t, old)
	assert.True(t, old.FromLegacy)
	assert.Equal(t, "Beijing", old.ConnectionCity)
	assert.Equal(t, 1140, old.TotalDurationMinutes)
}

func TestTimelineProjector_UndatedEntriesLast(t *testing.T) {
	order := newOrder("order-undated", 0, timePtr(at(2, 10, 0)))
	undated := attractionEntry("a-undated", order.ID, "Museum", time.Time{}, time.Time{})
	f := newFixture(t, order,
		undated,
		flightEntry("f1", order.ID, "New York - Changchun", at(1, 0, 0), at(1, 14, 0)),
		attractionEntry("a1", order.ID, "Park", at(3, 14, 0), at(3, 16, 0)))

	timeline, err := NewTimelineProjector(f.orders, f.itineraries, f.log).Project(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, timeline.Items, 4)

	assert.Equal(t, "f1", timeline.Items[0].EntryID)
	assert.Equal(t, entity.ItemKindAppointment, timeline.Items[1].Kind)
	assert.Equal(t, "a1", timeline.Items[2].EntryID)
	assert.Equal(t, "a-undated", timeline.Items[3].EntryID)
}

func TestHotelNights(t *testing.T) {
	assert.Equal(t, 3, hotelNights(hotelEntry("h", "o", "X", at(1, 22, 0), at(4, 10, 0))))
	assert.Equal(t, 1, hotelNights(hotelEntry("h", "o", "X", at(1, 8, 0), at(1, 20, 0))))
	assert.Zero(t, hotelNights(hotelEntry("h", "o", "X", at(4, 8, 0), at(1, 20, 0))))
}
