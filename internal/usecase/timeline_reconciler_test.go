package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medtour-itinerary-service/internal/domain/entity"
	apperrors "medtour-itinerary-service/pkg/errors"
)

func newReconciler(f *fixture) *TimelineReconciler {
	return NewTimelineReconciler(f.orders, f.itineraries, f.uow, f.log)
}

func driftedTrip(orderID string) []*entity.ItineraryEntry {
	return []*entity.ItineraryEntry{
		flightEntry("f1", orderID, "New York - Changchun", at(1, 0, 0), at(1, 14, 0)),
		flightEntry("f2", orderID, "Changchun - New York", at(10, 16, 0), at(11, 6, 0)),
		hotelEntry("h1", orderID, "Changchun", at(1, 8, 0), at(9, 12, 0)),
		medicalEntry("m1", orderID, at(1, 9, 0), at(1, 10, 30)),
		attractionEntry("a1", orderID, "Sculpture Park", at(1, 15, 0), at(1, 17, 0)),
		attractionEntry("a2", orderID, "Forest Park", at(2, 15, 0), at(2, 17, 0)),
	}
}

func byID(entries []*entity.ItineraryEntry) map[string]*entity.ItineraryEntry {
	out := map[string]*entity.ItineraryEntry{}
	for _, e := range entries {
		out[e.ID] = e
	}
	return out
}

func TestTimelineReconciler_Adjust(t *testing.T) {
	order := newOrder("order-r", 50, timePtr(at(1, 2, 0)))
	f := newFixture(t, order, driftedTrip(order.ID)...)

	res, err := newReconciler(f).Adjust(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, at(1, 14, 0), res.Arrival)
	assert.Equal(t, at(10, 16, 0), res.Return)

	got := byID(f.list(t, order.ID))
	assert.Equal(t, at(1, 18, 0), got["h1"].StartDate, "check-in four hours after arrival")
	assert.Equal(t, at(10, 10, 0), got["h1"].EndDate, "check-out at 10:00 on the return day")
	assert.Equal(t, at(2, 10, 0), got["m1"].StartDate)
	assert.Equal(t, at(2, 11, 30), got["m1"].EndDate, "consultation keeps its length")
	assert.Equal(t, at(3, 14, 0), got["a1"].StartDate)
	assert.Equal(t, at(3, 16, 0), got["a1"].EndDate)
	assert.Equal(t, at(4, 10, 0), got["a2"].StartDate)

	updated, err := f.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.DoctorAppointmentDate)
	assert.Equal(t, at(2, 10, 0), *updated.DoctorAppointmentDate)

	kinds := map[string]int{}
	for _, a := range res.Adjustments {
		kinds[a.Kind]++
	}
	assert.Equal(t, map[string]int{AdjustHotel: 1, AdjustMedical: 1, AdjustAttraction: 2, AdjustAppointment: 1}, kinds)
	assert.Equal(t, 1, f.uow.commits)
}

func TestTimelineReconciler_Idempotent(t *testing.T) {
	order := newOrder("order-i", 50, nil)
	f := newFixture(t, order, driftedTrip(order.ID)...)
	reconciler := newReconciler(f)
	ctx := context.Background()

	_, err := reconciler.Adjust(ctx, order.ID)
	require.NoError(t, err)
	before := f.list(t, order.ID)
	writes := f.itineraries.writes

	res, err := reconciler.Adjust(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Adjustments)
	assert.Equal(t, before, f.list(t, order.ID))
	assert.Equal(t, writes, f.itineraries.writes)
}

func TestTimelineReconciler_MedicalClamp(t *testing.T) {
	order := newOrder("order-late", 0, nil)
	f := newFixture(t, order,
		flightEntry("f1", order.ID, "New York - Changchun", at(1, 0, 0), at(1, 23, 0)),
		flightEntry("f2", order.ID, "Changchun - New York", at(6, 12, 0), at(7, 2, 0)),
		medicalEntry("m1", order.ID, at(1, 9, 0), at(1, 10, 0)))

	_, err := newReconciler(f).Adjust(context.Background(), order.ID)
	require.NoError(t, err)

	// arrival + 1 day at 10:00 is earlier than arrival + 20h
	assert.Equal(t, at(2, 19, 0), byID(f.list(t, order.ID))["m1"].StartDate)
}

func TestTimelineReconciler_HotelFallsBackToArrival(t *testing.T) {
	order := newOrder("order-h", 0, nil)
	f := newFixture(t, order,
		flightEntry("f1", order.ID, "New York - Changchun", at(1, 18, 0), at(2, 8, 0)),
		flightEntry("f2", order.ID, "Changchun - New York", at(2, 20, 0), at(3, 10, 0)),
		hotelEntry("h1", order.ID, "Changchun", at(1, 15, 0), at(1, 16, 0)))

	_, err := newReconciler(f).Adjust(context.Background(), order.ID)
	require.NoError(t, err)

	hotel := byID(f.list(t, order.ID))["h1"]
	assert.Equal(t, at(2, 8, 0), hotel.StartDate)
	assert.Equal(t, at(2, 10, 0), hotel.EndDate)
}

func TestTimelineReconciler_WritesNothingWhenUnplaceable(t *testing.T) {
	order := newOrder("order-n", 50, nil)
	f := newFixture(t, order,
		flightEntry("f1", order.ID, "New York - Changchun", at(1, 0, 0), at(1, 14, 0)),
		flightEntry("f2", order.ID, "Changchun - New York", at(3, 8, 0), at(3, 22, 0)),
		hotelEntry("h1", order.ID, "Changchun", at(1, 8, 0), at(3, 10, 0)),
		attractionEntry("a1", order.ID, "Park", at(2, 15, 0), at(2, 17, 0)))

	_, err := newReconciler(f).Adjust(context.Background(), order.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNoAvailableSlot))
	assert.Zero(t, f.itineraries.writes)
	assert.Equal(t, at(1, 8, 0), byID(f.list(t, order.ID))["h1"].StartDate)
}

func TestTimelineReconciler_RollsBackOnWriteFailure(t *testing.T) {
	order := newOrder("order-w", 50, nil)
	f := newFixture(t, order, driftedTrip(order.ID)...)
	f.itineraries.failOn = "a2"

	_, err := newReconciler(f).Adjust(context.Background(), order.ID)
	require.Error(t, err)

	assert.Equal(t, 1, f.uow.rollbacks)
	assert.Equal(t, at(1, 8, 0), byID(f.list(t, order.ID))["h1"].StartDate)
}

func TestTimelineReconciler_ExtraAttractionNearBound(t *testing.T) {
	order := newOrder("order-x", 50, nil)
	f := newFixture(t, order,
		flightEntry("f1", order.ID, "New York - Changchun", at(1, 0, 0), at(1, 14, 0)),
		flightEntry("f2", order.ID, "Changchun - New York", at(5, 8, 0), at(5, 22, 0)),
		attractionEntry("a1", order.ID, "One", at(1, 15, 0), at(1, 17, 0)),
		attractionEntry("a2", order.ID, "Two", at(1, 18, 0), at(1, 20, 0)))

	_, err := newReconciler(f).Adjust(context.Background(), order.ID)
	require.NoError(t, err)

	got := byID(f.list(t, order.ID))
	assert.Equal(t, at(3, 10, 0), got["a1"].StartDate)
	// next day 10:00 would reach return - 1 day, so one hour after the first ends
	assert.Equal(t, at(3, 13, 0), got["a2"].StartDate)
}

func TestTimelineReconciler_TooManyAttractionsForWindow(t *testing.T) {
	order := newOrder("order-crowded", 50, nil)
	entries := []*entity.ItineraryEntry{
		flightEntry("f1", order.ID, "New York - Changchun", at(1, 0, 0), at(1, 14, 0)),
		flightEntry("f2", order.ID, "Changchun - New York", at(5, 8, 0), at(5, 22, 0)),
		hotelEntry("h1", order.ID, "Changchun", at(1, 8, 0), at(5, 10, 0)),
	}
	for i, name := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9"} {
		entries = append(entries, attractionEntry(name, order.ID, name, at(1, 8+i, 0), at(1, 9+i, 0)))
	}
	f := newFixture(t, order, entries...)

	_, err := newReconciler(f).Adjust(context.Background(), order.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNoAvailableSlot))
	assert.Zero(t, f.itineraries.writes)
	assert.Equal(t, at(1, 8, 0), byID(f.list(t, order.ID))["a1"].StartDate)
}

func TestTimelineReconciler_SameDayAttractionsStayInWindow(t *testing.T) {
	order := newOrder("order-full-day", 50, nil)
	f := newFixture(t, order,
		flightEntry("f1", order.ID, "New York - Changchun", at(1, 0, 0), at(1, 14, 0)),
		flightEntry("f2", order.ID, "Changchun - New York", at(5, 8, 0), at(5, 22, 0)),
		attractionEntry("a1", order.ID, "One", at(1, 15, 0), at(1, 17, 0)),
		attractionEntry("a2", order.ID, "Two", at(1, 18, 0), at(1, 20, 0)),
		attractionEntry("a3", order.ID, "Three", at(1, 21, 0), at(1, 23, 0)))

	res, err := newReconciler(f).Adjust(context.Background(), order.ID)
	require.NoError(t, err)

	got := byID(f.list(t, order.ID))
	assert.Equal(t, at(3, 10, 0), got["a1"].StartDate)
	assert.Equal(t, at(3, 13, 0), got["a2"].StartDate)
	assert.Equal(t, at(3, 16, 0), got["a3"].StartDate)
	bound := res.Return.AddDate(0, 0, -1)
	for _, id := range []string{"a1", "a2", "a3"} {
		assert.False(t, got[id].StartDate.After(bound), id)
		assert.LessOrEqual(t, got[id].EndDate.Hour(), 20, id)
	}
}
