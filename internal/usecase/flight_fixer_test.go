package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medtour-itinerary-service/internal/domain/entity"
)

func newFixer(f *fixture) *FlightFixer {
	return NewFlightFixer(f.orders, f.itineraries, f.uow, f.resolver, f.builder, f.log)
}

func logActions(res *FixFlightsResult) map[string]string {
	out := map[string]string{}
	for _, l := range res.UpdateLog {
		out[l.EntryID] = l.Action
	}
	return out
}

func TestFlightFixer_RebuildsMissingDetails(t *testing.T) {
	order := newOrder("order-f", 0, nil)
	f := newFixture(t, order,
		flightEntry("f1", order.ID, "New York - Beijing", at(1, 0, 0), at(1, 9, 0)),
		flightEntry("f2", order.ID, "Beijing - New York", at(10, 0, 0), at(10, 13, 0)))

	res, err := newFixer(f).Fix(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.UpdatedCount)
	assert.Equal(t, map[string]string{"f1": FixActionRebuilt, "f2": FixActionRebuilt}, logActions(res))

	got := byID(f.list(t, order.ID))
	out := got["f1"]
	require.NotNil(t, out.Metadata.FlightDetails)
	assert.True(t, flightDetailsConsistent(out))
	assert.Equal(t, at(1, 13, 30), out.EndDate, "CA982 takes 810 minutes")
	assert.Equal(t, entity.TripDirectionOutbound, out.Metadata.TripDirection)
	assert.Equal(t, entity.TripDirectionReturn, got["f2"].Metadata.TripDirection)
	assert.Equal(t, "CA981", got["f2"].Metadata.FlightDetails.Segments[0].FlightNumber)
	assert.Contains(t, out.Description, "(Direct)")
	assert.Equal(t, "New York - Beijing", out.Location)
}

func TestFlightFixer_Idempotent(t *testing.T) {
	order := newOrder("order-g", 0, nil)
	f := newFixture(t, order,
		flightEntry("f1", order.ID, "New York - Changchun", at(1, 0, 0), at(1, 14, 0)),
		flightEntry("f2", order.ID, "Changchun - New York", at(10, 0, 0), at(10, 14, 0)))
	fixer := newFixer(f)
	ctx := context.Background()

	_, err := fixer.Fix(ctx, order.ID)
	require.NoError(t, err)
	before := f.list(t, order.ID)

	res, err := fixer.Fix(ctx, order.ID)
	require.NoError(t, err)
	assert.Zero(t, res.UpdatedCount)
	assert.Equal(t, map[string]string{"f1": FixActionUnchanged, "f2": FixActionUnchanged}, logActions(res))
	assert.Equal(t, before, f.list(t, order.ID))
}

func TestFlightFixer_ParseFailureDoesNotAbortBatch(t *testing.T) {
	order := newOrder("order-p", 0, nil)
	f := newFixture(t, order,
		flightEntry("f1", order.ID, "New York to Beijing", at(1, 0, 0), at(1, 9, 0)),
		flightEntry("f2", order.ID, "Beijing - New York", at(10, 0, 0), at(10, 13, 0)))

	res, err := newFixer(f).Fix(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, res.UpdatedCount)
	assert.Equal(t, map[string]string{"f1": FixActionParseFailure, "f2": FixActionRebuilt}, logActions(res))
	assert.Contains(t, res.UpdateLog[0].Message, "New York to Beijing")
	assert.Nil(t, byID(f.list(t, order.ID))["f1"].Metadata.FlightDetails)
}

func TestFlightFixer_SwapsInvertedHotelDates(t *testing.T) {
	order := newOrder("order-d", 0, nil)
	outbound := f1Consistent(t, order.ID)
	f := newFixture(t, order, outbound,
		hotelEntry("h1", order.ID, "Changchun", at(10, 10, 0), at(1, 18, 0)))

	res, err := newFixer(f).Fix(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, FixActionHotelSwapped, logActions(res)["h1"])

	hotel := byID(f.list(t, order.ID))["h1"]
	assert.Equal(t, at(1, 18, 0), hotel.StartDate)
	assert.Equal(t, at(10, 10, 0), hotel.EndDate)
	assert.True(t, hotel.StartDate.Before(hotel.EndDate))
}

// f1Consistent returns a flight entry whose details already match its dates
func f1Consistent(t *testing.T, orderID string) *entity.ItineraryEntry {
	t.Helper()
	f := newFixture(t, newOrder(orderID, 0, nil))
	details := f.builder.Build(context.Background(), SegmentRequest{
		Origin: "New York", Destination: "Beijing", DepartureTime: at(1, 0, 0), IsDirect: true, OrderID: orderID,
	})
	e := newFlightEntry(orderID, entity.TripDirectionOutbound, details, "New York", "Beijing", "", f.now)
	e.ID = "f1"
	return e
}
