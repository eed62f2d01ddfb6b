package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medtour-itinerary-service/pkg/logger"
)

func newTestSegmentBuilder() *SegmentBuilder {
	log := logger.NewNopLogger()
	return NewSegmentBuilder(nil, NewCityDirectory(nil, log), log)
}

func TestSegmentBuilder_SegmentConsistency(t *testing.T) {
	b := newTestSegmentBuilder()
	ctx := context.Background()

	pairs := [][2]string{
		{"New York", "Changchun"}, {"Changchun", "New York"}, {"Los Angeles", "Hangzhou"},
		{"Harbin", "Seattle"}, {"Boise", "Ulaanbaatar"}, {"New York", "Beijing"}, {"Shanghai", "Xiamen"},
	}
	departures := []time.Time{
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 23, 45, 0, 0, time.UTC),
		time.Date(2026, 6, 15, 9, 30, 0, 0, time.FixedZone("CST", 8*3600)),
	}

	for _, pair := range pairs {
		for _, departure := range departures {
			for _, direct := range []bool{true, false} {
				for leg := 0; leg < 2; leg++ {
					name := fmt.Sprintf("%s-%s direct=%v leg=%d %s", pair[0], pair[1], direct, leg, departure)
					fd := b.Build(ctx, SegmentRequest{
						Origin:        pair[0],
						Destination:   pair[1],
						DepartureTime: departure,
						IsDirect:      direct,
						TypicalPrice:  1000,
						OrderID:       "order-" + pair[0],
						LegIndex:      leg,
					})

					require.NotEmpty(t, fd.Segments, name)
					first, last := fd.Segments[0], fd.Segments[len(fd.Segments)-1]
					assert.True(t, last.ArrivalTime.After(first.DepartureTime), name)
					assert.True(t, first.DepartureTime.Equal(departure), name)

					sum := 0
					for _, s := range fd.Segments {
						sum += s.DurationMinutes
						assert.Equal(t, s.DepartureTime.Add(time.Duration(s.DurationMinutes)*time.Minute), s.ArrivalTime, name)
					}
					assert.Equal(t, sum+fd.LayoverMinutes, fd.TotalDurationMinutes, name)
					assert.Equal(t, fd.TotalDurationMinutes, int(last.ArrivalTime.Sub(first.DepartureTime)/time.Minute), name)

					if len(fd.Segments) == 2 {
						assert.False(t, fd.IsDirect, name)
						assert.GreaterOrEqual(t, fd.LayoverMinutes, minLayoverMinutes, name)
						assert.LessOrEqual(t, fd.LayoverMinutes, maxLayoverMinutes, name)
						assert.Equal(t, fd.ConnectionCity, first.Destination, name)
						assert.Equal(t, fd.ConnectionCity, last.Origin, name)
					} else {
						assert.True(t, fd.IsDirect, name)
						assert.Zero(t, fd.LayoverMinutes, name)
					}
				}
			}
		}
	}
}

func TestSegmentBuilder_Deterministic(t *testing.T) {
	b := newTestSegmentBuilder()
	ctx := context.Background()
	req := SegmentRequest{
		Origin:        "Los Angeles",
		Destination:   "Changchun",
		DepartureTime: time.Date(2025, 4, 2, 1, 0, 0, 0, time.UTC),
		TypicalPrice:  1120,
		OrderID:       "order-42",
		LegIndex:      legOutbound,
	}

	first := b.Build(ctx, req)
	second := b.Build(ctx, req)

	assert.Equal(t, first, second)
}

func TestSegmentBuilder_ConnectionHub(t *testing.T) {
	b := newTestSegmentBuilder()
	ctx := context.Background()
	dep := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		origin, destination, hub string
	}{
		{"New York", "Changchun", "Beijing"},
		{"New York", "Hangzhou", "Shanghai"},
		{"Harbin", "Los Angeles", "Beijing"},
		{"Xiamen(XMN)", "Seattle", "Shanghai"},
		{"New York", "Guangzhou", "Beijing"},
	}
	for _, tc := range cases {
		fd := b.Build(ctx, SegmentRequest{Origin: tc.origin, Destination: tc.destination, DepartureTime: dep, TypicalPrice: 1000, OrderID: "o"})
		require.Len(t, fd.Segments, 2, tc.origin+"-"+tc.destination)
		assert.Equal(t, tc.hub, fd.ConnectionCity, tc.origin+"-"+tc.destination)
		assert.InDelta(t, 1300.0, fd.TotalPriceUSD, 0.001)
	}
}

func TestSegmentBuilder_DirectLegs(t *testing.T) {
	b := newTestSegmentBuilder()
	ctx := context.Background()
	dep := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("table duration", func(t *testing.T) {
		fd := b.Build(ctx, SegmentRequest{Origin: "New York(JFK)", Destination: "Changchun(CGQ)", DepartureTime: dep, IsDirect: true, TypicalPrice: 900, OrderID: "o"})
		require.Len(t, fd.Segments, 1)
		assert.Equal(t, 840, fd.TotalDurationMinutes)
		assert.Equal(t, time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC), fd.Arrival())
		assert.Equal(t, 900.0, fd.TotalPriceUSD)
		assert.Equal(t, "New York", fd.Segments[0].Origin)
	})

	t.Run("default duration", func(t *testing.T) {
		fd := b.Build(ctx, SegmentRequest{Origin: "Boise", Destination: "Ulaanbaatar", DepartureTime: dep, IsDirect: true, OrderID: "o"})
		assert.Equal(t, defaultDirectLegMinutes, fd.TotalDurationMinutes)
	})

	t.Run("hub equal to an endpoint becomes direct", func(t *testing.T) {
		fd := b.Build(ctx, SegmentRequest{Origin: "New York", Destination: "Beijing", DepartureTime: dep, TypicalPrice: 1000, OrderID: "o"})
		require.Len(t, fd.Segments, 1)
		assert.True(t, fd.IsDirect)
		assert.Equal(t, 1000.0, fd.TotalPriceUSD)
	})
}

func TestSegmentBuilder_FlightNumbersAndAirlines(t *testing.T) {
	log := logger.NewNopLogger()
	b := NewSegmentBuilder(fakeAirlineRepo{"CA": "Air China Limited"}, NewCityDirectory(nil, log), log)
	dep := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	fd := b.Build(context.Background(), SegmentRequest{
		Origin:        "New York",
		Destination:   "Changchun",
		DepartureTime: dep,
		FlightNumbers: []string{"CA982", "CA1611"},
		OrderID:       "o",
	})

	require.Len(t, fd.Segments, 2)
	assert.Equal(t, "CA982", fd.Segments[0].FlightNumber)
	assert.Equal(t, "CA1611", fd.Segments[1].FlightNumber)
	assert.Equal(t, "Air China Limited", fd.Segments[0].Airline)
	assert.Equal(t, "Beijing", fd.Segments[0].Destination)
	assert.Equal(t, 810, fd.Segments[0].DurationMinutes)
	assert.Equal(t, 125, fd.Segments[1].DurationMinutes)

	for _, s := range b.Build(context.Background(), SegmentRequest{Origin: "Boise", Destination: "Denver", DepartureTime: dep, IsDirect: true, OrderID: "o"}).Segments {
		assert.Regexp(t, `^[A-Z]{2}\d{3,4}$`, s.FlightNumber)
		assert.NotEmpty(t, s.Airline)
	}
}
