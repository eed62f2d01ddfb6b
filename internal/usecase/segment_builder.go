package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	"medtour-itinerary-service/pkg/logger"
)

const (
	minLayoverMinutes     = 120
	maxLayoverMinutes     = 240
	connectingPriceFactor = 1.3
)

// SegmentRequest describes one journey to synthesize
type SegmentRequest struct {
	Origin         string
	Destination    string
	DepartureTime  time.Time
	IsDirect       bool
	ConnectionCity string // optional; picked by region when empty
	TypicalPrice   float64
	// FlightNumbers are used for the legs in order before synthetic numbers
	FlightNumbers []string
	OrderID       string
	LegIndex      int
}

// SegmentBuilder expands a route and a departure time into concrete flight segments
type SegmentBuilder struct {
	airlineRepo repository.AirlineRepository
	cities      *CityDirectory
	logger      logger.Logger
}

// NewSegmentBuilder creates a new segment builder. airlineRepo may be nil.
func NewSegmentBuilder(airlineRepo repository.AirlineRepository, cities *CityDirectory, logger logger.Logger) *SegmentBuilder {
	return &SegmentBuilder{
		airlineRepo: airlineRepo,
		cities:      cities,
		logger:      logger,
	}
}

// BuildFromRoute builds the journey a resolved route describes
func (b *SegmentBuilder) BuildFromRoute(ctx context.Context, route *entity.Route, departure time.Time, orderID string, legIndex int) *entity.FlightDetails {
	return b.Build(ctx, SegmentRequest{
		Origin:         route.Origin,
		Destination:    route.Destination,
		DepartureTime:  departure,
		IsDirect:       route.IsDirect,
		ConnectionCity: route.ConnectionCity(),
		TypicalPrice:   route.TypicalPrice,
		FlightNumbers:  route.CandidateFlightNumbers,
		OrderID:        orderID,
		LegIndex:       legIndex,
	})
}

// Build synthesizes one or two segments. The same request always yields the same details.
func (b *SegmentBuilder) Build(ctx context.Context, req SegmentRequest) *entity.FlightDetails {
	rng := legRand(req.OrderID, req.LegIndex)
	origin := b.cities.Canonical(ctx, req.Origin)
	destination := b.cities.Canonical(ctx, req.Destination)

	connection := ""
	if !req.IsDirect {
		connection = req.ConnectionCity
		if connection == "" {
			oi, oOK := b.cities.lookup(ctx, origin)
			di, dOK := b.cities.lookup(ctx, destination)
			connection = connectionHub(oi, di, oOK, dOK)
		}
		connection = b.cities.Canonical(ctx, connection)
		if connection == origin || connection == destination {
			b.logger.Debug("Connection city is an endpoint, building direct flight",
				"origin", origin,
				"destination", destination,
				"connection", connection)
			connection = ""
		}
	}

	if connection == "" {
		leg := b.buildLeg(ctx, rng, origin, destination, req.DepartureTime, flightNumberAt(req.FlightNumbers, 0))
		return &entity.FlightDetails{
			IsDirect:             true,
			Segments:             []entity.FlightSegment{leg},
			TotalDurationMinutes: leg.DurationMinutes,
			TotalPriceUSD:        roundPrice(req.TypicalPrice),
		}
	}

	first := b.buildLeg(ctx, rng, origin, connection, req.DepartureTime, flightNumberAt(req.FlightNumbers, 0))
	layover := minLayoverMinutes + rng.IntN(maxLayoverMinutes-minLayoverMinutes+1)
	secondDeparture := first.ArrivalTime.Add(time.Duration(layover) * time.Minute)
	second := b.buildLeg(ctx, rng, connection, destination, secondDeparture, flightNumberAt(req.FlightNumbers, 1))

	return &entity.FlightDetails{
		IsDirect:             false,
		Segments:             []entity.FlightSegment{first, second},
		ConnectionCity:       connection,
		LayoverMinutes:       layover,
		TotalDurationMinutes: first.DurationMinutes + layover + second.DurationMinutes,
		TotalPriceUSD:        roundPrice(req.TypicalPrice * connectingPriceFactor),
	}
}

func (b *SegmentBuilder) buildLeg(ctx context.Context, rng *rand.Rand, origin, destination string, departure time.Time, flightNumber string) entity.FlightSegment {
	duration := defaultDirectLegMinutes
	if d, ok := lookupDuration(origin, destination); ok {
		duration = d.Minutes
	}

	// the draw happens even when a flight number is supplied so later legs stay stable
	pool := airlinePool(origin)
	carrier := pool[rng.IntN(len(pool))]
	synthetic := fmt.Sprintf("%s%d", carrier.Code, 100+rng.IntN(9900))
	if flightNumber == "" {
		flightNumber = synthetic
	}

	return entity.FlightSegment{
		FlightNumber:    flightNumber,
		Origin:          origin,
		Destination:     destination,
		DepartureTime:   departure,
		ArrivalTime:     departure.Add(time.Duration(duration) * time.Minute),
		DurationMinutes: duration,
		Airline:         b.airlineName(ctx, flightNumber, pool),
	}
}

// airlineName prefers the airline directory, then the origin's pool
func (b *SegmentBuilder) airlineName(ctx context.Context, flightNumber string, pool []airlineInfo) string {
	prefix := entity.FlightNumberPrefix(flightNumber)
	if b.airlineRepo != nil {
		airline, err := b.airlineRepo.GetByCode(ctx, prefix)
		if err != nil {
			b.logger.Debug("Airline lookup failed", "code", prefix, "error", err)
		} else if airline != nil && airline.Name != "" {
			return airline.Name
		}
	}
	for _, a := range pool {
		if a.Code == prefix {
			return a.Name
		}
	}
	for _, a := range defaultAirlinePool {
		if a.Code == prefix {
			return a.Name
		}
	}
	return prefix
}

func flightNumberAt(numbers []string, i int) string {
	if i < len(numbers) {
		return numbers[i]
	}
	return ""
}
