package utils

// RouteSignals holds what could be read out of free-text search results for one city pair
type RouteSignals struct {
	MentionsDirect  bool
	StopCount       int // -1 when no stop count was mentioned
	Prices          []float64
	DurationMinutes int
	Airlines        []string
	FlightNumbers   []string
	ConnectionCity  string
}

// HasNumericSignal reports whether a price or a duration was found
func (s RouteSignals) HasNumericSignal() bool {
	return len(s.Prices) > 0 || s.DurationMinutes > 0
}

// IsDirect reports whether the results describe a nonstop flight
func (s RouteSignals) IsDirect() bool {
	if s.StopCount >= 0 {
		return s.StopCount == 0
	}
	return s.MentionsDirect
}

// PriceBand returns min, max and mean of the found prices
func (s RouteSignals) PriceBand() (min, max, typical float64) {
	if len(s.Prices) == 0 {
		return 0, 0, 0
	}
	min, max = s.Prices[0], s.Prices[0]
	sum := 0.0
	for _, p := range s.Prices {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
		sum += p
	}
	return min, max, sum / float64(len(s.Prices))
}

// Constants
const (
	LocationSeparator = " - "
	minPlausiblePrice = 50.0
	maxPlausiblePrice = 20000.0
	minFlightMinutes  = 30
	maxFlightMinutes  = 40 * 60
)
