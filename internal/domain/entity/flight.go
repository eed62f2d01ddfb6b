package entity

import "time"

// Route is the resolved metadata for an ordered (origin, destination) city pair
type Route struct {
	Origin                   string    `json:"origin" bson:"origin"`
	Destination              string    `json:"destination" bson:"destination"`
	IsDirect                 bool      `json:"isDirect" bson:"isDirect"`
	ConnectionCities         []string  `json:"connectionCities" bson:"connectionCities"`
	EstimatedDurationMinutes int       `json:"estimatedDurationMinutes" bson:"estimatedDurationMinutes"`
	CandidateFlightNumbers   []string  `json:"candidateFlightNumbers" bson:"candidateFlightNumbers"`
	CandidateAirlines        []string  `json:"candidateAirlines" bson:"candidateAirlines"`
	MinPrice                 float64   `json:"minPrice" bson:"minPrice"`
	MaxPrice                 float64   `json:"maxPrice" bson:"maxPrice"`
	TypicalPrice             float64   `json:"typicalPrice" bson:"typicalPrice"`
	Source                   string    `json:"source" bson:"source"` // table, search or estimate
	ResolvedAt               time.Time `json:"resolvedAt" bson:"resolvedAt"`
}

// ConnectionCity returns the first connection city, or "" for direct routes
func (r Route) ConnectionCity() string {
	if r.IsDirect || len(r.ConnectionCities) == 0 {
		return ""
	}
	return r.ConnectionCities[0]
}

// FlightSegment is one non-stop leg
type FlightSegment struct {
	FlightNumber    string    `json:"flightNumber"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	DepartureTime   time.Time `json:"departureTime"`
	ArrivalTime     time.Time `json:"arrivalTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Airline         string    `json:"airline"`
}

// FlightDetails is one journey of one or two segments. A value is replaced wholesale on
// correction, never patched.
type FlightDetails struct {
	IsDirect             bool            `json:"isDirect"`
	Segments             []FlightSegment `json:"segments"`
	ConnectionCity       string          `json:"connectionCity,omitempty"`
	LayoverMinutes       int             `json:"layoverMinutes,omitempty"`
	TotalDurationMinutes int             `json:"totalDurationMinutes"`
	TotalPriceUSD        float64         `json:"totalPriceUSD"`
}

// Departure returns the first segment's departure time
func (f FlightDetails) Departure() time.Time {
	if len(f.Segments) == 0 {
		return time.Time{}
	}
	return f.Segments[0].DepartureTime
}

// Arrival returns the last segment's arrival time
func (f FlightDetails) Arrival() time.Time {
	if len(f.Segments) == 0 {
		return time.Time{}
	}
	return f.Segments[len(f.Segments)-1].ArrivalTime
}
