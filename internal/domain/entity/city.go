package entity

import (
	"strings"
	"time"
)

// City is a lookup key for routing. It is never mutated by the itinerary core.
type City struct {
	ID          uint
	Name        string
	AirportCode string // optional IATA-style code, e.g. "CGQ"
	Country     string
	TzName      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Key returns the code used in route cache keys: the airport code when known, else the
// upper-cased name with spaces removed.
func (c City) Key() string {
	if c.AirportCode != "" {
		return strings.ToUpper(c.AirportCode)
	}
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(c.Name), " ", ""))
}
