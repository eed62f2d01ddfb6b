package entity

import (
	"time"

	"gorm.io/gorm"
)

// Airline represents an airline entity
type Airline struct {
	ID        uint
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}

// FlightNumberPrefix returns the two-character carrier prefix of a flight number ("CA982" -> "CA")
func FlightNumberPrefix(flightNumber string) string {
	if len(flightNumber) < 2 {
		return ""
	}
	return flightNumber[:2]
}
