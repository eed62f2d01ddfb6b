package entity

import (
	"fmt"
	"time"
)

// EntryType is the kind of an itinerary entry
type EntryType string

const (
	EntryTypeFlight EntryType = "flight"
	EntryTypeHotel  EntryType = "hotel"
	EntryTypeTicket EntryType = "ticket"
)

// TripDirection marks a flight entry as the outbound or the return leg
type TripDirection string

const (
	TripDirectionOutbound TripDirection = "outbound"
	TripDirectionReturn   TripDirection = "return"
)

// Entry statuses
const (
	EntryStatusScheduled = "scheduled"
	EntryStatusConfirmed = "confirmed"
)

// EntryMetadata is the discriminated payload of an entry. Flight entries carry FlightDetails;
// ticket entries carry MedicalType or AttractionType.
type EntryMetadata struct {
	FlightDetails   *FlightDetails `json:"flightDetails,omitempty"`
	MedicalType     string         `json:"medicalType,omitempty"`
	AttractionType  string         `json:"attractionType,omitempty"`
	OriginCity      string         `json:"originCity,omitempty"`
	DestinationCity string         `json:"destinationCity,omitempty"`
	TripDirection   TripDirection  `json:"tripDirection,omitempty"`
}

// ItineraryEntry is one row of an order's itinerary. A zero StartDate or EndDate means absent.
type ItineraryEntry struct {
	ID              string        `json:"id"`
	OrderID         string        `json:"orderId"`
	Type            EntryType     `json:"type"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	StartDate       time.Time     `json:"startDate"`
	EndDate         time.Time     `json:"endDate"`
	Location        string        `json:"location"`
	Price           float64       `json:"price"`
	DurationMinutes int           `json:"durationMinutes"`
	Metadata        EntryMetadata `json:"metadata"`
	Status          string        `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// IsFlight reports whether the entry is a flight
func (e *ItineraryEntry) IsFlight() bool {
	return e.Type == EntryTypeFlight
}

// IsHotel reports whether the entry is a hotel stay
func (e *ItineraryEntry) IsHotel() bool {
	return e.Type == EntryTypeHotel
}

// IsMedical reports whether the entry is the medical consultation record
func (e *ItineraryEntry) IsMedical() bool {
	return e.Type == EntryTypeTicket && e.Metadata.MedicalType != ""
}

// IsAttraction reports whether the entry is a sightseeing record
func (e *ItineraryEntry) IsAttraction() bool {
	return e.Type == EntryTypeTicket && e.Metadata.AttractionType != "" && e.Metadata.MedicalType == ""
}

// HasDates reports whether both start and end are present
func (e *ItineraryEntry) HasDates() bool {
	return !e.StartDate.IsZero() && !e.EndDate.IsZero()
}

// String is used in logs
func (e *ItineraryEntry) String() string {
	return fmt.Sprintf("%s[%s %q %s..%s]", e.ID, e.Type, e.Location,
		e.StartDate.Format(time.RFC3339), e.EndDate.Format(time.RFC3339))
}

// EntryPatch holds only the fields a repair pass changed. Nil fields are left untouched.
type EntryPatch struct {
	Name            *string
	Description     *string
	StartDate       *time.Time
	EndDate         *time.Time
	Location        *string
	Price           *float64
	DurationMinutes *int
	Metadata        *EntryMetadata
	Status          *string
}

// IsEmpty reports whether the patch changes nothing
func (p EntryPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.StartDate == nil && p.EndDate == nil &&
		p.Location == nil && p.Price == nil && p.DurationMinutes == nil && p.Metadata == nil &&
		p.Status == nil
}

// Apply writes the patch onto e and stamps UpdatedAt
func (p EntryPatch) Apply(e *ItineraryEntry, now time.Time) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		e.EndDate = *p.EndDate
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Price != nil {
		e.Price = *p.Price
	}
	if p.DurationMinutes != nil {
		e.DurationMinutes = *p.DurationMinutes
	}
	if p.Metadata != nil {
		e.Metadata = *p.Metadata
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	e.UpdatedAt = now
}
