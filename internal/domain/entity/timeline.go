package entity

import "time"

// Severity of a timeline issue
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityWarning  Severity = "warning"
)

// Issue types reported by validation
const (
	IssueFlightCount             = "flight_count"
	IssueFlightOrder             = "flight_order"
	IssueFlightDirection         = "flight_direction"
	IssueLocationParse           = "location_parse"
	IssueAppointmentBeforeArrive = "appointment_before_arrival"
	IssueMedicalBeforeArrival    = "medical_before_arrival"
	IssueHotelBeforeArrival      = "hotel_before_arrival"
	IssueHotelDatesInverted      = "hotel_dates_inverted"
	IssueAttractionBeforeMedical = "attraction_before_medical"
	IssueNoAvailableSlot         = "no_available_slot"
)

// TimelineIssue is output-only and never persisted
type TimelineIssue struct {
	Type       string   `json:"type"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
}

// Timeline item kinds
const (
	ItemKindFlight      = "flight"
	ItemKindHotel       = "hotel"
	ItemKindTicket      = "ticket"
	ItemKindAppointment = "appointment"
)

// FlightView is the display breakdown of a flight entry
type FlightView struct {
	IsDirect             bool            `json:"isDirect"`
	Segments             []FlightSegment `json:"segments"`
	ConnectionCity       string          `json:"connectionCity,omitempty"`
	LayoverMinutes       int             `json:"layoverMinutes,omitempty"`
	Layover              string          `json:"layover,omitempty"`
	TotalDurationMinutes int             `json:"totalDurationMinutes,omitempty"`
	FromLegacy           bool            `json:"fromLegacy,omitempty"`
}

// TimelineItem is one display-ready row of a projected timeline
type TimelineItem struct {
	EntryID         string      `json:"entryId,omitempty"`
	Kind            string      `json:"kind"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	Location        string      `json:"location,omitempty"`
	Start           time.Time   `json:"start"`
	End             time.Time   `json:"end,omitempty"`
	DurationMinutes int         `json:"durationMinutes,omitempty"`
	Nights          int         `json:"nights,omitempty"`
	Flight          *FlightView `json:"flight,omitempty"`
	Status          string      `json:"status,omitempty"`
}

// Timeline is the chronologically sorted projection of an order
type Timeline struct {
	OrderID string         `json:"orderId"`
	Items   []TimelineItem `json:"items"`
}
