package entity

import "time"

// Order holds the booking anchors read by the itinerary core. Orders are created and owned
// by the booking flow; the core only reads them and updates the appointment date.
type Order struct {
	ID                    string     `json:"id"`
	UserID                string     `json:"userId"`
	Status                string     `json:"status"`
	DoctorAppointmentDate *time.Time `json:"doctorAppointmentDate,omitempty"`
	TicketFee             float64    `json:"ticketFee"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// OrderPatch lists the order fields the core may write
type OrderPatch struct {
	DoctorAppointmentDate *time.Time
}
