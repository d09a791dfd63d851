package models

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Booking is a booking record as returned by the backend.
type Booking struct {
	ID          int64     `json:"id"`
	User        int64     `json:"user"`
	Venue       int64     `json:"venue"`
	VenueDetail *Venue    `json:"venue_detail,omitempty"`
	BookingDate string    `json:"booking_date"` // "YYYY-MM-DD"
	StartTime   string    `json:"start_time"`   // "HH:MM:SS"
	EndTime     string    `json:"end_time"`
	TotalPrice  Amount    `json:"total_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Cancellable reports whether the backend accepts a cancel for this booking.
func (b Booking) Cancellable() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// BookingCreate is the body of POST /bookings/.
type BookingCreate struct {
	Venue       int64  `json:"venue"`
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type BookingList struct {
	Count   int       `json:"count"`
	Results []Booking `json:"results"`
}
