package models

// Slot is one bookable hour of a venue on a given day.
type Slot struct {
	StartTime   string `json:"start_time"` // "HH:MM"
	EndTime     string `json:"end_time"`   // "HH:MM"
	IsAvailable bool   `json:"is_available"`
}

// Availability is the payload of GET /venues/{id}/availability/.
type Availability struct {
	VenueID      int64  `json:"venue_id,omitempty"`
	VenueName    string `json:"venue_name,omitempty"`
	Date         string `json:"date"`
	PricePerHour Amount `json:"price_per_hour"`
	Slots        []Slot `json:"slots"`
}
