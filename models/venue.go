package models

import "time"

type VenueImage struct {
	ID        int64  `json:"id"`
	Image     string `json:"image"`
	IsPrimary bool   `json:"is_primary"`
}

type Venue struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Address      string       `json:"address"`
	Description  string       `json:"description"`
	PricePerHour Amount       `json:"price_per_hour"`
	Amenities    []string     `json:"amenities"`
	Images       []VenueImage `json:"images"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// VenuePage is one page of the paginated venue list.
type VenuePage struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Venue `json:"results"`
}

// VenueFilter carries the list query; zero values are not sent.
type VenueFilter struct {
	Page     int    `form:"page"`
	Search   string `form:"search"`
	MinPrice string `form:"min_price"`
	MaxPrice string `form:"max_price"`
}
