package domain

import "time"

type Hotel struct {
	ID                 int64
	Name               string
	Title              string
	City               string
	Address            string
	DistanceFromCenter *float64 // km from city center, optional
	Rating             float64  // running average, one-decimal fold (see rating.go)
	NumberOfRatings    int
}

type Room struct {
	ID          int64
	HotelID     int64
	Name        string
	Description string
	Number      string
	PriceCents  int64 // flat per-night rate
	MaxGuests   int
}

// HotelSearchCriteria is a sparse filter: nil fields impose no constraint,
// set fields AND together.
type HotelSearchCriteria struct {
	ID              *int64
	Name            *string // case-insensitive substring
	Title           *string // case-insensitive substring
	City            *string // case-insensitive exact
	Address         *string // case-insensitive substring
	MinDistance     *float64
	MaxDistance     *float64
	MinRating       *float64
	MaxRating       *float64
	MinRatingsCount *int
	MaxRatingsCount *int
}

// RoomSearchCriteria mirrors HotelSearchCriteria for rooms. Guests matches
// rooms whose capacity is at least the requested head count. When both dates
// are set and CheckInDate < CheckOutDate, rooms with an overlapping booking
// are excluded; otherwise the window is ignored.
type RoomSearchCriteria struct {
	ID            *int64
	Name          *string
	MinPriceCents *int64
	MaxPriceCents *int64
	Guests        *int
	HotelID       *int64
	CheckInDate   *time.Time
	CheckOutDate  *time.Time
}
