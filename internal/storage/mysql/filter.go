package mysql

import (
	"strings"

	"hotel_booking/internal/domain"
)

// The filter builders turn sparse search criteria into a WHERE clause with
// AND semantics: absent fields impose no constraint, so empty criteria
// match every row. They are pure; execution and pagination stay with the
// repository.

// BuildHotelFilter returns a clause valid after WHERE (aliased `h`) and its
// placeholder arguments.
func BuildHotelFilter(c domain.HotelSearchCriteria) (string, []any) {
	var preds []string
	var args []any

	if c.ID != nil {
		preds = append(preds, "h.id = ?")
		args = append(args, *c.ID)
	}
	if s := strVal(c.Name); s != "" {
		preds = append(preds, "LOWER(h.name) LIKE ?")
		args = append(args, contains(s))
	}
	if s := strVal(c.Title); s != "" {
		preds = append(preds, "LOWER(h.title) LIKE ?")
		args = append(args, contains(s))
	}
	if s := strVal(c.City); s != "" {
		preds = append(preds, "LOWER(h.city) = ?")
		args = append(args, strings.ToLower(s))
	}
	if s := strVal(c.Address); s != "" {
		preds = append(preds, "LOWER(h.address) LIKE ?")
		args = append(args, contains(s))
	}
	if c.MinDistance != nil {
		preds = append(preds, "h.distance_from_city_center >= ?")
		args = append(args, *c.MinDistance)
	}
	if c.MaxDistance != nil {
		preds = append(preds, "h.distance_from_city_center <= ?")
		args = append(args, *c.MaxDistance)
	}
	if c.MinRating != nil {
		preds = append(preds, "h.rating >= ?")
		args = append(args, *c.MinRating)
	}
	if c.MaxRating != nil {
		preds = append(preds, "h.rating <= ?")
		args = append(args, *c.MaxRating)
	}
	if c.MinRatingsCount != nil {
		preds = append(preds, "h.number_of_ratings >= ?")
		args = append(args, *c.MinRatingsCount)
	}
	if c.MaxRatingsCount != nil {
		preds = append(preds, "h.number_of_ratings <= ?")
		args = append(args, *c.MaxRatingsCount)
	}

	return join(preds), args
}

// BuildRoomFilter returns a clause valid after WHERE (aliased `r`) and its
// arguments. When both dates are present and checkIn < checkOut, rooms with
// an overlapping booking are excluded via NOT EXISTS; an inverted or empty
// window is ignored.
func BuildRoomFilter(c domain.RoomSearchCriteria) (string, []any) {
	var preds []string
	var args []any

	if c.ID != nil {
		preds = append(preds, "r.id = ?")
		args = append(args, *c.ID)
	}
	if s := strVal(c.Name); s != "" {
		preds = append(preds, "LOWER(r.name) LIKE ?")
		args = append(args, contains(s))
	}
	if c.MinPriceCents != nil {
		preds = append(preds, "r.price_cents >= ?")
		args = append(args, *c.MinPriceCents)
	}
	if c.MaxPriceCents != nil {
		preds = append(preds, "r.price_cents <= ?")
		args = append(args, *c.MaxPriceCents)
	}
	if c.Guests != nil {
		// "at least this many guests fit"
		preds = append(preds, "r.max_guests >= ?")
		args = append(args, *c.Guests)
	}
	if c.HotelID != nil {
		preds = append(preds, "r.hotel_id = ?")
		args = append(args, *c.HotelID)
	}
	if c.CheckInDate != nil && c.CheckOutDate != nil && c.CheckInDate.Before(*c.CheckOutDate) {
		preds = append(preds,
			"NOT EXISTS (SELECT 1 FROM bookings b WHERE b.room_id = r.id AND b.check_in_date < ? AND b.check_out_date > ?)")
		args = append(args, *c.CheckOutDate, *c.CheckInDate)
	}

	return join(preds), args
}

func join(preds []string) string {
	if len(preds) == 0 {
		return "1=1" // AND of zero predicates is true
	}
	return strings.Join(preds, " AND ")
}

func contains(s string) string { return "%" + strings.ToLower(s) + "%" }

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
