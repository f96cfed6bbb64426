package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"hotel_booking/internal/domain"
)

// Query-string parsing for the search endpoints. Absent parameters stay
// nil so the filter builder skips them.

func qStr(v url.Values, key string) *string {
	if !v.Has(key) {
		return nil
	}
	s := v.Get(key)
	return &s
}

func qInt64(v url.Values, key string) (*int64, error) {
	if !v.Has(key) {
		return nil, nil
	}
	n, err := strconv.ParseInt(v.Get(key), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

func qInt(v url.Values, key string) (*int, error) {
	if !v.Has(key) {
		return nil, nil
	}
	n, err := strconv.Atoi(v.Get(key))
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

func qFloat(v url.Values, key string) (*float64, error) {
	if !v.Has(key) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v.Get(key), 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &f, nil
}

func qDate(v url.Values, key string) (*time.Time, error) {
	if !v.Has(key) {
		return nil, nil
	}
	d, err := time.Parse(domain.DateLayout, v.Get(key))
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD", key)
	}
	return &d, nil
}

func parseHotelCriteria(r *http.Request) (domain.HotelSearchCriteria, error) {
	v := r.URL.Query()
	var c domain.HotelSearchCriteria
	var err error

	if c.ID, err = qInt64(v, "id"); err != nil {
		return c, err
	}
	c.Name = qStr(v, "name")
	c.Title = qStr(v, "title")
	c.City = qStr(v, "city")
	c.Address = qStr(v, "address")
	if c.MinDistance, err = qFloat(v, "minDistance"); err != nil {
		return c, err
	}
	if c.MaxDistance, err = qFloat(v, "maxDistance"); err != nil {
		return c, err
	}
	if c.MinRating, err = qFloat(v, "minRating"); err != nil {
		return c, err
	}
	if c.MaxRating, err = qFloat(v, "maxRating"); err != nil {
		return c, err
	}
	if c.MinRatingsCount, err = qInt(v, "minRatings"); err != nil {
		return c, err
	}
	if c.MaxRatingsCount, err = qInt(v, "maxRatings"); err != nil {
		return c, err
	}
	return c, nil
}

func parseRoomCriteria(r *http.Request) (domain.RoomSearchCriteria, error) {
	v := r.URL.Query()
	var c domain.RoomSearchCriteria
	var err error

	if c.ID, err = qInt64(v, "id"); err != nil {
		return c, err
	}
	c.Name = qStr(v, "name")
	if c.HotelID, err = qInt64(v, "hotelId"); err != nil {
		return c, err
	}
	if c.MinPriceCents, err = qInt64(v, "minPrice"); err != nil {
		return c, err
	}
	if c.MaxPriceCents, err = qInt64(v, "maxPrice"); err != nil {
		return c, err
	}
	if c.Guests, err = qInt(v, "guests"); err != nil {
		return c, err
	}
	if c.CheckInDate, err = qDate(v, "checkIn"); err != nil {
		return c, err
	}
	if c.CheckOutDate, err = qDate(v, "checkOut"); err != nil {
		return c, err
	}
	return c, nil
}
