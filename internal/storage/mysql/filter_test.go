package mysql

import (
	"strings"
	"testing"
	"time"

	"hotel_booking/internal/domain"
)

func pstr(s string) *string     { return &s }
func pi64(v int64) *int64       { return &v }
func pint(v int) *int           { return &v }
func pfloat(v float64) *float64 { return &v }
func pdate(s string) *time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestBuildHotelFilter_Empty(t *testing.T) {
	where, args := BuildHotelFilter(domain.HotelSearchCriteria{})
	if where != "1=1" {
		t.Fatalf("empty criteria: where = %q", where)
	}
	if len(args) != 0 {
		t.Fatalf("empty criteria: args = %v", args)
	}
}

func TestBuildHotelFilter_AllFields(t *testing.T) {
	where, args := BuildHotelFilter(domain.HotelSearchCriteria{
		ID:              pi64(7),
		Name:            pstr("Grand"),
		Title:           pstr("Sea View"),
		City:            pstr("Lisbon"),
		Address:         pstr("Rua"),
		MinDistance:     pfloat(0.5),
		MaxDistance:     pfloat(3),
		MinRating:       pfloat(3.5),
		MaxRating:       pfloat(5),
		MinRatingsCount: pint(10),
		MaxRatingsCount: pint(500),
	})
	wantPreds := []string{
		"h.id = ?",
		"LOWER(h.name) LIKE ?",
		"LOWER(h.title) LIKE ?",
		"LOWER(h.city) = ?",
		"LOWER(h.address) LIKE ?",
		"h.distance_from_city_center >= ?",
		"h.distance_from_city_center <= ?",
		"h.rating >= ?",
		"h.rating <= ?",
		"h.number_of_ratings >= ?",
		"h.number_of_ratings <= ?",
	}
	for _, p := range wantPreds {
		if !strings.Contains(where, p) {
			t.Fatalf("missing predicate %q in %q", p, where)
		}
	}
	if len(args) != len(wantPreds) {
		t.Fatalf("args = %d, want %d", len(args), len(wantPreds))
	}
	if args[1] != "%grand%" || args[3] != "lisbon" {
		t.Fatalf("case folding broken: %v", args)
	}
}

func TestBuildRoomFilter_HotelIDOnly(t *testing.T) {
	where, args := BuildRoomFilter(domain.RoomSearchCriteria{HotelID: pi64(3)})
	if where != "r.hotel_id = ?" {
		t.Fatalf("where = %q", where)
	}
	if len(args) != 1 || args[0] != int64(3) {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildRoomFilter_AvailabilityWindow(t *testing.T) {
	where, args := BuildRoomFilter(domain.RoomSearchCriteria{
		CheckInDate:  pdate("2025-12-01"),
		CheckOutDate: pdate("2025-12-10"),
	})
	if !strings.Contains(where, "NOT EXISTS") ||
		!strings.Contains(where, "b.check_in_date < ?") ||
		!strings.Contains(where, "b.check_out_date > ?") {
		t.Fatalf("availability clause missing: %q", where)
	}
	// Overlap args go checkOut first, then checkIn.
	if len(args) != 2 || !args[0].(time.Time).Equal(*pdate("2025-12-10")) || !args[1].(time.Time).Equal(*pdate("2025-12-01")) {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildRoomFilter_InvertedWindowIgnored(t *testing.T) {
	for _, c := range []domain.RoomSearchCriteria{
		{CheckInDate: pdate("2025-12-10"), CheckOutDate: pdate("2025-12-01")},
		{CheckInDate: pdate("2025-12-10"), CheckOutDate: pdate("2025-12-10")},
		{CheckInDate: pdate("2025-12-01")}, // missing other end
	} {
		where, args := BuildRoomFilter(c)
		if where != "1=1" || len(args) != 0 {
			t.Fatalf("window should be a no-op, got where=%q args=%v", where, args)
		}
	}
}

func TestBuildRoomFilter_GuestsIsAtLeast(t *testing.T) {
	where, args := BuildRoomFilter(domain.RoomSearchCriteria{Guests: pint(4)})
	if where != "r.max_guests >= ?" {
		t.Fatalf("where = %q", where)
	}
	if len(args) != 1 || args[0] != 4 {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildRoomFilter_EmptyStringsIgnored(t *testing.T) {
	where, args := BuildRoomFilter(domain.RoomSearchCriteria{Name: pstr("")})
	if where != "1=1" || len(args) != 0 {
		t.Fatalf("empty name should be a no-op, got where=%q args=%v", where, args)
	}
}
