package domain

import (
	"context"
	"time"
)

// PageQuery selects one page of a list; Page is 1-based.
type PageQuery struct {
	Page int
	Size int
}

func (q PageQuery) Limit() int  { return q.Size }
func (q PageQuery) Offset() int { return (q.Page - 1) * q.Size }

// Normalize clamps out-of-range page parameters to usable defaults.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 || q.Size > 100 {
		q.Size = 20
	}
	return q
}

// Page carries one page of items plus total-count metadata from the store.
type Page[T any] struct {
	Items      []T
	Page       int
	Size       int
	TotalItems int64
	TotalPages int
}

func NewPage[T any](items []T, q PageQuery, total int64) Page[T] {
	pages := int(total) / q.Size
	if int(total)%q.Size != 0 {
		pages++
	}
	return Page[T]{Items: items, Page: q.Page, Size: q.Size, TotalItems: total, TotalPages: pages}
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

type HotelRepository interface {
	CreateHotel(ctx context.Context, h Hotel) (Hotel, error)
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	UpdateHotel(ctx context.Context, h Hotel) error
	// DeleteHotel removes the hotel, its rooms and their bookings in one
	// transaction.
	DeleteHotel(ctx context.Context, id int64) error
	ListHotels(ctx context.Context, q PageQuery) (Page[Hotel], error)
	SearchHotels(ctx context.Context, c HotelSearchCriteria, q PageQuery) (Page[Hotel], error)
	// ApplyRating folds one vote into the hotel row under a row lock, so
	// concurrent raters cannot lose updates.
	ApplyRating(ctx context.Context, hotelID int64, vote int) (Hotel, error)
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, r Room) (Room, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	UpdateRoom(ctx context.Context, r Room) error
	// DeleteRoom removes the room and its bookings in one transaction.
	DeleteRoom(ctx context.Context, id int64) error
	ListRooms(ctx context.Context, q PageQuery) (Page[Room], error)
	SearchRooms(ctx context.Context, c RoomSearchCriteria, q PageQuery) (Page[Room], error)
}

type BookingRepository interface {
	// CreateBooking runs the admission check and the insert as one atomic
	// unit per room: of two concurrent calls with overlapping windows on
	// the same room, exactly one succeeds and the other gets ErrConflict.
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	ListUserBookings(ctx context.Context, userID int64, q PageQuery) (Page[Booking], error)
	ListBookings(ctx context.Context, q PageQuery) (Page[Booking], error)
	// HasOverlap answers whether the room has any booking intersecting the
	// half-open window [checkIn, checkOut).
	HasOverlap(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error)
}

type StatisticsRepository interface {
	SaveRecord(ctx context.Context, rec StatisticsRecord) error
	ListRecords(ctx context.Context) ([]StatisticsRecord, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// EventPublisher is the fire-and-forget notifier boundary. Implementations
// must not require delivery confirmation from callers.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}
