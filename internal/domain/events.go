package domain

import "time"

// Broker topics crossing the Event Notifier boundary.
const (
	TopicBookingEvents     = "booking-events"
	TopicUserRegistrations = "user-registration-events"
)

// Statistics record event types.
const (
	EventTypeBookingCreated   = "BOOKING_CREATED"
	EventTypeUserRegistration = "USER_REGISTRATION"
)

// BookingCreatedEvent is published after a booking row is committed.
// Delivery is best-effort; the booking is authoritative without it.
type BookingCreatedEvent struct {
	UserID       int64     `json:"userId"`
	BookingID    int64     `json:"bookingId"`
	RoomID       int64     `json:"roomId"`
	CheckInDate  string    `json:"checkInDate"`
	CheckOutDate string    `json:"checkOutDate"`
	Timestamp    time.Time `json:"timestamp"`
}

type UserRegisteredEvent struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// StatisticsRecord is the durable form an event takes in the analytics sink.
type StatisticsRecord struct {
	ID         string
	EventType  string
	UserID     int64
	OccurredAt time.Time
	Data       map[string]any
}
