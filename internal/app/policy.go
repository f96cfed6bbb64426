package app

import (
	"fmt"

	"hotel_booking/internal/domain"
)

// CanAccessBooking reports whether the actor may read or cancel a booking.
// Admins reach every booking; everyone else only their own.
func CanAccessBooking(actorID int64, role domain.Role, b domain.Booking) bool {
	return role == domain.RoleAdmin || b.UserID == actorID
}

func forbiddenBooking(id int64) error {
	return fmt.Errorf("booking %d: %w", id, domain.ErrForbidden)
}
