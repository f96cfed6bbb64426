package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hotel_booking/internal/domain"
)

// BookingService owns the booking lifecycle. Admission atomicity lives in
// the repository; this layer adds validation, access policy and the
// best-effort event emit after commit.
type BookingService struct {
	bookings domain.BookingRepository
	users    domain.UserRepository
	events   domain.EventPublisher
	log      zerolog.Logger
	now      func() time.Time
}

func NewBookingService(b domain.BookingRepository, u domain.UserRepository, ev domain.EventPublisher, log zerolog.Logger) *BookingService {
	return &BookingService{bookings: b, users: u, events: ev, log: log, now: time.Now}
}

func (s *BookingService) Create(ctx context.Context, username string, roomID int64, checkIn, checkOut time.Time) (domain.Booking, error) {
	checkIn = domain.ToDate(checkIn)
	checkOut = domain.ToDate(checkOut)
	today := domain.ToDate(s.now())
	if err := domain.ValidateStay(checkIn, checkOut, today); err != nil {
		return domain.Booking{}, err
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.Booking{}, err
	}

	b, err := s.bookings.CreateBooking(ctx, domain.Booking{
		RoomID:       roomID,
		UserID:       user.ID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
	})
	if err != nil {
		return domain.Booking{}, err
	}

	s.emitCreated(ctx, b)
	return b, nil
}

// emitCreated publishes after commit; the booking stands even if the
// broker is down.
func (s *BookingService) emitCreated(ctx context.Context, b domain.Booking) {
	if s.events == nil {
		return
	}
	evt := domain.BookingCreatedEvent{
		UserID:       b.UserID,
		BookingID:    b.ID,
		RoomID:       b.RoomID,
		CheckInDate:  b.CheckInDate.Format(domain.DateLayout),
		CheckOutDate: b.CheckOutDate.Format(domain.DateLayout),
		Timestamp:    s.now().UTC(),
	}
	if err := s.events.Publish(ctx, domain.TopicBookingEvents, evt); err != nil {
		s.log.Warn().Err(err).Int64("booking_id", b.ID).Msg("booking event not published")
	}
}

func (s *BookingService) GetByID(ctx context.Context, username string, role domain.Role, id int64) (domain.Booking, error) {
	actor, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.Booking{}, err
	}
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if !CanAccessBooking(actor.ID, role, b) {
		return domain.Booking{}, forbiddenBooking(id)
	}
	return b, nil
}

// Cancel removes a booking the actor may access, as long as the stay has
// not started yet.
func (s *BookingService) Cancel(ctx context.Context, username string, role domain.Role, id int64) error {
	actor, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if !CanAccessBooking(actor.ID, role, b) {
		return forbiddenBooking(id)
	}
	today := domain.ToDate(s.now())
	if b.CheckInDate.Before(today) {
		return fmt.Errorf("booking %d already started: %w", id, domain.ErrValidation)
	}
	return s.bookings.DeleteBooking(ctx, id)
}

func (s *BookingService) ListForUser(ctx context.Context, username string, q domain.PageQuery) (domain.Page[domain.Booking], error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.Page[domain.Booking]{}, err
	}
	return s.bookings.ListUserBookings(ctx, user.ID, q.Normalize())
}

func (s *BookingService) ListAll(ctx context.Context, role domain.Role, q domain.PageQuery) (domain.Page[domain.Booking], error) {
	if role != domain.RoleAdmin {
		return domain.Page[domain.Booking]{}, fmt.Errorf("listing all bookings: %w", domain.ErrForbidden)
	}
	return s.bookings.ListBookings(ctx, q.Normalize())
}
