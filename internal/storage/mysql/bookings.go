package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hotel_booking/internal/domain"
)

// CreateBooking runs the admission check and the insert in one transaction.
// The room row is locked first, so two concurrent admissions for the same
// room serialize: the second sees the first's insert and gets ErrConflict.
func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Booking{}, err
	}
	defer tx.Rollback()

	var roomID int64
	if err := tx.QueryRowContext(ctx, lockRoomSQL, b.RoomID).Scan(&roomID); err != nil {
		if err == sql.ErrNoRows {
			return domain.Booking{}, fmt.Errorf("room %d: %w", b.RoomID, domain.ErrNotFound)
		}
		return domain.Booking{}, err
	}

	var conflict bool
	if err := tx.QueryRowContext(ctx, overlapExistsSQL, b.RoomID, b.CheckOutDate, b.CheckInDate).Scan(&conflict); err != nil {
		return domain.Booking{}, err
	}
	if conflict {
		return domain.Booking{}, fmt.Errorf("room %d unavailable for dates: %w", b.RoomID, domain.ErrConflict)
	}

	res, err := tx.ExecContext(ctx, insertBookingSQL, b.RoomID, b.UserID, b.CheckInDate, b.CheckOutDate)
	if err != nil {
		return domain.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Booking{}, err
	}
	b.ID = id
	return b, nil
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if err == sql.ErrNoRows {
		return domain.Booking{}, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	return b, err
}

// DeleteBooking hard-deletes the row. A concurrent cancel-then-read sees
// either the booking or a clean not-found, never a partial state.
func (r *Repo) DeleteBooking(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteBookingSQL, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) ListUserBookings(ctx context.Context, userID int64, q domain.PageQuery) (domain.Page[domain.Booking], error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, countUserBookingsSQL, userID).Scan(&total); err != nil {
		return domain.Page[domain.Booking]{}, err
	}
	rows, err := r.db.QueryContext(ctx, listUserBookingsSQL, userID, q.Limit(), q.Offset())
	if err != nil {
		return domain.Page[domain.Booking]{}, err
	}
	defer rows.Close()
	return collectBookings(rows, q, total)
}

func (r *Repo) ListBookings(ctx context.Context, q domain.PageQuery) (domain.Page[domain.Booking], error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, countBookingsSQL).Scan(&total); err != nil {
		return domain.Page[domain.Booking]{}, err
	}
	rows, err := r.db.QueryContext(ctx, listBookingsSQL, q.Limit(), q.Offset())
	if err != nil {
		return domain.Page[domain.Booking]{}, err
	}
	defer rows.Close()
	return collectBookings(rows, q, total)
}

func collectBookings(rows *sql.Rows, q domain.PageQuery, total int64) (domain.Page[domain.Booking], error) {
	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return domain.Page[domain.Booking]{}, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Booking]{}, err
	}
	return domain.NewPage(out, q, total), nil
}

// HasOverlap is the availability read path used outside the admission
// transaction (e.g. pre-checks); admission itself re-runs the predicate
// under the room lock.
func (r *Repo) HasOverlap(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, overlapExistsSQL, roomID, checkOut, checkIn).Scan(&exists)
	return exists, err
}
