package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"hotel_booking/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func scanHotel(row interface{ Scan(...any) error }) (domain.Hotel, error) {
	var h domain.Hotel
	var dist sql.NullFloat64
	if err := row.Scan(&h.ID, &h.Name, &h.Title, &h.City, &h.Address, &dist, &h.Rating, &h.NumberOfRatings); err != nil {
		return domain.Hotel{}, err
	}
	if dist.Valid {
		d := dist.Float64
		h.DistanceFromCenter = &d
	}
	return h, nil
}

func scanRoom(row interface{ Scan(...any) error }) (domain.Room, error) {
	var r domain.Room
	var desc sql.NullString
	if err := row.Scan(&r.ID, &r.HotelID, &r.Name, &desc, &r.Number, &r.PriceCents, &r.MaxGuests); err != nil {
		return domain.Room{}, err
	}
	r.Description = desc.String
	return r, nil
}

func scanBooking(row interface{ Scan(...any) error }) (domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.RoomID, &b.UserID, &b.CheckInDate, &b.CheckOutDate); err != nil {
		return domain.Booking{}, err
	}
	b.CheckInDate = domain.ToDate(b.CheckInDate)
	b.CheckOutDate = domain.ToDate(b.CheckOutDate)
	return b, nil
}

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Username, u.Email, u.PasswordHash, string(u.Role))
	if err != nil {
		return domain.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id
	return u, nil
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	var role string
	err := r.db.QueryRowContext(ctx, getUserByUsernameSQL, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role)
	if err == sql.ErrNoRows {
		return domain.User{}, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}
