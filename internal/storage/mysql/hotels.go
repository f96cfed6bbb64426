package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"hotel_booking/internal/domain"
)

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.Name, h.Title, h.City, h.Address, valF64(h.DistanceFromCenter))
	if err != nil {
		return domain.Hotel{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Hotel{}, err
	}
	h.ID = id
	h.Rating = 0
	h.NumberOfRatings = 0
	return h, nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if err == sql.ErrNoRows {
		return domain.Hotel{}, fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
	}
	return h, err
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	res, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, h.Title, h.City, h.Address, valF64(h.DistanceFromCenter), h.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "missing" from "unchanged": an UPDATE matching an
		// identical row also reports zero affected rows on MySQL.
		var exists bool
		if err := r.db.QueryRowContext(ctx, hotelExistsSQL, h.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("hotel %d: %w", h.ID, domain.ErrNotFound)
		}
	}
	return nil
}

// DeleteHotel removes the hotel and everything it owns. The fan-out is
// explicit so the cost and failure mode stay visible: bookings of its rooms
// first, then the rooms, then the hotel itself, all in one transaction.
func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var locked int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM hotels WHERE id = ? FOR UPDATE`, id).Scan(&locked); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteHotelBookingsSQL, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteHotelRoomsSQL, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteHotelSQL, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) ListHotels(ctx context.Context, q domain.PageQuery) (domain.Page[domain.Hotel], error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, countHotelsSQL).Scan(&total); err != nil {
		return domain.Page[domain.Hotel]{}, err
	}
	rows, err := r.db.QueryContext(ctx, listHotelsSQL, q.Limit(), q.Offset())
	if err != nil {
		return domain.Page[domain.Hotel]{}, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return domain.Page[domain.Hotel]{}, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Hotel]{}, err
	}
	return domain.NewPage(out, q, total), nil
}

func (r *Repo) SearchHotels(ctx context.Context, c domain.HotelSearchCriteria, q domain.PageQuery) (domain.Page[domain.Hotel], error) {
	where, args := BuildHotelFilter(c)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hotels h WHERE `+where, args...).Scan(&total); err != nil {
		return domain.Page[domain.Hotel]{}, err
	}

	listSQL := `SELECT ` + hotelColumns + ` FROM hotels h WHERE ` + where + ` ORDER BY h.id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, listSQL, append(args, q.Limit(), q.Offset())...)
	if err != nil {
		return domain.Page[domain.Hotel]{}, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return domain.Page[domain.Hotel]{}, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Hotel]{}, err
	}
	return domain.NewPage(out, q, total), nil
}

// ApplyRating folds one vote into the hotel row. The row stays locked from
// read to write, so concurrent raters serialize and no update is lost.
func (r *Repo) ApplyRating(ctx context.Context, hotelID int64, vote int) (domain.Hotel, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Hotel{}, err
	}
	defer tx.Rollback()

	h, err := scanHotel(tx.QueryRowContext(ctx, lockHotelSQL, hotelID))
	if err == sql.ErrNoRows {
		return domain.Hotel{}, fmt.Errorf("hotel %d: %w", hotelID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Hotel{}, err
	}

	h.Rating, h.NumberOfRatings = domain.FoldRating(h.Rating, h.NumberOfRatings, vote)

	if _, err := tx.ExecContext(ctx, updateHotelRatingSQL, h.Rating, h.NumberOfRatings, hotelID); err != nil {
		return domain.Hotel{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}
