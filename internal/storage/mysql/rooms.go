package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"hotel_booking/internal/domain"
)

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) (domain.Room, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, hotelExistsSQL, rm.HotelID).Scan(&exists); err != nil {
		return domain.Room{}, err
	}
	if !exists {
		return domain.Room{}, fmt.Errorf("hotel %d: %w", rm.HotelID, domain.ErrNotFound)
	}

	res, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.HotelID, rm.Name, rm.Description, rm.Number, rm.PriceCents, rm.MaxGuests)
	if err != nil {
		return domain.Room{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Room{}, err
	}
	rm.ID = id
	return rm, nil
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, getRoomSQL, id))
	if err == sql.ErrNoRows {
		return domain.Room{}, fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
	}
	return rm, err
}

func (r *Repo) UpdateRoom(ctx context.Context, rm domain.Room) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, hotelExistsSQL, rm.HotelID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("hotel %d: %w", rm.HotelID, domain.ErrNotFound)
	}

	res, err := r.db.ExecContext(ctx, updateRoomSQL,
		rm.HotelID, rm.Name, rm.Description, rm.Number, rm.PriceCents, rm.MaxGuests, rm.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var roomExists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = ?)`, rm.ID).Scan(&roomExists); err != nil {
			return err
		}
		if !roomExists {
			return fmt.Errorf("room %d: %w", rm.ID, domain.ErrNotFound)
		}
	}
	return nil
}

// DeleteRoom removes the room and its bookings in one transaction; a booking
// cannot outlive its room.
func (r *Repo) DeleteRoom(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var locked int64
	if err := tx.QueryRowContext(ctx, lockRoomSQL, id).Scan(&locked); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteRoomBookingsSQL, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteRoomSQL, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) ListRooms(ctx context.Context, q domain.PageQuery) (domain.Page[domain.Room], error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, countRoomsSQL).Scan(&total); err != nil {
		return domain.Page[domain.Room]{}, err
	}
	rows, err := r.db.QueryContext(ctx, listRoomsSQL, q.Limit(), q.Offset())
	if err != nil {
		return domain.Page[domain.Room]{}, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return domain.Page[domain.Room]{}, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Room]{}, err
	}
	return domain.NewPage(out, q, total), nil
}

func (r *Repo) SearchRooms(ctx context.Context, c domain.RoomSearchCriteria, q domain.PageQuery) (domain.Page[domain.Room], error) {
	where, args := BuildRoomFilter(c)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms r WHERE `+where, args...).Scan(&total); err != nil {
		return domain.Page[domain.Room]{}, err
	}

	listSQL := `SELECT ` + roomColumns + ` FROM rooms r WHERE ` + where + ` ORDER BY r.id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, listSQL, append(args, q.Limit(), q.Offset())...)
	if err != nil {
		return domain.Page[domain.Room]{}, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return domain.Page[domain.Room]{}, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Room]{}, err
	}
	return domain.NewPage(out, q, total), nil
}
