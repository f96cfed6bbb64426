package app

import (
	"context"
	"fmt"

	"hotel_booking/internal/domain"
)

type RoomService struct {
	repo domain.RoomRepository
}

func NewRoomService(r domain.RoomRepository) *RoomService {
	return &RoomService{repo: r}
}

func (s *RoomService) Create(ctx context.Context, rm domain.Room) (domain.Room, error) {
	if err := validateRoom(rm); err != nil {
		return domain.Room{}, err
	}
	return s.repo.CreateRoom(ctx, rm)
}

func (s *RoomService) Get(ctx context.Context, id int64) (domain.Room, error) {
	return s.repo.GetRoom(ctx, id)
}

func (s *RoomService) Update(ctx context.Context, rm domain.Room) error {
	if err := validateRoom(rm); err != nil {
		return err
	}
	return s.repo.UpdateRoom(ctx, rm)
}

func (s *RoomService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteRoom(ctx, id)
}

func (s *RoomService) List(ctx context.Context, q domain.PageQuery) (domain.Page[domain.Room], error) {
	return s.repo.ListRooms(ctx, q.Normalize())
}

func (s *RoomService) Search(ctx context.Context, c domain.RoomSearchCriteria, q domain.PageQuery) (domain.Page[domain.Room], error) {
	return s.repo.SearchRooms(ctx, c, q.Normalize())
}

func validateRoom(rm domain.Room) error {
	if rm.PriceCents < 0 {
		return fmt.Errorf("price must not be negative: %w", domain.ErrValidation)
	}
	if rm.MaxGuests < 1 {
		return fmt.Errorf("maxGuests must be at least 1: %w", domain.ErrValidation)
	}
	return nil
}
