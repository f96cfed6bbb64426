package app

import (
	"context"
	"fmt"
	"time"

	"hotel_booking/internal/domain"
)

// HotelService fronts the hotel repository with a cache-aside read path.
// Every write invalidates the cached row, so a read after a rating fold
// sees the new average.
type HotelService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewHotelService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *HotelService {
	return &HotelService{repo: r, cache: c, cacheTTL: ttl}
}

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

func (s *HotelService) Create(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	// New hotels always start unrated, whatever the caller sent.
	h.Rating = 0
	h.NumberOfRatings = 0
	return s.repo.CreateHotel(ctx, h)
}

func (s *HotelService) Get(ctx context.Context, id int64) (domain.Hotel, error) {
	key := hotelKey(id)
	if s.cache != nil {
		var h domain.Hotel
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, s.cacheTTL)
	}
	return h, nil
}

func (s *HotelService) Update(ctx context.Context, h domain.Hotel) error {
	if err := s.repo.UpdateHotel(ctx, h); err != nil {
		return err
	}
	s.invalidate(ctx, h.ID)
	return nil
}

func (s *HotelService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *HotelService) List(ctx context.Context, q domain.PageQuery) (domain.Page[domain.Hotel], error) {
	return s.repo.ListHotels(ctx, q.Normalize())
}

func (s *HotelService) Search(ctx context.Context, c domain.HotelSearchCriteria, q domain.PageQuery) (domain.Page[domain.Hotel], error) {
	return s.repo.SearchHotels(ctx, c, q.Normalize())
}

// Rate folds one vote into the hotel's running average.
func (s *HotelService) Rate(ctx context.Context, id int64, vote int) (domain.Hotel, error) {
	if err := domain.ValidateRating(vote); err != nil {
		return domain.Hotel{}, err
	}
	h, err := s.repo.ApplyRating(ctx, id, vote)
	if err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx, id)
	return h, nil
}

func (s *HotelService) invalidate(ctx context.Context, id int64) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, hotelKey(id))
	}
}
