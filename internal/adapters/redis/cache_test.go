package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/domain"
)

func newTestCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	in := domain.Hotel{ID: 7, Name: "Grand", City: "Lisbon", Rating: 4.3, NumberOfRatings: 12}
	if err := c.Set(ctx, "hotel:7", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out domain.Hotel
	ok, err := c.Get(ctx, "hotel:7", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.Name != "Grand" || out.Rating != 4.3 || out.NumberOfRatings != 12 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestCache_MissAndDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var out domain.Hotel
	ok, err := c.Get(ctx, "hotel:404", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("unexpected hit on empty cache")
	}

	if err := c.Set(ctx, "hotel:1", domain.Hotel{ID: 1}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "hotel:1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "hotel:1", &out)
	if err != nil || ok {
		t.Fatalf("expected miss after delete, ok=%v err=%v", ok, err)
	}
}
