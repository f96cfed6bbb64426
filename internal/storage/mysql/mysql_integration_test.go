//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_booking/internal/domain"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotel_booking",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/hotel_booking?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func seedUser(t *testing.T, repo *mysqlrepo.Repo, username string) domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), domain.User{
		Username: username, Email: username + "@example.com", PasswordHash: "x", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedHotel(t *testing.T, repo *mysqlrepo.Repo, name string) domain.Hotel {
	t.Helper()
	h, err := repo.CreateHotel(context.Background(), domain.Hotel{
		Name: name, Title: name + " title", City: "Lisbon", Address: "Rua 1",
	})
	if err != nil {
		t.Fatalf("seed hotel: %v", err)
	}
	return h
}

func seedRoom(t *testing.T, repo *mysqlrepo.Repo, hotelID int64, name string) domain.Room {
	t.Helper()
	rm, err := repo.CreateRoom(context.Background(), domain.Room{
		HotelID: hotelID, Name: name, Number: name, PriceCents: 12000, MaxGuests: 2,
	})
	if err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return rm
}

func TestRepo_MySQL(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	t.Run("booking lifecycle and overlap", func(t *testing.T) {
		user := seedUser(t, repo, "ana")
		hotel := seedHotel(t, repo, "Grand")
		room := seedRoom(t, repo, hotel.ID, "101")

		first, err := repo.CreateBooking(ctx, domain.Booking{
			RoomID: room.ID, UserID: user.ID,
			CheckInDate: day(t, "2030-12-01"), CheckOutDate: day(t, "2030-12-10"),
		})
		if err != nil {
			t.Fatalf("first booking: %v", err)
		}
		if first.ID == 0 {
			t.Fatal("first booking got no id")
		}

		// Overlapping window is rejected with ErrConflict.
		_, err = repo.CreateBooking(ctx, domain.Booking{
			RoomID: room.ID, UserID: user.ID,
			CheckInDate: day(t, "2030-12-05"), CheckOutDate: day(t, "2030-12-12"),
		})
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("want ErrConflict, got %v", err)
		}

		// Touching window (checkout == checkin) is admitted.
		if _, err := repo.CreateBooking(ctx, domain.Booking{
			RoomID: room.ID, UserID: user.ID,
			CheckInDate: day(t, "2030-12-10"), CheckOutDate: day(t, "2030-12-15"),
		}); err != nil {
			t.Fatalf("touching booking: %v", err)
		}

		ok, err := repo.HasOverlap(ctx, room.ID, day(t, "2030-12-09"), day(t, "2030-12-11"))
		if err != nil || !ok {
			t.Fatalf("HasOverlap = %v, %v; want true", ok, err)
		}

		if err := repo.DeleteBooking(ctx, first.ID); err != nil {
			t.Fatalf("delete booking: %v", err)
		}
		if err := repo.DeleteBooking(ctx, first.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("second delete: want ErrNotFound, got %v", err)
		}
		if _, err := repo.GetBooking(ctx, first.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("get after delete: want ErrNotFound, got %v", err)
		}
	})

	t.Run("concurrent bookings admit exactly one", func(t *testing.T) {
		user := seedUser(t, repo, "bob")
		hotel := seedHotel(t, repo, "Racey")
		room := seedRoom(t, repo, hotel.ID, "201")

		const n = 8
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = repo.CreateBooking(ctx, domain.Booking{
					RoomID: room.ID, UserID: user.ID,
					CheckInDate: day(t, "2031-01-01"), CheckOutDate: day(t, "2031-01-05"),
				})
			}(i)
		}
		wg.Wait()

		var successes, conflicts int
		for _, err := range errs {
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if successes != 1 || conflicts != n-1 {
			t.Fatalf("successes=%d conflicts=%d, want 1/%d", successes, conflicts, n-1)
		}
	})

	t.Run("concurrent ratings lose no update", func(t *testing.T) {
		hotel := seedHotel(t, repo, "Rated")

		const n = 16
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(vote int) {
				defer wg.Done()
				if _, err := repo.ApplyRating(ctx, hotel.ID, vote); err != nil {
					t.Errorf("ApplyRating: %v", err)
				}
			}(1 + i%5)
		}
		wg.Wait()

		got, err := repo.GetHotel(ctx, hotel.ID)
		if err != nil {
			t.Fatalf("GetHotel: %v", err)
		}
		if got.NumberOfRatings != n {
			t.Fatalf("numberOfRatings = %d, want %d", got.NumberOfRatings, n)
		}
	})

	t.Run("rating fold sequence", func(t *testing.T) {
		hotel := seedHotel(t, repo, "FoldSeq")
		if _, err := repo.ApplyRating(ctx, hotel.ID, 5); err != nil {
			t.Fatalf("rate 5: %v", err)
		}
		got, err := repo.ApplyRating(ctx, hotel.ID, 3)
		if err != nil {
			t.Fatalf("rate 3: %v", err)
		}
		if got.Rating != 4.0 || got.NumberOfRatings != 2 {
			t.Fatalf("rating=%v count=%d, want 4.0/2", got.Rating, got.NumberOfRatings)
		}
	})

	t.Run("hotel cascade delete", func(t *testing.T) {
		user := seedUser(t, repo, "cleo")
		hotel := seedHotel(t, repo, "Doomed")
		room := seedRoom(t, repo, hotel.ID, "301")
		booking, err := repo.CreateBooking(ctx, domain.Booking{
			RoomID: room.ID, UserID: user.ID,
			CheckInDate: day(t, "2032-03-01"), CheckOutDate: day(t, "2032-03-03"),
		})
		if err != nil {
			t.Fatalf("booking: %v", err)
		}

		if err := repo.DeleteHotel(ctx, hotel.ID); err != nil {
			t.Fatalf("DeleteHotel: %v", err)
		}
		if _, err := repo.GetRoom(ctx, room.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("room survived cascade: %v", err)
		}
		if _, err := repo.GetBooking(ctx, booking.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("booking survived cascade: %v", err)
		}
	})

	t.Run("room search with availability window", func(t *testing.T) {
		user := seedUser(t, repo, "dana")
		hotel := seedHotel(t, repo, "Searchable")
		busy := seedRoom(t, repo, hotel.ID, "401")
		free := seedRoom(t, repo, hotel.ID, "402")
		if _, err := repo.CreateBooking(ctx, domain.Booking{
			RoomID: busy.ID, UserID: user.ID,
			CheckInDate: day(t, "2033-06-01"), CheckOutDate: day(t, "2033-06-10"),
		}); err != nil {
			t.Fatalf("booking: %v", err)
		}

		in, out := day(t, "2033-06-05"), day(t, "2033-06-07")
		page, err := repo.SearchRooms(ctx, domain.RoomSearchCriteria{
			HotelID: &hotel.ID, CheckInDate: &in, CheckOutDate: &out,
		}, domain.PageQuery{Page: 1, Size: 20})
		if err != nil {
			t.Fatalf("SearchRooms: %v", err)
		}
		if len(page.Items) != 1 || page.Items[0].ID != free.ID {
			t.Fatalf("expected only the free room, got %+v", page.Items)
		}

		// Inverted window is ignored: both rooms come back.
		page, err = repo.SearchRooms(ctx, domain.RoomSearchCriteria{
			HotelID: &hotel.ID, CheckInDate: &out, CheckOutDate: &in,
		}, domain.PageQuery{Page: 1, Size: 20})
		if err != nil {
			t.Fatalf("SearchRooms inverted: %v", err)
		}
		if len(page.Items) != 2 {
			t.Fatalf("inverted window should ignore filter, got %d rooms", len(page.Items))
		}
	})

	t.Run("hotel search by city and rating", func(t *testing.T) {
		h, err := repo.CreateHotel(ctx, domain.Hotel{
			Name: "Central", Title: "Central Plaza", City: "Porto", Address: "Av 2",
		})
		if err != nil {
			t.Fatalf("CreateHotel: %v", err)
		}
		if _, err := repo.ApplyRating(ctx, h.ID, 5); err != nil {
			t.Fatalf("ApplyRating: %v", err)
		}

		city := "porto"
		minRating := 4.0
		page, err := repo.SearchHotels(ctx, domain.HotelSearchCriteria{
			City: &city, MinRating: &minRating,
		}, domain.PageQuery{Page: 1, Size: 20})
		if err != nil {
			t.Fatalf("SearchHotels: %v", err)
		}
		if len(page.Items) != 1 || page.Items[0].ID != h.ID {
			t.Fatalf("expected the Porto hotel, got %+v", page.Items)
		}
	})
}
