package app_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

type fakeStats struct {
	saved []domain.StatisticsRecord
}

func (f *fakeStats) SaveRecord(ctx context.Context, rec domain.StatisticsRecord) error {
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeStats) ListRecords(ctx context.Context) ([]domain.StatisticsRecord, error) {
	return f.saved, nil
}

func TestRecordBookingCreated(t *testing.T) {
	repo := &fakeStats{}
	svc := app.NewStatisticsService(repo, zerolog.Nop())

	ts := time.Date(2031, 5, 1, 10, 30, 0, 0, time.UTC)
	err := svc.RecordBookingCreated(context.Background(), domain.BookingCreatedEvent{
		UserID: 1, BookingID: 42, RoomID: 7,
		CheckInDate: "2031-05-02", CheckOutDate: "2031-05-05",
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved %d records", len(repo.saved))
	}
	rec := repo.saved[0]
	if rec.ID == "" {
		t.Fatal("record got no id")
	}
	if rec.EventType != domain.EventTypeBookingCreated || rec.UserID != 1 || !rec.OccurredAt.Equal(ts) {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Data["bookingId"] != int64(42) || rec.Data["checkInDate"] != "2031-05-02" {
		t.Fatalf("unexpected data: %+v", rec.Data)
	}
}

func TestExportCSV(t *testing.T) {
	repo := &fakeStats{saved: []domain.StatisticsRecord{
		{
			ID:         "rec-1",
			EventType:  domain.EventTypeBookingCreated,
			UserID:     1,
			OccurredAt: time.Date(2031, 5, 1, 10, 30, 0, 0, time.UTC),
			Data:       map[string]any{"bookingId": float64(42)},
		},
		{
			ID:         "rec-2",
			EventType:  domain.EventTypeUserRegistration,
			UserID:     2,
			OccurredAt: time.Date(2031, 5, 2, 8, 0, 5, 0, time.UTC),
		},
	}}
	svc := app.NewStatisticsService(repo, zerolog.Nop())

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), &buf); err != nil {
		t.Fatalf("err: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Event ID" || rows[0][4] != "Details" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "Booking Created" || rows[1][3] != "2031-05-01 10:30:00" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][1] != "User Registration" || rows[2][2] != "2" || rows[2][4] != "" {
		t.Fatalf("unexpected second row: %v", rows[2])
	}
}
