package app

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hotel_booking/internal/domain"
)

const exportTimeLayout = "2006-01-02 15:04:05"

// StatisticsService turns broker events into durable analytics records and
// renders them for the admin export.
type StatisticsService struct {
	repo domain.StatisticsRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewStatisticsService(r domain.StatisticsRepository, log zerolog.Logger) *StatisticsService {
	return &StatisticsService{repo: r, log: log, now: time.Now}
}

func (s *StatisticsService) RecordBookingCreated(ctx context.Context, evt domain.BookingCreatedEvent) error {
	occurred := evt.Timestamp
	if occurred.IsZero() {
		occurred = s.now().UTC()
	}
	return s.repo.SaveRecord(ctx, domain.StatisticsRecord{
		ID:         uuid.NewString(),
		EventType:  domain.EventTypeBookingCreated,
		UserID:     evt.UserID,
		OccurredAt: occurred,
		Data: map[string]any{
			"bookingId":    evt.BookingID,
			"roomId":       evt.RoomID,
			"checkInDate":  evt.CheckInDate,
			"checkOutDate": evt.CheckOutDate,
		},
	})
}

func (s *StatisticsService) RecordUserRegistered(ctx context.Context, evt domain.UserRegisteredEvent) error {
	occurred := evt.Timestamp
	if occurred.IsZero() {
		occurred = s.now().UTC()
	}
	return s.repo.SaveRecord(ctx, domain.StatisticsRecord{
		ID:         uuid.NewString(),
		EventType:  domain.EventTypeUserRegistration,
		UserID:     evt.UserID,
		OccurredAt: occurred,
		Data: map[string]any{
			"username": evt.Username,
			"email":    evt.Email,
			"role":     evt.Role,
		},
	})
}

func (s *StatisticsService) List(ctx context.Context) ([]domain.StatisticsRecord, error) {
	return s.repo.ListRecords(ctx)
}

// ExportCSV streams every record as one CSV row. The Details column is the
// record's data payload re-encoded as JSON.
func (s *StatisticsService) ExportCSV(ctx context.Context, w io.Writer) error {
	recs, err := s.repo.ListRecords(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Event ID", "Event", "User ID", "Occurred At", "Details"}); err != nil {
		return err
	}
	for _, rec := range recs {
		details := ""
		if rec.Data != nil {
			b, err := json.Marshal(rec.Data)
			if err != nil {
				return err
			}
			details = string(b)
		}
		row := []string{
			rec.ID,
			eventDisplayName(rec.EventType),
			strconv.FormatInt(rec.UserID, 10),
			rec.OccurredAt.UTC().Format(exportTimeLayout),
			details,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func eventDisplayName(eventType string) string {
	switch eventType {
	case domain.EventTypeBookingCreated:
		return "Booking Created"
	case domain.EventTypeUserRegistration:
		return "User Registration"
	default:
		return eventType
	}
}
