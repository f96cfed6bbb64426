package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/adapters/rabbit"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Msg("statistics worker starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	stats := app.NewStatisticsService(repo, log.Logger)

	handler := func(ctx context.Context, topic string, body []byte) error {
		switch topic {
		case domain.TopicBookingEvents:
			var evt domain.BookingCreatedEvent
			if err := json.Unmarshal(body, &evt); err != nil {
				// Malformed payloads would requeue forever; log and ack.
				log.Error().Err(err).Str("topic", topic).Msg("discarding malformed event")
				return nil
			}
			return stats.RecordBookingCreated(ctx, evt)
		case domain.TopicUserRegistrations:
			var evt domain.UserRegisteredEvent
			if err := json.Unmarshal(body, &evt); err != nil {
				log.Error().Err(err).Str("topic", topic).Msg("discarding malformed event")
				return nil
			}
			return stats.RecordUserRegistered(ctx, evt)
		default:
			return fmt.Errorf("unexpected topic %s", topic)
		}
	}

	consumer := rabbit.NewConsumer(cfg.AMQPURL,
		[]string{domain.TopicBookingEvents, domain.TopicUserRegistrations},
		handler, log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("consumer failed")
	}
	log.Info().Msg("statistics worker stopped")
}
