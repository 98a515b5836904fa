package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/tripbooking/api"
	"github.com/Domenick1991/tripbooking/config"
	"github.com/Domenick1991/tripbooking/internal/bootstrap"
	"github.com/Domenick1991/tripbooking/internal/cache"
	"github.com/Domenick1991/tripbooking/internal/clock"
	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/kafka"
	"github.com/Domenick1991/tripbooking/internal/logging"
	"github.com/Domenick1991/tripbooking/internal/repository"
	"github.com/Domenick1991/tripbooking/internal/service/booking"
	"github.com/Domenick1991/tripbooking/internal/service/catalog"
	"github.com/Domenick1991/tripbooking/internal/service/flights"
	"github.com/Domenick1991/tripbooking/internal/service/release"
	"github.com/Domenick1991/tripbooking/migrations"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logging.New(config.LogConfig{}).WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.Log)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		log.WithError(err).Fatal("apply migrations")
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer producer.Close()
	events := kafka.NewEventPublisher(producer, cfg.Kafka.BookingTopic, cfg.Kafka.NotificationsTopic, cfg.Kafka.PublishRetries)

	tx := repository.NewTransactor(pool)
	hotelRepo := repository.NewHotelRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	legRepo := repository.NewFlightBookingRepository(pool)
	compensator := release.NewCompensator(roomRepo, bookingRepo, flightRepo, legRepo)
	clk := clock.NewSystem()

	bookingService := booking.NewBookingService(tx, roomRepo, bookingRepo, compensator, clk,
		booking.WithEventPublisher(events),
		booking.WithLogger(log),
	)
	catalogService := catalog.NewCatalogService(hotelRepo, roomRepo, log)
	flightService := flights.NewFlightService(tx, flightRepo, legRepo, compensator, clk,
		flights.WithCache(redisCache),
		flights.WithEventPublisher(events),
		flights.WithPolicy(domain.ItineraryPolicy{MaxConnection: time.Duration(cfg.Booking.MaxConnectionMinutes) * time.Minute}),
		flights.WithLogger(log),
	)

	err = bootstrap.Run(ctx, cfg, log, bootstrap.Services{
		Bookings: bookingService,
		Catalog:  catalogService,
		Flights:  flightService,
		Checks: map[string]api.HealthCheck{
			"postgres": pool.Ping,
			"redis":    redisCache.Ping,
		},
	})
	if err != nil {
		log.WithError(err).Fatal("server error")
	}
}
