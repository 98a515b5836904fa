package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/tripbooking/config"
	"github.com/Domenick1991/tripbooking/internal/clock"
	"github.com/Domenick1991/tripbooking/internal/email"
	"github.com/Domenick1991/tripbooking/internal/kafka"
	"github.com/Domenick1991/tripbooking/internal/logging"
	"github.com/Domenick1991/tripbooking/internal/repository"
	"github.com/Domenick1991/tripbooking/internal/worker"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	reconciler := worker.NewReconciler(repository.NewRoomRepository(pool), clock.NewSystem(), log)
	scheduler, err := reconciler.Schedule(ctx, time.Duration(cfg.Worker.ReconcileIntervalMinutes)*time.Minute)
	if err != nil {
		log.WithError(err).Fatal("start reconciler")
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.WithError(err).Warn("scheduler shutdown")
		}
	}()

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
		defer consumer.Close()

		sender := email.NewSender(cfg.SMTP, log)
		go func() {
			if err := consumer.Consume(ctx, worker.NotificationHandler(sender, log)); err != nil && ctx.Err() == nil {
				log.WithError(err).Error("notification consumer stopped")
			}
		}()
	} else {
		log.Warn("kafka not configured, notifications disabled")
	}

	log.Info("worker started")
	<-ctx.Done()
	log.Info("worker shutting down")
}
