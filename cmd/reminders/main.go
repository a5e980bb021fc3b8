package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/notify"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reminders"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

// Отдельный процесс рассылки напоминаний и запросов отзыва по расписанию
func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()
	log = log.With("component", "reminders")

	log.Info("Starting reminders dispatcher (schedule=%q, batch=%d)", cfg.Reminders.Schedule, cfg.Reminders.BatchSize)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxIdleConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	publisher, err := notify.NewPublisher(cfg.Notifications, log)
	if err != nil {
		log.Fatal("Failed to initialize notification publisher: %v", err)
	}
	notifier := notify.NewNotifier(
		publisher,
		nil,
		clock.Real{},
		log,
		time.Duration(cfg.Notifications.PublishTimeout)*time.Second,
	)

	dispatcher := reminders.NewDispatcher(
		reservationRepo.NewRepository(dbmetrics.Wrap(db, nil)),
		notifier,
		clock.Real{},
		log,
		cfg.Reminders.BatchSize,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SkipIfStillRunning: долгий проход не запускается параллельно сам с собой
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(cfg.Reminders.Schedule, func() {
		if _, err := dispatcher.Run(ctx); err != nil {
			log.Error("Dispatcher run failed: %v", err)
		}
	}); err != nil {
		log.Fatal("Invalid reminders schedule %q: %v", cfg.Reminders.Schedule, err)
	}
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Stopping reminders dispatcher...")

	// Ждем завершения текущего прохода
	<-c.Stop().Done()
	cancel()

	if err := notifier.Close(); err != nil {
		log.Error("Failed to close notifier: %v", err)
	}
	log.Info("Reminders dispatcher stopped")
}
