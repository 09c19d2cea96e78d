package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/toruke/2tm1-ParkEase/internal/config"
	"github.com/toruke/2tm1-ParkEase/internal/facility"
	"github.com/toruke/2tm1-ParkEase/internal/logger"
	"github.com/toruke/2tm1-ParkEase/internal/lot"
	"github.com/toruke/2tm1-ParkEase/internal/notify"
	"github.com/toruke/2tm1-ParkEase/internal/server"
	"github.com/toruke/2tm1-ParkEase/internal/store"
	"github.com/toruke/2tm1-ParkEase/internal/tariff"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	calc := tariff.NewCalculator(tariff.Config{
		PerHour:  cfg.PricePerHour,
		PerDay:   cfg.PricePerDay,
		PerMonth: cfg.PricePerMonth,
	})

	var notifier lot.Notifier = notify.LogNotifier{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
		rn := notify.NewRedisNotifier(rdb)
		defer rn.Close()
		notifier = rn
		logger.Info("capacity alerts routed to redis", "addr", cfg.RedisAddr)
	}

	var st store.Store
	if cfg.DatabaseURL != "" {
		db, err := store.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := store.RunMigrations(db, "migrations"); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		st = store.NewPostgresStore(db)
		logger.Info("using postgres persistence")
	} else {
		st = store.NewFileStore(cfg.DataFile)
		logger.Info("using file persistence", "path", cfg.DataFile)
	}

	l, err := loadLot(st, cfg, calc, notifier)
	if err != nil {
		logger.Fatalf("Failed to initialize parking lot: %v", err)
	}
	logger.Info("parking lot ready",
		"total_spaces", l.TotalSpaces(),
		"available", l.AvailableSpaces(),
	)

	svc := facility.NewService(l, st)

	srv, err := server.New(svc, cfg)
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("server exited")
}

// loadLot restores persisted state when a snapshot exists, otherwise
// builds an empty lot from the configured layout.
func loadLot(st store.Store, cfg *config.Config, calc *tariff.Calculator, n lot.Notifier) (*lot.Lot, error) {
	rec, err := st.Load(context.Background())
	if err != nil {
		return nil, err
	}

	var l *lot.Lot
	if rec != nil {
		l, err = store.RestoreLot(rec, calc, n)
	} else {
		l, err = lot.New(cfg.Floors, cfg.SpacesPerFloor, calc, n)
	}
	if err != nil {
		return nil, err
	}
	l.SetAlertThreshold(cfg.AlertThreshold)
	return l, nil
}
