package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/club-table-booking/internal/app"
	"github.com/iliyamo/club-table-booking/internal/config"
	"github.com/iliyamo/club-table-booking/internal/database"
	"github.com/iliyamo/club-table-booking/internal/logger"
	"github.com/iliyamo/club-table-booking/internal/queue"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins

	// built before config so missing-variable errors are logged
	lg, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		lg.Fatal("database open failed", zap.Error(err))
	}
	if err := database.Migrate(ctx, db); err != nil {
		lg.Fatal("database migrate failed", zap.Error(err))
	}

	a := app.New(cfg, db, config.NewRedisClient(lg), lg)
	defer func() { _ = a.Close() }()

	if err := a.Init(ctx); err != nil {
		lg.Fatal("init failed", zap.Error(err))
	}

	if cfg.Broker.Consumer && cfg.Broker.URL != "" {
		go func() {
			err := queue.StartBookingConsumer(ctx, cfg.Broker.URL, cfg.Broker.Queue, cfg.Broker.LogPath, lg.Named("consumer"))
			if err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("booking consumer stopped", zap.Error(err))
			}
		}()
	}

	e := a.Server()
	addr := ":" + cfg.Port
	go func() {
		lg.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown failed", zap.Error(err))
	}
}
