// Command migrate applies the schema and backfills the status of bookings
// stored before cancellation existed.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/club-table-booking/internal/app"
	"github.com/iliyamo/club-table-booking/internal/config"
	"github.com/iliyamo/club-table-booking/internal/database"
	"github.com/iliyamo/club-table-booking/internal/logger"
)

func main() {
	_ = godotenv.Load()

	// built before config so missing-variable errors are logged
	lg, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		lg.Fatal("database open failed", zap.Error(err))
	}
	if err := database.Migrate(ctx, db); err != nil {
		lg.Fatal("database migrate failed", zap.Error(err))
	}

	// No Redis: the backfill must read and write the authoritative rows.
	a := app.New(cfg, db, nil, lg)
	defer func() { _ = a.Close() }()

	updated, skipped, err := a.Bookings.BackfillStatuses(ctx)
	if err != nil {
		lg.Fatal("backfill failed", zap.Error(err))
	}
	fmt.Printf("updated %d bookings, skipped %d\n", updated, skipped)
}
