// Package app assembles repositories, services and the HTTP server from a
// Config.
package app

import (
	"context"
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/iliyamo/club-table-booking/internal/config"
	"github.com/iliyamo/club-table-booking/internal/handler"
	"github.com/iliyamo/club-table-booking/internal/middleware"
	"github.com/iliyamo/club-table-booking/internal/queue"
	"github.com/iliyamo/club-table-booking/internal/repository"
	"github.com/iliyamo/club-table-booking/internal/router"
	"github.com/iliyamo/club-table-booking/internal/service"
	"github.com/iliyamo/club-table-booking/internal/storage"
)

type App struct {
	Config config.Config
	Cache  config.CacheConfig
	Limits config.RateLimitConfig

	DB     *sql.DB
	Redis  *redis.Client // nil disables caching and rate limiting
	Logger *zap.Logger
	Store  storage.Store

	Schedule  *service.ScheduleService
	Inventory *service.InventoryService
	Bookings  *service.BookingService
	Directory *service.DirectoryService
}

// New wires the services over db.  Collections are read through a Redis
// cache when rdb is non-nil and collection caching is enabled.
func New(cfg config.Config, db *sql.DB, rdb *redis.Client, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	cacheCfg := config.LoadCacheConfig()

	var store storage.Store = repository.NewCollectionRepo(db)
	if cacheCfg.CollectionCache {
		store = storage.NewRedisCache(store, rdb, "collections", cacheCfg.CollectionTTL, log.Named("collections"))
	}
	return assemble(cfg, cacheCfg, config.LoadRateLimitConfig(), store,
		repository.NewUserRepo(db), repository.NewTokenRepo(db), db, rdb, log)
}

// NewWithStore wires the services over an arbitrary store and account
// repositories, without a database or Redis.
func NewWithStore(cfg config.Config, store storage.Store, users service.UserRepository, tokens service.TokenRepository, log *zap.Logger) *App {
	return assemble(cfg, config.CacheConfig{}, config.RateLimitConfig{}, store, users, tokens, nil, nil, log)
}

func assemble(cfg config.Config, cacheCfg config.CacheConfig, limits config.RateLimitConfig, store storage.Store,
	users service.UserRepository, tokens service.TokenRepository, db *sql.DB, rdb *redis.Client, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}

	var publisher service.BookingEventPublisher
	if cfg.Broker.Publisher && cfg.Broker.URL != "" {
		publisher = queue.NewPublisher(cfg.Broker.URL, cfg.Broker.Queue, log.Named("publisher"))
	}

	recurrence := service.Recurrence{
		Weekday:  cfg.Club.Weekday,
		Weeks:    cfg.Club.Weeks,
		Location: cfg.Club.Timezone,
	}
	if recurrence.Weeks <= 0 {
		recurrence = service.DefaultRecurrence()
	}

	schedule := service.NewScheduleService(store, recurrence, nil, log.Named("schedule"))
	inventory := service.NewInventoryService(store, log.Named("inventory"))
	bookings := service.NewBookingService(store, schedule, inventory, publisher, nil, log.Named("bookings"))
	directory := service.NewDirectoryService(users, tokens, service.DirectoryConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}, log.Named("directory"))

	return &App{
		Config:    cfg,
		Cache:     cacheCfg,
		Limits:    limits,
		DB:        db,
		Redis:     rdb,
		Logger:    log,
		Store:     store,
		Schedule:  schedule,
		Inventory: inventory,
		Bookings:  bookings,
		Directory: directory,
	}
}

// Init seeds empty collections and bootstraps the admin account when
// ADMIN_EMAIL and ADMIN_PASSWORD are set.
func (a *App) Init(ctx context.Context) error {
	seeded, err := storage.Seed(ctx, a.Store)
	if err != nil {
		return err
	}
	if len(seeded) > 0 {
		a.Logger.Info("seeded collections", zap.Strings("keys", seeded))
	}

	if a.Config.AdminEmail == "" || a.Config.AdminPassword == "" {
		return nil
	}
	created, err := a.Directory.EnsureAdmin(ctx, a.Config.AdminEmail, a.Config.AdminPassword, a.Config.AdminName)
	if err != nil {
		return err
	}
	if created {
		a.Logger.Info("admin account created", zap.String("email", a.Config.AdminEmail))
	}
	return nil
}

// Server builds the Echo instance with CORS, request logging and every
// route registered.
func (a *App) Server() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins:   a.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler))
	e.Use(middleware.RequestLogger(a.Logger.Named("http")))

	limit := middleware.NewTokenBucket(a.Limits, a.Redis, a.Logger.Named("ratelimit"))
	cache := middleware.NewRedisCache(a.Cache, a.Redis)
	invalidate := middleware.InvalidateCache(a.Cache, a.Redis, a.Logger.Named("cache"))

	schedule := handler.NewScheduleHandler(a.Schedule)
	inventory := handler.NewInventoryHandler(a.Inventory)
	bookings := handler.NewBookingHandler(a.Bookings, a.Directory)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(a.Directory, a.Config.JWTSecret), a.Config.JWTSecret, limit)
	router.RegisterMember(e, router.MemberHandlers{
		Schedule:  schedule,
		Inventory: inventory,
		Bookings:  bookings,
	}, a.Config.JWTSecret, limit, cache)
	router.RegisterAdmin(e, router.AdminHandlers{
		Schedule:  schedule,
		Inventory: inventory,
		Bookings:  bookings,
		Users:     handler.NewAdminUserHandler(a.Directory),
	}, a.Config.JWTSecret, limit, invalidate)
	return e
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
