package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking-api/internal/config"
	"github.com/iliyamo/hotel-booking-api/internal/database"
	"github.com/iliyamo/hotel-booking-api/internal/handler"
	"github.com/iliyamo/hotel-booking-api/internal/logger"
	"github.com/iliyamo/hotel-booking-api/internal/middleware"
	"github.com/iliyamo/hotel-booking-api/internal/queue"
	"github.com/iliyamo/hotel-booking-api/internal/repository"
	"github.com/iliyamo/hotel-booking-api/internal/router"
	"github.com/iliyamo/hotel-booking-api/internal/service"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine; the environment wins anyway

	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "hotel-booking-api")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run owns every resource of the process; returning from it closes them.
func run(cfg config.Config, log *zap.Logger) error {
	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("database unavailable (%s): %w", cfg.DB.Driver, err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	var rdb *redis.Client
	if cacheCfg.Enabled || rlCfg.Enabled {
		rcfg := config.LoadRedisConfig()
		if rdb, err = config.NewRedisClient(ctx, rcfg); err != nil {
			log.Warn("redis unavailable, cache and rate limit off", zap.Error(err))
		} else {
			defer rdb.Close()
			log.Info("redis connected", zap.String("addr", rcfg.Addr))
		}
	}

	var events service.Publisher = service.Nop{}
	if cfg.Events.Enabled {
		pub := service.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Queue, log)
		defer pub.Close()
		events = pub
	}
	if cfg.Events.ConsumerEnabled {
		consumer := queue.NewConsumer(cfg.Events.URL, cfg.Events.Queue, cfg.Events.LogPath, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("change-log consumer stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Recover(log))
	e.Use(middleware.NewTokenBucket(rlCfg, rdb, log))
	e.Use(middleware.NewRedisCache(cacheCfg, rdb, log))

	router.RegisterRoutes(e, db,
		handler.NewRooms(repository.NewRoomTable(db), events),
		handler.NewBookings(repository.NewBookingTable(db), events),
	)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen %s: %w", cfg.Addr(), err)
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
