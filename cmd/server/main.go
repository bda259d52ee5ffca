package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/logger"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/router"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database open failed")
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.WithError(err).Fatal("migrations failed")
		}
		log.Info("migrations applied")
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting and response cache disabled")
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []booking.Option{booking.WithLogger(log), booking.WithTxTimeout(cfg.BookingTxTimeout)}
	if cfg.EventsEnabled {
		opts = append(opts, booking.WithEvents(service.NewQueuePublisher(cfg.AMQPURL, log)))
		consumer := &queue.Consumer{URL: cfg.AMQPURL, LogDir: "logs", Log: log}
		go func() {
			if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
				log.WithError(err).Error("booking consumer stopped")
			}
		}()
	}
	bookings := booking.NewService(booking.NewSQLStore(db), opts...)

	movies := repository.NewMovieRepo(db)
	screenings := repository.NewScreeningRepo(db)
	catalog := handler.NewCatalogHandler(movies, screenings)
	auth := handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterCatalog(e, catalog, middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log))
	router.RegisterAdmin(e, catalog, cfg.JWTSecret)
	router.RegisterBooking(e, handler.NewBookingHandler(bookings), cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Infof("listening on %s (env=%s)", srv.Addr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
		os.Exit(1)
	}
	log.Info("server stopped")
}
