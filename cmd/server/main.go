package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/cache"
	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/database"
	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/pkg/logger"
	"github.com/iliyamo/cinema-booking/internal/pkg/metrics"
	"github.com/iliyamo/cinema-booking/internal/queue"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/router"
	"github.com/iliyamo/cinema-booking/internal/service"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Set(logger.NewLogger(cfg.Env))
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	users := repository.NewUserRepo(db)
	seedAdmin(users, cfg)

	m := metrics.New()

	// Redis backs the layout cache and the rate limiter.  Both are
	// optional: without Redis layouts are computed on every read and
	// requests are not throttled.
	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}
	var layoutCache service.LayoutCache
	if cacheCfg := config.LoadCacheConfig(); rdb != nil && cacheCfg.Enabled {
		layoutCache = cache.NewLayoutCache(rdb, cacheCfg)
		logger.Info("layout cache enabled", zap.Duration("ttl", cacheCfg.TTL))
	}

	// Booking events need a broker; without RABBITMQ_URL they are skipped.
	var publisher service.EventPublisher
	if cfg.RabbitMQURL != "" {
		publisher = queue.NewPublisher(cfg.RabbitMQURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.QueueConsumer && cfg.RabbitMQURL != "" {
		consumer := queue.NewConsumer(cfg.RabbitMQURL, cfg.BookingLogPath)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("booking log consumer stopped", zap.Error(err))
			}
		}()
	}

	// ----- repositories -----
	txm := database.NewTxManager(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	rooms := repository.NewRoomRepo(db)
	seats := repository.NewSeatRepo(db)
	bookings := repository.NewBookingRepo(db)
	tickets := repository.NewTicketRepo(db)

	// ----- services -----
	ticketSvc := service.NewTicketService(tickets)
	inventorySvc := service.NewInventoryService(txm, rooms, seats, bookings, layoutCache)
	availabilitySvc := service.NewAvailabilityService(rooms, seats, bookings, layoutCache, m)
	layoutSvc := service.NewLayoutService(txm, rooms, seats, bookings, inventorySvc, layoutCache)
	bookingSvc := service.NewBookingService(txm, rooms, seats, bookings, movies, ticketSvc, layoutCache, publisher, m)

	// ----- HTTP -----
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.CustomHTTPErrorHandler
	middleware.SetupMiddleware(e, m)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	roomH := handler.NewRoomHandler(rooms, inventorySvc, availabilitySvc, layoutSvc)
	movieH := handler.NewMovieHandler(movies)
	bookingH := handler.NewBookingHandler(bookingSvc, ticketSvc)

	router.RegisterRoutes(e, handler.NewHealthHandler(db), prometheus.DefaultGatherer,
		router.MetricsAuth{User: cfg.MetricsUser, Pass: cfg.MetricsPass})
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, roomH, movieH)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterAdmin(e, roomH, movieH, authH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// seedAdmin creates the ADMIN_EMAIL account so a fresh database has
// someone allowed to register users.
func seedAdmin(users *repository.UserRepo, cfg config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := users.GetByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		logger.Fatal("admin lookup failed", zap.Error(err))
	}
	id, err := users.Create(ctx, "Administrator", cfg.AdminEmail, cfg.AdminPassword, model.RoleAdmin, cfg.BcryptCost)
	if errors.Is(err, repository.ErrEmailExists) {
		return
	}
	if err != nil {
		logger.Fatal("admin seed failed", zap.Error(err))
	}
	logger.Info("admin account created", zap.Uint64("user_id", id), zap.String("email", cfg.AdminEmail))
}
