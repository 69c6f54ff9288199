package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chrisdamba/flighttrouble/internal/api"
	"github.com/chrisdamba/flighttrouble/internal/cache"
	"github.com/chrisdamba/flighttrouble/internal/metrics"
	"github.com/chrisdamba/flighttrouble/internal/ports"
	"github.com/chrisdamba/flighttrouble/internal/repository"
	"github.com/chrisdamba/flighttrouble/internal/service"
	"github.com/chrisdamba/flighttrouble/pkg/config"
	"github.com/chrisdamba/flighttrouble/pkg/health"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	config *config.Config
	server *http.Server
	db     *pgxpool.Pool
	cache  ports.Cache
}

func NewApp(cfg *config.Config) *App {
	return &App{
		config: cfg,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.setupDatabase(ctx); err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}

	a.cache = cache.NewRedisCache(
		a.config.Redis.Addr,
		a.config.Redis.Password,
		a.config.Redis.DB,
		a.config.Redis.CacheTTL,
	)

	if err := a.setupServer(); err != nil {
		return fmt.Errorf("server setup failed: %w", err)
	}

	return nil
}

func (a *App) setupDatabase(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	return nil
}

func (a *App) setupServer() error {
	services := a.setupServices()
	router := a.setupRouter(services)

	a.server = &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      router,
		WriteTimeout: a.config.Server.WriteTimeout,
		ReadTimeout:  a.config.Server.ReadTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	return nil
}

type Services struct {
	BookingService ports.BookingService
	FlightService  ports.FlightService
	UserService    ports.UserService
}

func (a *App) setupServices() Services {
	flightRepo := repository.NewFlightRepository(a.db)
	bookingRepo := repository.NewBookingRepository(a.db)
	aircraftRepo := repository.NewAircraftRepository(a.db)
	userRepo := repository.NewUserRepository(a.db)

	bookingService := service.NewBookingService(bookingRepo, flightRepo, userRepo, a.cache)
	flightService := service.NewFlightService(flightRepo, bookingRepo, aircraftRepo, bookingService, a.cache)
	userService := service.NewUserService(userRepo)

	return Services{
		BookingService: bookingService,
		FlightService:  flightService,
		UserService:    userService,
	}
}

func (a *App) setupRouter(services Services) http.Handler {
	router := chi.NewRouter()
	router.Use(metrics.HTTPMiddleware)

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/v1", func(r chi.Router) {
		r.Get("/health", health.HealthGet())
		api.NewBookingHandler(services.BookingService).Register(r)
		api.NewFlightHandler(services.FlightService).Register(r)
		api.NewUserHandler(services.UserService).Register(r)
	})

	return router
}

func (a *App) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on %s", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-shutdown:
		log.Println("Starting graceful shutdown")
		return a.Shutdown(ctx)
	case <-ctx.Done():
		return a.Shutdown(ctx)
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			log.Printf("cache close: %v", err)
		}
	}

	if a.db != nil {
		a.db.Close()
	}

	return nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app := NewApp(cfg)
	if err := app.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
