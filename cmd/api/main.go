package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldops-backend/internal/api"
	"fieldops-backend/internal/config"
	"fieldops-backend/internal/metrics"
	"fieldops-backend/internal/models"
	"fieldops-backend/internal/modules/geocoding"
	"fieldops-backend/internal/modules/routing"
	"fieldops-backend/internal/modules/scheduling"
	"fieldops-backend/internal/modules/technicians"
	"fieldops-backend/internal/modules/travel"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. --- Configuration ---
	// Load application configuration from environment variables or a config file.
	// This includes settings for the database, server port, JWT secrets, etc.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	metrics.RegisterDefault()

	e := echo.New()

	// 2. --- Middleware ---
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Database Connection ---
	// Initialize the PostgreSQL database connection pool.
	// This connection is shared across all modules that need it.
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database configuration: %v", err)
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v\n", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}
	e.Logger.Info("Successfully connected to the database!")

	// 4. --- Redis (optional) ---
	// Without Redis the service still runs: geocode results are cached in
	// memory and optimization runs are not guarded against concurrent starts.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Unable to parse Redis URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Unable to ping Redis: %v", err)
		}
		defer rdb.Close()
	}

	// 5. --- Dependency Injection (Wiring everything up) ---
	// --- Geocoding Module ---
	geoProvider, err := geocoding.NewHTTPProvider(cfg.GeocodeBaseURL, cfg.GeocodeAPIKey, cfg.ProviderTimeout)
	if err != nil {
		log.Fatalf("Unable to configure geocoding provider: %v", err)
	}
	var geoCache geocoding.Cache
	if rdb != nil {
		geoCache = geocoding.NewRedisCache(rdb, time.Duration(cfg.GeocodeCacheTTLDay)*24*time.Hour)
	} else {
		geoCache = geocoding.NewMemoryCache()
	}
	geoService := geocoding.NewService(geoProvider, geoCache, cfg.ProviderRateLimit, cfg.GeocodeWorkers)

	// --- Travel Estimation ---
	// With no API key configured the haversine heuristic stands alone;
	// otherwise the matrix provider is queried with haversine as fallback.
	var estimator travel.Estimator = travel.NewHaversineEstimator()
	if cfg.GeocodeAPIKey != "" {
		matrix := travel.NewMatrixProvider(cfg.GeocodeBaseURL, cfg.GeocodeAPIKey, cfg.ProviderTimeout)
		estimator = travel.NewProviderEstimator(matrix, cfg.ProviderRateLimit)
	}

	// --- Scheduling Module ---
	schedulingRepo := scheduling.NewRepository(dbPool)
	schedulingService := scheduling.NewService(schedulingRepo, cfg.SlotGranularityMinutes, models.BreakWindow{
		Start: cfg.LunchBreakStart,
		End:   cfg.LunchBreakEnd,
	})
	schedulingHandler := scheduling.NewHandler(schedulingService)

	// --- Technicians Module ---
	technicianRepo := technicians.NewRepository(dbPool)
	technicianHandler := technicians.NewHandler(technicianRepo)

	// --- Routing Module ---
	routingRepo := routing.NewRepository(dbPool)
	sequencer := routing.NewTwoOptSequencer(routing.NewNearestNeighborSequencer(), 0)
	runLock := routing.NewRunLock(rdb, 5*time.Minute)
	routingService := routing.NewService(
		routingRepo,
		technicianRepo,
		geoService,
		estimator,
		sequencer,
		runLock,
		cfg.RouteDayStart,
		cfg.MaxHoursPerRoute,
	)
	routingHandler := routing.NewHandler(routingService)

	// 6. --- Initialize Router ---
	api.SetupRoutes(e, schedulingHandler, routingHandler, technicianHandler, cfg.JWTSecret)

	// 7. --- Start Server with graceful shutdown logic ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server an error occurred:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exiting")
}
