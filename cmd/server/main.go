package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"urbik/internal/app"
	"urbik/internal/config"
	"urbik/internal/handler"
	"urbik/internal/maps"
	"urbik/internal/realtime"
	internalRedis "urbik/internal/redis"
	"urbik/internal/repository/postgres"
	"urbik/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, err := wireServer(db, redisClient, nrApp, cfg)
	if err != nil {
		log.Fatalf("failed to wire server: %v", err)
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, error) {
	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	tokenStore := internalRedis.NewTokenStore(redisClient)

	// Initialize repositories.
	riderRepo := postgres.NewRiderRepository(db)
	captainRepo := postgres.NewCaptainRepository(db)
	rideRepo := postgres.NewRideRepository(db)

	// Initialize the maps gateway.
	geocoder, err := maps.NewClient(cfg.Maps.APIKey)
	if err != nil {
		return nil, err
	}

	// Initialize realtime relay and services.
	relay := realtime.NewRelay()
	notificationService := service.NewNotificationService(relay)
	directoryService := service.NewDirectoryService(captainRepo, riderRepo, locationStore)
	fareService := service.NewFareService(geocoder)
	matchingService := service.NewMatchingService(geocoder, directoryService, notificationService)
	rideService := service.NewRideService(rideRepo, riderRepo, captainRepo, fareService, matchingService, notificationService)
	authService := service.NewAuthService(riderRepo, captainRepo, tokenStore, cfg.Auth.JWTSecret)

	// Initialize handlers.
	userHandler := handler.NewUserHandler(authService)
	captainHandler := handler.NewCaptainHandler(authService)
	mapsHandler := handler.NewMapsHandler(geocoder)
	rideHandler := handler.NewRideHandler(rideService)
	socketHandler := realtime.NewSocketHandler(relay, directoryService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:    userHandler,
		CaptainHandler: captainHandler,
		MapsHandler:    mapsHandler,
		RideHandler:    rideHandler,
		SocketHandler:  socketHandler,
		AuthService:    authService,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
