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

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/quill/backend/internal/handlers"
	"github.com/anonto42/quill/backend/internal/middleware"
	"github.com/anonto42/quill/backend/internal/repositories"
	"github.com/anonto42/quill/backend/internal/router"
	"github.com/anonto42/quill/backend/pkg/cache"
	"github.com/anonto42/quill/backend/pkg/config"
	"github.com/anonto42/quill/backend/pkg/firebase"
	"github.com/anonto42/quill/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	redisClient := cache.InitRedis(cfg.RedisURL)
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx := context.Background()
	deps := router.Deps{
		Postgres:  db.Postgres,
		Mongo:     db.Mongo.Database(cfg.MongoDatabase),
		Redis:     redisClient,
		AuthorTTL: cfg.AuthorCacheTTL,
		HealthChecks: map[string]handlers.Pinger{
			"postgres": db.PingPostgres,
			"mongo":    db.PingMongo,
		},
	}

	var authClient *auth.Client
	if cfg.NeedsFirebase() {
		authClient, err = firebase.NewAuthClient(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
	}

	switch cfg.AuthProvider {
	case config.AuthProviderFirebase:
		deps.Verifier = middleware.NewFirebaseVerifier(authClient)
	default:
		deps.Verifier = middleware.NewJWTVerifier(cfg.JWTSecret)
	}
	if cfg.UserDirectory == config.UserDirectoryFirebase {
		deps.UserDirectory = repositories.NewFirebaseUserRepository(authClient)
	}
	log.Printf("Auth provider: %s, user directory: %s", cfg.AuthProvider, cfg.UserDirectory)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, cfg)

	// Setup routes and dependencies
	if err := router.SetupRoutes(ctx, e, deps); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	metricsSrv := startMetricsServer(cfg.MetricsPort)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()
	log.Printf("Server starting on port %s...", cfg.Port)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Metrics server shutdown error: %v", err)
		}
	}
}

// startMetricsServer serves /metrics on its own port. An empty port disables it.
func startMetricsServer(port string) *http.Server {
	if port == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server error: %v", err)
		}
	}()
	log.Printf("Metrics server listening on port %s", port)
	return srv
}
