package router

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/anonto42/quill/backend/internal/handlers"
	"github.com/anonto42/quill/backend/internal/middleware"
	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/repositories"
	"github.com/anonto42/quill/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Deps are the connections and collaborators the routes are built from.
type Deps struct {
	Postgres      *gorm.DB
	Mongo         *mongo.Database
	Redis         *redis.Client // nil disables the author cache
	Verifier      middleware.TokenVerifier
	UserDirectory services.UserDirectory // nil selects the Postgres users table
	AuthorTTL     time.Duration
	HealthChecks  map[string]handlers.Pinger
}

// SetupRoutes migrates the schema, wires repositories and services, and
// registers every route under /api/v1.
func SetupRoutes(ctx context.Context, e *echo.Echo, deps Deps) error {
	if err := deps.Postgres.AutoMigrate(&models.User{}, &models.Comment{}); err != nil {
		return err
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// --- Initialize Repositories ---
	postRepo := repositories.NewMongoPostRepository(deps.Mongo)
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	log.Println("MongoDB post indexes ensured.")
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)

	directory := deps.UserDirectory
	if directory == nil {
		directory = repositories.NewPostgresUserRepository(deps.Postgres)
	}

	// --- Initialize Services ---
	var cache services.AuthorCache
	if deps.Redis != nil {
		cache = services.NewRedisAuthorCache(deps.Redis, deps.AuthorTTL)
	}
	authors := services.NewAuthorResolver(directory, cache)
	postService := services.NewPostService(postRepo, commentRepo)
	commentService := services.NewCommentService(commentRepo, postRepo)
	likeService := services.NewLikeService(postRepo)
	feedService := services.NewFeedService(postRepo, commentRepo, authors)
	threadService := services.NewThreadService(postRepo, commentRepo, authors)

	// Health check - always accessible
	e.GET("/health", handlers.NewHealthHandler(deps.HealthChecks).HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "quill api"})
	})

	api := e.Group("/api/v1")
	api.Use(middleware.Authenticate(deps.Verifier))
	log.Println("Caller authentication middleware applied to /api/v1 group.")

	handlers.NewPostHandler(postService, feedService, authors).RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	handlers.NewLikeHandler(likeService).RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	handlers.NewCommentHandler(commentService, threadService, authors).RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	handlers.NewFeedHandler(feedService).RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	handlers.NewUserHandler(authors).RegisterUserRoutes(api)
	log.Println("User routes configured.")

	log.Println("All routes configured.")
	return nil
}
