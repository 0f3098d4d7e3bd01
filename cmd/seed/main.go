package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/anonto42/quill/backend/internal/middleware"
	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/repositories"
	"github.com/anonto42/quill/backend/internal/seed"
	"github.com/anonto42/quill/backend/internal/services"
	"github.com/anonto42/quill/backend/pkg/config"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	postsPerUser := flag.Int("posts", 3, "Posts per user")
	commentsPerPost := flag.Int("comments", 4, "Top-level comments per post")
	repliesPerComment := flag.Int("replies", 2, "Replies per comment")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	if err := db.Postgres.AutoMigrate(&models.User{}, &models.Comment{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}

	ctx := context.Background()
	postRepo := repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase))
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create post indexes: %v", err)
	}
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)

	factory := seed.NewFactory(
		userRepo,
		services.NewPostService(postRepo, commentRepo),
		services.NewCommentService(commentRepo, postRepo),
		services.NewLikeService(postRepo),
		*seedValue,
	)

	log.Printf("Seeding %d users, %d posts each...", *numUsers, *postsPerUser)
	summary, err := factory.Run(ctx, seed.Options{
		Users:             *numUsers,
		PostsPerUser:      *postsPerUser,
		CommentsPerPost:   *commentsPerPost,
		RepliesPerComment: *repliesPerComment,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users, %d posts, %d comments, %d replies, %d likes",
		len(summary.Users), summary.Posts, summary.Comments, summary.Replies, summary.Likes)

	if cfg.AuthProvider == config.AuthProviderJWT && len(summary.Users) > 0 {
		user := summary.Users[0]
		token, err := middleware.SignToken(cfg.JWTSecret, user.ID, user.Email, 24*time.Hour)
		if err != nil {
			log.Printf("Warning: could not sign demo token: %v", err)
			return
		}
		log.Printf("Demo token for %s: %s", user.Username, token)
	}
}
