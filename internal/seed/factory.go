// Package seed creates demo users, posts, comments, replies and likes for
// local development.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/repositories"
	"github.com/anonto42/quill/backend/internal/services"
	"github.com/brianvoe/gofakeit/v6"
)

// maxUserAttempts bounds how often a user is rebuilt after a username or
// email collision.
const maxUserAttempts = 5

var tagPool = []string{"go", "cli", "intro", "databases", "design", "testing", "devops", "frontend"}

// Options controls how much data a run creates.
type Options struct {
	Users             int
	PostsPerUser      int
	CommentsPerPost   int
	RepliesPerComment int
}

// Summary reports what a run created.
type Summary struct {
	Users    []models.User
	Posts    int
	Comments int
	Replies  int
	Likes    int
}

// Factory writes demo data through the same services the API uses, so the
// seeded data obeys the same rules as user-created data.
type Factory struct {
	users    repositories.UserRepository
	posts    *services.PostService
	comments *services.CommentService
	likes    *services.LikeService
	rng      *rand.Rand
}

func NewFactory(users repositories.UserRepository, posts *services.PostService, comments *services.CommentService, likes *services.LikeService, seed int64) *Factory {
	gofakeit.Seed(seed)
	return &Factory{
		users:    users,
		posts:    posts,
		comments: comments,
		likes:    likes,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// BuildUser returns an unsaved directory row with fake profile data.
func (f *Factory) BuildUser() *models.User {
	username := strings.ToLower(gofakeit.Username())
	return &models.User{
		ID:        gofakeit.UUID(),
		Username:  username,
		Email:     fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		Bio:       truncate(gofakeit.Sentence(8), 160),
	}
}

// BuildPostRequest returns a post body with one to three tags from tagPool.
func (f *Factory) BuildPostRequest() models.CreatePostRequest {
	n := 1 + f.rng.Intn(3)
	tags := make([]string, 0, n)
	for _, i := range f.rng.Perm(len(tagPool))[:n] {
		tags = append(tags, tagPool[i])
	}
	return models.CreatePostRequest{
		Title:         truncate(gofakeit.Sentence(5), 150),
		Content:       gofakeit.Paragraph(2, 4, 12, "\n\n"),
		Tags:          tags,
		CoverImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID()),
	}
}

// Run creates opts.Users users, then posts for each, then comments, replies
// and likes from randomly chosen users.
func (f *Factory) Run(ctx context.Context, opts Options) (*Summary, error) {
	summary := &Summary{}
	for i := 0; i < opts.Users; i++ {
		user, err := f.createUser(ctx)
		if err != nil {
			return summary, err
		}
		summary.Users = append(summary.Users, *user)
	}
	if len(summary.Users) == 0 {
		return summary, nil
	}

	for _, author := range summary.Users {
		for p := 0; p < opts.PostsPerUser; p++ {
			post, err := f.posts.CreatePost(ctx, author.ID, f.BuildPostRequest())
			if err != nil {
				return summary, fmt.Errorf("create post: %w", err)
			}
			summary.Posts++

			for c := 0; c < opts.CommentsPerPost; c++ {
				comment, err := f.comments.CreateComment(ctx, services.CreateCommentInput{
					CallerID: f.pick(summary.Users).ID,
					PostID:   post.ID.Hex(),
					Content:  gofakeit.Sentence(12),
				})
				if err != nil {
					return summary, fmt.Errorf("create comment: %w", err)
				}
				summary.Comments++

				for r := 0; r < opts.RepliesPerComment; r++ {
					if _, err := f.comments.CreateReply(ctx, f.pick(summary.Users).ID, comment.ID, gofakeit.Sentence(8)); err != nil {
						return summary, fmt.Errorf("create reply: %w", err)
					}
					summary.Replies++
				}
			}

			for _, i := range f.rng.Perm(len(summary.Users))[:f.rng.Intn(len(summary.Users)+1)] {
				if _, err := f.likes.ToggleLike(ctx, post.ID.Hex(), summary.Users[i].ID); err != nil {
					return summary, fmt.Errorf("like post: %w", err)
				}
				summary.Likes++
			}
		}
	}
	return summary, nil
}

// createUser saves a fresh fake user, rebuilding it when the directory
// already holds the generated username or email.
func (f *Factory) createUser(ctx context.Context) (*models.User, error) {
	var err error
	for attempt := 0; attempt < maxUserAttempts; attempt++ {
		user := f.BuildUser()
		err = f.users.CreateUser(ctx, user)
		if err == nil {
			return user, nil
		}
		if !models.IsConflict(err) {
			return nil, fmt.Errorf("create user %s: %w", user.Username, err)
		}
	}
	return nil, fmt.Errorf("create user after %d attempts: %w", maxUserAttempts, err)
}

func (f *Factory) pick(users []models.User) models.User {
	return users[f.rng.Intn(len(users))]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
