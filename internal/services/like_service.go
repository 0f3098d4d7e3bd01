package services

import (
	"context"

	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/observability"
	"github.com/anonto42/quill/backend/internal/repositories"
)

// LikeService toggles membership in a post's like set.
type LikeService struct {
	postRepo repositories.PostRepository
}

// NewLikeService creates a new LikeService
func NewLikeService(postRepo repositories.PostRepository) *LikeService {
	return &LikeService{postRepo: postRepo}
}

// ToggleLike adds callerID to the post's like set, or removes it if present.
// The read-modify-write happens inside the store, so concurrent toggles by
// different users are never lost and Count is the committed set size.
func (s *LikeService) ToggleLike(ctx context.Context, postID, callerID string) (*models.LikeToggle, error) {
	if callerID == "" {
		return nil, models.NewAuthenticationError("Login required to like a post")
	}

	post, err := s.postRepo.ToggleLike(ctx, postID, callerID)
	if err != nil {
		return nil, err
	}

	liked := post.LikedBy(callerID)
	if liked {
		observability.LikeToggles.WithLabelValues("liked").Inc()
	} else {
		observability.LikeToggles.WithLabelValues("unliked").Inc()
	}

	return &models.LikeToggle{
		PostID: postID,
		Liked:  liked,
		Count:  len(post.Likes),
	}, nil
}
