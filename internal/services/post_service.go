package services

import (
	"context"
	"strings"

	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/observability"
	"github.com/anonto42/quill/backend/internal/repositories"
)

// PostService owns post writes. Deleting a post also deletes its comments.
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
}

func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

func (s *PostService) CreatePost(ctx context.Context, callerID string, req models.CreatePostRequest) (*models.Post, error) {
	if callerID == "" {
		return nil, models.NewAuthenticationError("Login required to publish a post")
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	cover := strings.TrimSpace(req.CoverImageURL)
	if title == "" || content == "" || cover == "" {
		return nil, models.NewValidationError("title, content and cover_image_url are required")
	}

	post := &models.Post{
		AuthorID:      callerID,
		Title:         title,
		Content:       content,
		Tags:          cleanTags(req.Tags),
		CoverImageURL: cover,
		Published:     true,
		Likes:         []string{},
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetPostByID(ctx, id)
}

// UpdatePost applies the non-empty fields of req to the caller's post.
func (s *PostService) UpdatePost(ctx context.Context, id, callerID string, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.ownedPost(ctx, id, callerID, "update")
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		post.Title = title
	}
	if content := strings.TrimSpace(req.Content); content != "" {
		post.Content = content
	}
	if req.Tags != nil {
		post.Tags = cleanTags(req.Tags)
	}
	if cover := strings.TrimSpace(req.CoverImageURL); cover != "" {
		post.CoverImageURL = cover
	}

	if err := s.postRepo.UpdatePost(ctx, id, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes the caller's post, then every comment and reply on it.
// If the comments cannot be removed the post stays deleted and the returned
// PartialCascadeError lists the comment ids left behind.
func (s *PostService) DeletePost(ctx context.Context, id, callerID string) error {
	if _, err := s.ownedPost(ctx, id, callerID, "delete"); err != nil {
		return err
	}

	comments, err := s.commentRepo.GetCommentsByPostID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.postRepo.DeletePost(ctx, id); err != nil {
		return err
	}
	if len(comments) == 0 {
		return nil
	}

	if _, err := s.commentRepo.DeleteCommentsByPostID(ctx, id); err != nil {
		failed := make([]uint, len(comments))
		for i, c := range comments {
			failed[i] = c.ID
		}
		observability.CascadeFailures.WithLabelValues("post").Inc()
		return &models.PartialCascadeError{
			Resource:  "post",
			ParentID:  id,
			FailedIDs: failed,
			Err:       err,
		}
	}
	return nil
}

func (s *PostService) ownedPost(ctx context.Context, id, callerID, action string) (*models.Post, error) {
	if callerID == "" {
		return nil, models.NewAuthenticationError("Login required to " + action + " a post")
	}
	post, err := s.postRepo.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != callerID {
		return nil, models.NewAuthorizationError("You are not authorized to " + action + " this post")
	}
	return post, nil
}

// cleanTags trims tags and drops empty and repeated ones, keeping display order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
