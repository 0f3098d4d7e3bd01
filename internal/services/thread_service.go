package services

import (
	"context"
	"log"

	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/repositories"
	"github.com/anonto42/quill/backend/internal/thread"
)

// ThreadResponse is an assembled comment thread with its authors resolved.
// Authors lacking a directory entry are simply absent.
type ThreadResponse struct {
	PostID string `json:"post_id"`
	thread.View
	Authors map[string]models.UserView `json:"authors"`
}

// ThreadService loads, assembles and author-resolves a post's comments.
type ThreadService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	authors     *AuthorResolver
}

func NewThreadService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, authors *AuthorResolver) *ThreadService {
	return &ThreadService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		authors:     authors,
	}
}

func (s *ThreadService) GetThread(ctx context.Context, postID string, showAll bool) (*ThreadResponse, error) {
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	view := thread.Assemble(comments, showAll)
	resp := &ThreadResponse{
		PostID:  postID,
		View:    view,
		Authors: map[string]models.UserView{},
	}

	authors, err := s.authors.ResolveAuthors(ctx, view.AuthorIDs)
	if err != nil {
		log.Printf("Warning: failed to resolve comment authors for post %s: %v", postID, err)
		return resp, nil
	}
	resp.Authors = authors
	return resp, nil
}
