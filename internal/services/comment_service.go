package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/observability"
	"github.com/anonto42/quill/backend/internal/repositories"
	"github.com/anonto42/quill/backend/internal/thread"
)

const maxCommentLen = 10000

// CommentService owns comment and reply writes and the per-post listings.
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
}

// CreateCommentInput is a new comment (ParentID nil) or reply. A PostID that
// names no existing post is rejected as a ValidationError, not NotFound.
type CreateCommentInput struct {
	CallerID string
	PostID   string
	ParentID *uint
	Content  string
}

func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment stores a top-level comment, or a reply when ParentID is set.
// A missing post is a validation failure; a missing parent is NotFound.
// A reply's parent must be a top-level comment; the reply inherits its post.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.CallerID == "" {
		return nil, models.NewAuthenticationError("Login required to comment")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		AuthorID: in.CallerID,
		Content:  content,
	}

	if in.ParentID == nil {
		if _, err := s.postRepo.GetPostByID(ctx, in.PostID); err != nil {
			if models.IsNotFound(err) {
				return nil, models.NewValidationError("Post " + in.PostID + " does not exist")
			}
			return nil, err
		}
		comment.PostID = in.PostID
	} else {
		parent, err := s.commentRepo.GetCommentByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.IsReply() {
			return nil, models.NewValidationError("Replies can only be added to top-level comments")
		}
		if in.PostID != "" && in.PostID != parent.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
		comment.PostID = parent.PostID
		comment.ParentID = &parent.ID
	}

	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if comment.IsReply() {
		observability.CommentWrites.WithLabelValues("reply").Inc()
	} else {
		observability.CommentWrites.WithLabelValues("comment").Inc()
	}
	return comment, nil
}

// CreateReply stores a reply to parentID.
func (s *CommentService) CreateReply(ctx context.Context, callerID string, parentID uint, content string) (*models.Comment, error) {
	return s.CreateComment(ctx, CreateCommentInput{
		CallerID: callerID,
		ParentID: &parentID,
		Content:  content,
	})
}

// GetComment returns one comment or reply.
func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.commentRepo.GetCommentByID(ctx, id)
}

// ListByPost returns every comment and reply on a post, newest first.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := repositories.ParsePostID(postID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetCommentsByPostID(ctx, postID)
}

// ListTopLevel returns the top-level comments of a post, newest first.
func (s *CommentService) ListTopLevel(ctx context.Context, postID string) ([]models.Comment, error) {
	comments, err := s.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return thread.Partition(comments).TopLevel, nil
}

// ListByParent returns the replies to one comment, newest first.
func (s *CommentService) ListByParent(ctx context.Context, parentID uint) ([]models.Comment, error) {
	return s.commentRepo.GetRepliesByParentID(ctx, parentID)
}

// UpdateComment replaces the content of the caller's comment. Empty content
// leaves the comment untouched.
func (s *CommentService) UpdateComment(ctx context.Context, commentID uint, callerID, content string) (*models.Comment, error) {
	comment, err := s.ownedComment(ctx, commentID, callerID, "update")
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return comment, nil
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	updated, err := s.commentRepo.UpdateCommentContent(ctx, commentID, callerID, content)
	if err != nil {
		return nil, err
	}
	observability.CommentWrites.WithLabelValues("update").Inc()
	return updated, nil
}

// DeleteComment removes exactly one comment. Replies of a top-level comment
// are not touched; use DeleteCommentCascade for that.
func (s *CommentService) DeleteComment(ctx context.Context, commentID uint, callerID string) (*models.Comment, error) {
	comment, err := s.ownedComment(ctx, commentID, callerID, "delete")
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.DeleteComment(ctx, commentID); err != nil {
		return nil, err
	}
	observability.CommentWrites.WithLabelValues("delete").Inc()
	return comment, nil
}

// DeleteCommentCascade deletes a comment and, for a top-level comment, each of
// its replies afterwards. The steps are not one transaction: if a reply cannot
// be deleted the parent stays deleted and a PartialCascadeError lists the
// replies that remain.
func (s *CommentService) DeleteCommentCascade(ctx context.Context, commentID uint, callerID string) (*models.Comment, error) {
	comment, err := s.ownedComment(ctx, commentID, callerID, "delete")
	if err != nil {
		return nil, err
	}

	var replies []models.Comment
	if !comment.IsReply() {
		replies, err = s.commentRepo.GetRepliesByParentID(ctx, commentID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.commentRepo.DeleteComment(ctx, commentID); err != nil {
		return nil, err
	}
	observability.CommentWrites.WithLabelValues("delete").Inc()

	var failed []uint
	var errs []error
	for _, reply := range replies {
		err := s.commentRepo.DeleteComment(ctx, reply.ID)
		if err == nil || models.IsNotFound(err) {
			continue
		}
		failed = append(failed, reply.ID)
		errs = append(errs, err)
	}
	if len(failed) > 0 {
		observability.CascadeFailures.WithLabelValues("comment").Inc()
		return comment, &models.PartialCascadeError{
			Resource:  "comment",
			ParentID:  strconv.FormatUint(uint64(commentID), 10),
			FailedIDs: failed,
			Err:       errors.Join(errs...),
		}
	}
	return comment, nil
}

func (s *CommentService) ownedComment(ctx context.Context, commentID uint, callerID, action string) (*models.Comment, error) {
	if callerID == "" {
		return nil, models.NewAuthenticationError("Login required to " + action + " a comment")
	}
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != callerID {
		return nil, models.NewAuthorizationError("You can only " + action + " your own comments")
	}
	return comment, nil
}
