package repositories

import (
	"context"
	"time"

	"github.com/anonto42/quill/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
// Every method touches the comments table in a single statement.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	GetRepliesByParentID(ctx context.Context, parentID uint) ([]models.Comment, error)
	UpdateCommentContent(ctx context.Context, id uint, authorID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id uint) error
	DeleteCommentsByPostID(ctx context.Context, postID string) (int64, error)
	CountTopLevelByPostIDs(ctx context.Context, postIDs []string) (map[string]int, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

const newestFirst = "created_at desc, id desc"

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return storeError(r.db.WithContext(ctx).Create(comment).Error, "comment", comment.ID)
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, storeError(err, "comment", id)
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves every comment and reply on a post, newest first
func (r *PostgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order(newestFirst).Find(&comments).Error; err != nil {
		return nil, storeError(err, "comment", postID)
	}
	return comments, nil
}

// GetRepliesByParentID retrieves the replies to one comment, newest first
func (r *PostgresCommentRepository) GetRepliesByParentID(ctx context.Context, parentID uint) ([]models.Comment, error) {
	replies := []models.Comment{}
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order(newestFirst).Find(&replies).Error; err != nil {
		return nil, storeError(err, "comment", parentID)
	}
	return replies, nil
}

// UpdateCommentContent rewrites the content of a comment owned by authorID.
// The ownership check and the write are one conditional UPDATE.
func (r *PostgresCommentRepository) UpdateCommentContent(ctx context.Context, id uint, authorID, content string) (*models.Comment, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Updates(map[string]interface{}{"content": content, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, storeError(res.Error, "comment", id)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("comment", id)
	}
	return r.GetCommentByID(ctx, id)
}

// DeleteComment deletes a single comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return storeError(res.Error, "comment", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("comment", id)
	}
	return nil
}

// DeleteCommentsByPostID removes every comment and reply attached to a post in one statement
func (r *PostgresCommentRepository) DeleteCommentsByPostID(ctx context.Context, postID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{})
	if res.Error != nil {
		return 0, storeError(res.Error, "comment", postID)
	}
	return res.RowsAffected, nil
}

// CountTopLevelByPostIDs counts top-level comments per post in one grouped query.
// Posts without comments are absent from the result.
func (r *PostgresCommentRepository) CountTopLevelByPostIDs(ctx context.Context, postIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID string
		Total  int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("post_id, count(*) AS total").
		Where("post_id IN ? AND parent_id IS NULL", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, storeError(err, "comment", "counts")
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}
