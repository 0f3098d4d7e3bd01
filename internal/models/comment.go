package models

import "time"

// Comment represents a comment on a post. A nil ParentID marks a top-level
// comment; otherwise ParentID points at the top-level comment being replied to.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"size:24;not null;index:idx_comments_post_parent,priority:1"` // MongoDB ObjectID as hex
	ParentID  *uint     `json:"parent_id" gorm:"index:idx_comments_post_parent,priority:2"`
	AuthorID  string    `json:"author_id" gorm:"size:128;not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CreateCommentRequest defines the request body for creating a comment or a reply.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

// UpdateCommentRequest defines the request body for updating an existing comment.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"max=10000"`
}
