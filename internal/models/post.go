package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a published post stored in MongoDB.
// Likes is the like set: each user id appears at most once.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      string             `json:"author_id" bson:"author_id"`
	Title         string             `json:"title" bson:"title"`
	Content       string             `json:"content" bson:"content"`
	Tags          []string           `json:"tags" bson:"tags"`
	CoverImageURL string             `json:"cover_image_url" bson:"cover_image_url"`
	Published     bool               `json:"published" bson:"published"`
	Likes         []string           `json:"likes" bson:"likes"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// LikedBy reports whether userID is in the post's like set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// PostView is a post as listed by the feed: derived counts plus the resolved author.
type PostView struct {
	Post
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	Liked        bool      `json:"liked"`
	Author       *UserView `json:"author,omitempty"`
}

// CreatePostRequest defines the request body for creating a new post.
// CoverImageURL is a durable URL handed back by the object storage service.
type CreatePostRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=150"`
	Content       string   `json:"content" validate:"required"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,required,max=40"`
	CoverImageURL string   `json:"cover_image_url" validate:"required,url"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// Empty fields leave the stored value unchanged.
type UpdatePostRequest struct {
	Title         string   `json:"title,omitempty" validate:"omitempty,max=150"`
	Content       string   `json:"content,omitempty"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,required,max=40"`
	CoverImageURL string   `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}

// DashboardSummary aggregates one author's posts.
type DashboardSummary struct {
	Posts         int `json:"posts"`
	TotalLikes    int `json:"total_likes"`
	TotalComments int `json:"total_comments"`
}
