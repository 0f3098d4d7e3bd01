package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is a row of the user directory. It is owned by the identity
// provider; this service only reads it.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:128"` // identity provider uid
	Username  string    `json:"username" gorm:"size:30;uniqueIndex"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio" gorm:"size:160"`
	CreatedAt time.Time `json:"created_at"`
}

// UserView is the author view rendered next to posts and comments.
type UserView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio,omitempty"`
}

// ToView converts a directory row to its author view.
func (u *User) ToView() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Handle:    HandleFromEmail(u.Email),
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
	}
}

// HandleFromEmail derives the "@name" handle shown under a username.
func HandleFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return ""
	}
	return "@" + strings.ToLower(local)
}

// ResolveUsersRequest defines the request body for batch author resolution.
type ResolveUsersRequest struct {
	IDs []string `json:"ids" validate:"required,max=1000,dive,required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
