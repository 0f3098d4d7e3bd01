package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/quill/backend/internal/models"
	"gorm.io/gorm"
)

// MaxUserBatchSize bounds the id list of a single directory query.
const MaxUserBatchSize = 500

// UserRepository defines the interface for user directory reads
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL. A taken id, username or email
// is reported as a Conflict.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return storeError(r.db.WithContext(ctx).Create(user).Error, "user", user.ID)
}

// GetUsersByIDs retrieves multiple users in a single query.
// Missing users are not included in the result map.
func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	result := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	if len(ids) > MaxUserBatchSize {
		return nil, models.NewValidationError(fmt.Sprintf("batch size %d exceeds maximum %d", len(ids), MaxUserBatchSize))
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, storeError(err, "user", "batch")
	}
	for i := range users {
		result[users[i].ID] = &users[i]
	}
	return result, nil
}
