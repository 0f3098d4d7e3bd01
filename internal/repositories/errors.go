package repositories

import (
	"errors"

	"github.com/anonto42/quill/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// storeError classifies a driver error. Missing records become NotFound and
// constraint violations become Conflict. Everything else the store could not
// complete is reported as Transient.
func storeError(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewNotFoundError(resource, id)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) || mongo.IsDuplicateKeyError(err) {
		return models.NewConflictError(resource, id, err)
	}
	return models.NewTransientError(err)
}
