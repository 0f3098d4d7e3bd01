package repositories

import (
	"context"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/quill/backend/internal/models"
)

// firebaseMaxIdentifiers is the per-call limit of auth.Client.GetUsers.
const firebaseMaxIdentifiers = 100

// FirebaseUserLookup is the slice of *auth.Client used for directory reads.
type FirebaseUserLookup interface {
	GetUsers(ctx context.Context, identifiers []auth.UserIdentifier) (*auth.GetUsersResult, error)
}

// FirebaseUserRepository reads author profiles straight from Firebase Auth.
type FirebaseUserRepository struct {
	client FirebaseUserLookup
}

// NewFirebaseUserRepository creates a new FirebaseUserRepository
func NewFirebaseUserRepository(client FirebaseUserLookup) *FirebaseUserRepository {
	return &FirebaseUserRepository{client: client}
}

// GetUsersByIDs looks up uids in chunks of 100. Unknown uids are omitted.
func (r *FirebaseUserRepository) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	result := make(map[string]*models.User, len(ids))
	for start := 0; start < len(ids); start += firebaseMaxIdentifiers {
		end := min(start+firebaseMaxIdentifiers, len(ids))

		identifiers := make([]auth.UserIdentifier, 0, end-start)
		for _, id := range ids[start:end] {
			identifiers = append(identifiers, auth.UIDIdentifier{UID: id})
		}

		res, err := r.client.GetUsers(ctx, identifiers)
		if err != nil {
			return nil, models.NewTransientError(err)
		}
		for _, record := range res.Users {
			if record == nil || record.UserInfo == nil {
				continue
			}
			result[record.UID] = &models.User{
				ID:        record.UID,
				Username:  record.DisplayName,
				Email:     record.Email,
				AvatarURL: record.PhotoURL,
			}
		}
	}
	return result, nil
}
