package services

import (
	"context"
	"sync"
	"testing"

	"github.com/anonto42/quill/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testPostID = "65f1c0ffee0000000000abcd"

// postRepoStub is a stub for repositories.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post) error
	getByIDFn    func(context.Context, string) (*models.Post, error)
	byAuthorFn   func(context.Context, string, int64, int64) ([]models.Post, error)
	allFn        func(context.Context, int64, int64) ([]models.Post, error)
	updateFn     func(context.Context, string, *models.Post) error
	deleteFn     func(context.Context, string) error
	toggleLikeFn func(context.Context, string, string) (*models.Post, error)
}

func (s *postRepoStub) CreatePost(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetPostsByAuthorID(ctx context.Context, authorID string, skip, limit int64) ([]models.Post, error) {
	return s.byAuthorFn(ctx, authorID, skip, limit)
}
func (s *postRepoStub) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return s.allFn(ctx, skip, limit)
}
func (s *postRepoStub) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	return s.updateFn(ctx, id, post)
}
func (s *postRepoStub) DeletePost(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.toggleLikeFn(ctx, postID, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = primitive.NewObjectID()
			return nil
		},
		getByIDFn: func(_ context.Context, id string) (*models.Post, error) {
			return &models.Post{AuthorID: "author"}, nil
		},
		byAuthorFn:   func(context.Context, string, int64, int64) ([]models.Post, error) { return []models.Post{}, nil },
		allFn:        func(context.Context, int64, int64) ([]models.Post, error) { return []models.Post{}, nil },
		updateFn:     func(context.Context, string, *models.Post) error { return nil },
		deleteFn:     func(context.Context, string) error { return nil },
		toggleLikeFn: func(context.Context, string, string) (*models.Post, error) { return &models.Post{}, nil },
	}
}

// commentRepoStub is a stub for repositories.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	byPostFn       func(context.Context, string) ([]models.Comment, error)
	byParentFn     func(context.Context, uint) ([]models.Comment, error)
	updateFn       func(context.Context, uint, string, string) (*models.Comment, error)
	deleteFn       func(context.Context, uint) error
	deleteByPostFn func(context.Context, string) (int64, error)
	countFn        func(context.Context, []string) (map[string]int, error)
}

func (s *commentRepoStub) CreateComment(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.byPostFn(ctx, postID)
}
func (s *commentRepoStub) GetRepliesByParentID(ctx context.Context, parentID uint) ([]models.Comment, error) {
	return s.byParentFn(ctx, parentID)
}
func (s *commentRepoStub) UpdateCommentContent(ctx context.Context, id uint, authorID, content string) (*models.Comment, error) {
	return s.updateFn(ctx, id, authorID, content)
}
func (s *commentRepoStub) DeleteComment(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) DeleteCommentsByPostID(ctx context.Context, postID string) (int64, error) {
	return s.deleteByPostFn(ctx, postID)
}
func (s *commentRepoStub) CountTopLevelByPostIDs(ctx context.Context, postIDs []string) (map[string]int, error) {
	return s.countFn(ctx, postIDs)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return nil, models.NewNotFoundError("comment", id)
		},
		byPostFn:       func(context.Context, string) ([]models.Comment, error) { return []models.Comment{}, nil },
		byParentFn:     func(context.Context, uint) ([]models.Comment, error) { return []models.Comment{}, nil },
		updateFn:       func(context.Context, uint, string, string) (*models.Comment, error) { return &models.Comment{}, nil },
		deleteFn:       func(context.Context, uint) error { return nil },
		deleteByPostFn: func(context.Context, string) (int64, error) { return 0, nil },
		countFn:        func(context.Context, []string) (map[string]int, error) { return map[string]int{}, nil },
	}
}

// directoryStub records every batch it is asked for.
type directoryStub struct {
	mu      sync.Mutex
	users   map[string]*models.User
	batches [][]string
	err     error
}

func newDirectoryStub(users ...*models.User) *directoryStub {
	d := &directoryStub{users: make(map[string]*models.User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *directoryStub) GetUsersByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.batches = append(d.batches, append([]string(nil), ids...))
	if d.err != nil {
		return nil, d.err
	}
	out := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (d *directoryStub) requestedIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var ids []string
	for _, b := range d.batches {
		ids = append(ids, b...)
	}
	return ids
}

func assertKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, models.KindOf(err), "unexpected error: %v", err)
}
