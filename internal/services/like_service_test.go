package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/anonto42/quill/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryLikeStore toggles like sets under a lock, the way the document store
// applies the update server-side.
type memoryLikeStore struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

func (m *memoryLikeStore) toggle(_ context.Context, postID, userID string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[postID]
	if !ok {
		return nil, models.NewNotFoundError("post", postID)
	}
	if post.LikedBy(userID) {
		kept := post.Likes[:0:0]
		for _, id := range post.Likes {
			if id != userID {
				kept = append(kept, id)
			}
		}
		post.Likes = kept
	} else {
		post.Likes = append(post.Likes, userID)
	}
	cp := *post
	cp.Likes = append([]string(nil), post.Likes...)
	return &cp, nil
}

func newLikeService(store *memoryLikeStore) *LikeService {
	repo := noopPostRepo()
	repo.toggleLikeFn = store.toggle
	return NewLikeService(repo)
}

func TestLikeService_ToggleSequence(t *testing.T) {
	store := &memoryLikeStore{posts: map[string]*models.Post{
		testPostID: {AuthorID: "a", Likes: []string{}},
	}}
	svc := newLikeService(store)
	ctx := context.Background()

	res, err := svc.ToggleLike(ctx, testPostID, "b")
	require.NoError(t, err)
	assert.Equal(t, models.LikeToggle{PostID: testPostID, Liked: true, Count: 1}, *res)

	res, err = svc.ToggleLike(ctx, testPostID, "c")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 2, res.Count)

	res, err = svc.ToggleLike(ctx, testPostID, "b")
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 1, res.Count)
}

func TestLikeService_RepeatedToggleAlternates(t *testing.T) {
	store := &memoryLikeStore{posts: map[string]*models.Post{testPostID: {}}}
	svc := newLikeService(store)

	for i := 0; i < 6; i++ {
		res, err := svc.ToggleLike(context.Background(), testPostID, "u")
		require.NoError(t, err)
		assert.Equal(t, i%2 == 0, res.Liked)
		assert.Equal(t, len(store.posts[testPostID].Likes), res.Count)
	}
}

func TestLikeService_ConcurrentUsersAreNotLost(t *testing.T) {
	store := &memoryLikeStore{posts: map[string]*models.Post{testPostID: {}}}
	svc := newLikeService(store)

	const users = 50
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.ToggleLike(context.Background(), testPostID, fmt.Sprintf("user-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.posts[testPostID].Likes, users)
}

func TestLikeService_Errors(t *testing.T) {
	store := &memoryLikeStore{posts: map[string]*models.Post{}}
	svc := newLikeService(store)

	_, err := svc.ToggleLike(context.Background(), testPostID, "")
	assertKind(t, err, models.KindAuthentication)

	_, err = svc.ToggleLike(context.Background(), testPostID, "u")
	assertKind(t, err, models.KindNotFound)
}
