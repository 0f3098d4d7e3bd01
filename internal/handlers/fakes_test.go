package handlers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryPosts is an in-memory repositories.PostRepository.
type memoryPosts struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
	clock time.Time
}

func newMemoryPosts() *memoryPosts {
	return &memoryPosts{
		posts: make(map[primitive.ObjectID]*models.Post),
		clock: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memoryPosts) get(id string) (*models.Post, error) {
	objID, err := repositories.ParsePostID(id)
	if err != nil {
		return nil, err
	}
	p, ok := m.posts[objID]
	if !ok {
		return nil, models.NewNotFoundError("post", id)
	}
	return p, nil
}

func (m *memoryPosts) CreatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	post.ID = primitive.NewObjectID()
	post.CreatedAt, post.UpdatedAt = m.clock, m.clock
	if post.Likes == nil {
		post.Likes = []string{}
	}
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *memoryPosts) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(id)
	if err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (m *memoryPosts) list(match func(*models.Post) bool, skip, limit int64) []models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Post{}
	for _, p := range m.posts {
		if match(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if skip >= int64(len(out)) {
		return []models.Post{}
	}
	out = out[skip:]
	if limit > 0 && limit < int64(len(out)) {
		out = out[:limit]
	}
	return out
}

func (m *memoryPosts) GetPostsByAuthorID(_ context.Context, authorID string, skip, limit int64) ([]models.Post, error) {
	return m.list(func(p *models.Post) bool { return p.AuthorID == authorID }, skip, limit), nil
}

func (m *memoryPosts) GetAllPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	return m.list(func(*models.Post) bool { return true }, skip, limit), nil
}

func (m *memoryPosts) UpdatePost(_ context.Context, id string, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(id)
	if err != nil {
		return err
	}
	p.Title, p.Content, p.Tags, p.CoverImageURL = post.Title, post.Content, post.Tags, post.CoverImageURL
	return nil
}

func (m *memoryPosts) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(id)
	if err != nil {
		return err
	}
	delete(m.posts, p.ID)
	return nil
}

func (m *memoryPosts) ToggleLike(_ context.Context, postID, userID string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(postID)
	if err != nil {
		return nil, err
	}
	if p.LikedBy(userID) {
		kept := []string{}
		for _, id := range p.Likes {
			if id != userID {
				kept = append(kept, id)
			}
		}
		p.Likes = kept
	} else {
		p.Likes = append(p.Likes, userID)
	}
	cp := *p
	cp.Likes = append([]string(nil), p.Likes...)
	return &cp, nil
}

// memoryComments is an in-memory repositories.CommentRepository.
type memoryComments struct {
	mu       sync.Mutex
	comments map[uint]*models.Comment
	nextID   uint
	clock    time.Time
	failOn   map[uint]bool
}

func newMemoryComments() *memoryComments {
	return &memoryComments{
		comments: make(map[uint]*models.Comment),
		clock:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		failOn:   map[uint]bool{},
	}
}

func (m *memoryComments) CreateComment(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	c.ID = m.nextID
	c.CreatedAt, c.UpdatedAt = m.clock, m.clock
	cp := *c
	m.comments[c.ID] = &cp
	return nil
}

func (m *memoryComments) GetCommentByID(_ context.Context, id uint) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, models.NewNotFoundError("comment", id)
	}
	cp := *c
	return &cp, nil
}

func (m *memoryComments) filter(match func(*models.Comment) bool) []models.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Comment{}
	for _, c := range m.comments {
		if match(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memoryComments) GetCommentsByPostID(_ context.Context, postID string) ([]models.Comment, error) {
	return m.filter(func(c *models.Comment) bool { return c.PostID == postID }), nil
}

func (m *memoryComments) GetRepliesByParentID(_ context.Context, parentID uint) ([]models.Comment, error) {
	return m.filter(func(c *models.Comment) bool { return c.ParentID != nil && *c.ParentID == parentID }), nil
}

func (m *memoryComments) UpdateCommentContent(_ context.Context, id uint, authorID, content string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok || c.AuthorID != authorID {
		return nil, models.NewNotFoundError("comment", id)
	}
	c.Content = content
	cp := *c
	return &cp, nil
}

func (m *memoryComments) DeleteComment(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn[id] {
		return models.NewTransientError(context.DeadlineExceeded)
	}
	if _, ok := m.comments[id]; !ok {
		return models.NewNotFoundError("comment", id)
	}
	delete(m.comments, id)
	return nil
}

func (m *memoryComments) DeleteCommentsByPostID(_ context.Context, postID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, c := range m.comments {
		if c.PostID == postID {
			delete(m.comments, id)
			n++
		}
	}
	return n, nil
}

func (m *memoryComments) CountTopLevelByPostIDs(_ context.Context, postIDs []string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	counts := map[string]int{}
	for _, c := range m.comments {
		if c.ParentID == nil && want[c.PostID] {
			counts[c.PostID]++
		}
	}
	return counts, nil
}

// memoryDirectory is an in-memory services.UserDirectory.
type memoryDirectory map[string]*models.User

func (d memoryDirectory) GetUsersByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := d[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// staticVerifier accepts "token-<uid>" bearer tokens.
type staticVerifier struct{}

func (staticVerifier) Verify(_ context.Context, token string) (string, error) {
	const prefix = "token-"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return "", errors.New("unknown token")
	}
	return token[len(prefix):], nil
}
