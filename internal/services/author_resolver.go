package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/observability"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// UserDirectory is the batched user lookup behind author resolution.
// Unknown ids are left out of the returned map.
type UserDirectory interface {
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// AuthorCache stores resolved author views between requests.
type AuthorCache interface {
	GetMany(ctx context.Context, ids []string) (map[string]models.UserView, error)
	SetMany(ctx context.Context, views []models.UserView) error
}

// DefaultAuthorBatchSize is the number of ids sent to the directory per call.
const DefaultAuthorBatchSize = 100

// AuthorResolver maps author ids to user views with one directory lookup per
// distinct id, never one per post or comment.
type AuthorResolver struct {
	directory UserDirectory
	cache     AuthorCache
	batchSize int
}

// NewAuthorResolver creates an AuthorResolver. cache may be nil.
func NewAuthorResolver(directory UserDirectory, cache AuthorCache) *AuthorResolver {
	return &AuthorResolver{
		directory: directory,
		cache:     cache,
		batchSize: DefaultAuthorBatchSize,
	}
}

// ResolveAuthors returns the views of the given ids. Ids without a user are
// absent from the map; that is not an error. Repeated and empty ids are ignored.
func (r *AuthorResolver) ResolveAuthors(ctx context.Context, ids []string) (map[string]models.UserView, error) {
	distinct := distinctIDs(ids)
	result := make(map[string]models.UserView, len(distinct))
	if len(distinct) == 0 {
		return result, nil
	}

	missing := distinct
	if r.cache != nil {
		hits, err := r.cache.GetMany(ctx, distinct)
		if err != nil {
			log.Printf("Warning: author cache read failed: %v", err)
		}
		missing = missing[:0:0]
		for _, id := range distinct {
			if view, ok := hits[id]; ok {
				result[id] = view
				continue
			}
			missing = append(missing, id)
		}
		observability.AuthorLookups.WithLabelValues("cache").Add(float64(len(hits)))
	}
	if len(missing) == 0 {
		return result, nil
	}

	found, err := r.lookup(ctx, missing)
	if err != nil {
		return nil, err
	}

	fresh := make([]models.UserView, 0, len(found))
	for _, id := range missing {
		user, ok := found[id]
		if !ok {
			continue
		}
		view := user.ToView()
		result[id] = view
		fresh = append(fresh, view)
	}
	observability.AuthorLookups.WithLabelValues("directory").Add(float64(len(fresh)))
	observability.AuthorLookups.WithLabelValues("missing").Add(float64(len(missing) - len(fresh)))

	if r.cache != nil && len(fresh) > 0 {
		if err := r.cache.SetMany(ctx, fresh); err != nil {
			log.Printf("Warning: author cache write failed: %v", err)
		}
	}
	return result, nil
}

// ResolveAuthor resolves a single id, reporting an unknown user as NotFound.
func (r *AuthorResolver) ResolveAuthor(ctx context.Context, id string) (*models.UserView, error) {
	views, err := r.ResolveAuthors(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	view, ok := views[id]
	if !ok {
		return nil, models.NewNotFoundError("user", id)
	}
	return &view, nil
}

// lookup splits ids into batches and queries them concurrently.
func (r *AuthorResolver) lookup(ctx context.Context, ids []string) (map[string]*models.User, error) {
	var mu sync.Mutex
	found := make(map[string]*models.User, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(ids); start += r.batchSize {
		batch := ids[start:min(start+r.batchSize, len(ids))]
		g.Go(func() error {
			observability.AuthorBatchSize.Observe(float64(len(batch)))
			users, err := r.directory.GetUsersByIDs(gctx, batch)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for id, user := range users {
				found[id] = user
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, models.NewTransientError(err)
	}
	return found, nil
}

func distinctIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// RedisAuthorCache keeps author views as JSON strings under author:view:<id>.
type RedisAuthorCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAuthorCache creates a RedisAuthorCache
func NewRedisAuthorCache(client *redis.Client, ttl time.Duration) *RedisAuthorCache {
	return &RedisAuthorCache{client: client, ttl: ttl}
}

func authorCacheKey(id string) string {
	return "author:view:" + id
}

// GetMany fetches cached views with a single MGET.
func (c *RedisAuthorCache) GetMany(ctx context.Context, ids []string) (map[string]models.UserView, error) {
	views := make(map[string]models.UserView, len(ids))
	if len(ids) == 0 {
		return views, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = authorCacheKey(id)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return views, err
	}
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var view models.UserView
		if err := json.Unmarshal([]byte(raw), &view); err != nil {
			continue
		}
		views[ids[i]] = view
	}
	return views, nil
}

// SetMany stores views in one pipeline.
func (c *RedisAuthorCache) SetMany(ctx context.Context, views []models.UserView) error {
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, view := range views {
			payload, err := json.Marshal(view)
			if err != nil {
				return err
			}
			pipe.Set(ctx, authorCacheKey(view.ID), payload, c.ttl)
		}
		return nil
	})
	return err
}
