package services

import (
	"context"
	"log"
	"strings"

	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/repositories"
)

// PostFilter selects posts for the explore view. Empty fields match everything.
type PostFilter struct {
	// Tag must equal one of the post's tags exactly.
	Tag string
	// Search must occur, ignoring case, in the title, the content or a tag.
	Search string
}

// Matches reports whether post satisfies both parts of the filter.
func (f PostFilter) Matches(post *models.Post) bool {
	if f.Tag != "" && !containsTag(post.Tags, f.Tag) {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(post.Title), q) || strings.Contains(strings.ToLower(post.Content), q) {
		return true
	}
	for _, tag := range post.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// FilterPosts keeps the posts matching f, preserving order.
func FilterPosts(posts []models.Post, f PostFilter) []models.Post {
	if f.Tag == "" && f.Search == "" {
		return posts
	}
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		if f.Matches(&posts[i]) {
			out = append(out, posts[i])
		}
	}
	return out
}

// FeedService builds post listings with derived counts and resolved authors.
type FeedService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	authors     *AuthorResolver
}

type ListPostsInput struct {
	Filter   PostFilter
	Skip     int64
	Limit    int64
	ViewerID string
}

func NewFeedService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, authors *AuthorResolver) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		authors:     authors,
	}
}

// ListPosts returns posts newest first. With a filter set, Skip and Limit
// page over the matching posts rather than over all posts.
func (s *FeedService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.PostView, error) {
	if in.Filter.Tag == "" && in.Filter.Search == "" {
		posts, err := s.postRepo.GetAllPosts(ctx, in.Skip, in.Limit)
		if err != nil {
			return nil, err
		}
		return s.buildViews(ctx, posts, in.ViewerID)
	}

	posts, err := s.postRepo.GetAllPosts(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, page(FilterPosts(posts, in.Filter), in.Skip, in.Limit), in.ViewerID)
}

func page(posts []models.Post, skip, limit int64) []models.Post {
	if skip >= int64(len(posts)) {
		return []models.Post{}
	}
	if skip > 0 {
		posts = posts[skip:]
	}
	if limit > 0 && limit < int64(len(posts)) {
		posts = posts[:limit]
	}
	return posts
}

// ListPostsByAuthor returns one author's posts newest first, for the dashboard.
func (s *FeedService) ListPostsByAuthor(ctx context.Context, authorID, viewerID string) ([]models.PostView, error) {
	if authorID == "" {
		return nil, models.NewAuthenticationError("Login required to view your posts")
	}
	posts, err := s.postRepo.GetPostsByAuthorID(ctx, authorID, 0, 0)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, posts, viewerID)
}

// Dashboard totals an author's posts, likes and top-level comments.
func (s *FeedService) Dashboard(ctx context.Context, authorID string) (*models.DashboardSummary, error) {
	views, err := s.ListPostsByAuthor(ctx, authorID, authorID)
	if err != nil {
		return nil, err
	}
	summary := &models.DashboardSummary{Posts: len(views)}
	for _, v := range views {
		summary.TotalLikes += v.LikeCount
		summary.TotalComments += v.CommentCount
	}
	return summary, nil
}

// Tags lists the distinct tags of all posts, in first-seen order over the
// newest-first listing.
func (s *FeedService) Tags(ctx context.Context) ([]string, error) {
	posts, err := s.postRepo.GetAllPosts(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	tags := []string{}
	seen := make(map[string]struct{})
	for _, p := range posts {
		for _, tag := range p.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// buildViews derives counts with one grouped comment query and resolves all
// authors in one batch. An author lookup failure leaves Author empty.
func (s *FeedService) buildViews(ctx context.Context, posts []models.Post, viewerID string) ([]models.PostView, error) {
	views := make([]models.PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]string, len(posts))
	authorIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID.Hex()
		authorIDs[i] = p.AuthorID
	}

	counts, err := s.commentRepo.CountTopLevelByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	authors := map[string]models.UserView{}
	if s.authors != nil {
		resolved, err := s.authors.ResolveAuthors(ctx, authorIDs)
		if err != nil {
			log.Printf("Warning: failed to resolve post authors: %v", err)
		} else {
			authors = resolved
		}
	}

	for i, p := range posts {
		view := models.PostView{
			Post:         p,
			LikeCount:    len(p.Likes),
			CommentCount: counts[postIDs[i]],
			Liked:        viewerID != "" && p.LikedBy(viewerID),
		}
		if author, ok := authors[p.AuthorID]; ok {
			view.Author = &author
		}
		views = append(views, view)
	}
	return views, nil
}
