package handlers

import (
	"net/http"

	"github.com/anonto42/quill/backend/internal/middleware"
	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/services"
	"github.com/labstack/echo/v4"
)

const maxPageSize = 100

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
	feedService *services.FeedService
	authors     *services.AuthorResolver
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService, feedService *services.FeedService, authors *services.AuthorResolver) *PostHandler {
	return &PostHandler{
		postService: postService,
		feedService: feedService,
		authors:     authors,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PATCH("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/posts/:id/author", h.GetPostAuthor)
	g.GET("/tags", h.GetTags)
}

// GetPosts lists posts newest first, optionally filtered by tag and search.
func (h *PostHandler) GetPosts(c echo.Context) error {
	skip, err := queryInt64(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt64(c, "limit", 0)
	if err != nil {
		return err
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	views, err := h.feedService.ListPosts(c.Request().Context(), services.ListPostsInput{
		Filter: services.PostFilter{
			Tag:    c.QueryParam("tag"),
			Search: c.QueryParam("search"),
		},
		Skip:     skip,
		Limit:    limit,
		ViewerID: middleware.CallerID(c),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// CreatePost publishes a post for the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	callerID := middleware.CallerID(c)
	if callerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Login required to write a post")
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.CreatePost(c.Request().Context(), callerID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"post": post})
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postService.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePost updates an existing post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	callerID := middleware.CallerID(c)
	if callerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Login required to edit a post")
	}

	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.UpdatePost(c.Request().Context(), c.Param("id"), callerID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"post": post})
}

// DeletePost deletes a post and its comments
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID := c.Param("id")
	if err := h.postService.DeletePost(c.Request().Context(), postID, middleware.CallerID(c)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Post deleted successfully", "id": postID})
}

// GetPostAuthor returns the author view of a post
func (h *PostHandler) GetPostAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := h.postService.GetPost(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	author, err := h.authors.ResolveAuthor(ctx, post.AuthorID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, author)
}

// GetTags lists the distinct tags in use
func (h *PostHandler) GetTags(c echo.Context) error {
	tags, err := h.feedService.Tags(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tags)
}
