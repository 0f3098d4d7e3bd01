package handlers

import (
	"net/http"

	"github.com/anonto42/quill/backend/internal/middleware"
	"github.com/anonto42/quill/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the caller's personal dashboard
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers dashboard routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/me/posts", h.GetMyPosts)
	g.GET("/me/dashboard", h.GetDashboard)
}

// GetMyPosts lists the caller's posts newest first
func (h *FeedHandler) GetMyPosts(c echo.Context) error {
	callerID := middleware.CallerID(c)
	views, err := h.feedService.ListPostsByAuthor(c.Request().Context(), callerID, callerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// GetDashboard totals the caller's posts, likes and comments
func (h *FeedHandler) GetDashboard(c echo.Context) error {
	summary, err := h.feedService.Dashboard(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}
