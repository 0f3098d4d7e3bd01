package handlers

import (
	"net/http"

	"github.com/anonto42/quill/backend/internal/middleware"
	"github.com/anonto42/quill/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to post likes
type LikeHandler struct {
	likeService *services.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeService *services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/likes", h.ToggleLike)
}

// ToggleLike adds or removes the caller's like and returns the new count
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	result, err := h.likeService.ToggleLike(c.Request().Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}
