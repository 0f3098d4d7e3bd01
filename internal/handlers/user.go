package handlers

import (
	"net/http"

	"github.com/anonto42/quill/backend/internal/middleware"
	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler exposes author resolution over HTTP
type UserHandler struct {
	authors *services.AuthorResolver
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(authors *services.AuthorResolver) *UserHandler {
	return &UserHandler{authors: authors}
}

// RegisterUserRoutes registers user lookup routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/me", h.GetProfile)
	g.GET("/users/:id", h.GetUser)
	g.POST("/users/resolve", h.ResolveUsers)
}

// GetUser returns one author view
func (h *UserHandler) GetUser(c echo.Context) error {
	return h.respondWithUser(c, c.Param("id"))
}

// GetProfile returns the caller's own author view
func (h *UserHandler) GetProfile(c echo.Context) error {
	callerID := middleware.CallerID(c)
	if callerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Login required")
	}
	return h.respondWithUser(c, callerID)
}

func (h *UserHandler) respondWithUser(c echo.Context, id string) error {
	view, err := h.authors.ResolveAuthor(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// ResolveUsers maps a batch of user ids to author views. Unknown ids are
// left out of the response.
func (h *UserHandler) ResolveUsers(c echo.Context) error {
	var req models.ResolveUsersRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	views, err := h.authors.ResolveAuthors(c.Request().Context(), req.IDs)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}
