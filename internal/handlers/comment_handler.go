package handlers

import (
	"net/http"

	"github.com/anonto42/quill/backend/internal/middleware"
	"github.com/anonto42/quill/backend/internal/models"
	"github.com/anonto42/quill/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments and replies
type CommentHandler struct {
	commentService *services.CommentService
	threadService  *services.ThreadService
	authors        *services.AuthorResolver
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService, threadService *services.ThreadService, authors *services.AuthorResolver) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		threadService:  threadService,
		authors:        authors,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/comments", h.GetComments)
	g.POST("/comments", h.CreateComment)
	g.PATCH("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.GET("/comments/:id/author", h.GetCommentAuthor)
	g.GET("/comments/:id/replies", h.GetReplies)
	g.POST("/comments/:id/replies", h.CreateReply)
	g.GET("/posts/:id/thread", h.GetThread)
}

// GetComments lists the top-level comments of a post, newest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID := c.QueryParam("postId")
	if postID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "postId query parameter is required")
	}

	comments, err := h.commentService.ListTopLevel(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment adds a top-level comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID := c.QueryParam("postId")
	if postID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "postId query parameter is required")
	}
	callerID := middleware.CallerID(c)
	if callerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Login required to comment")
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.CreateComment(c.Request().Context(), services.CreateCommentInput{
		CallerID: callerID,
		PostID:   postID,
		Content:  req.Content,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"comment": comment})
}

// CreateReply answers a top-level comment
func (h *CommentHandler) CreateReply(c echo.Context) error {
	parentID, err := parseCommentID(c, "id")
	if err != nil {
		return err
	}
	callerID := middleware.CallerID(c)
	if callerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Login required to reply")
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reply, err := h.commentService.CreateReply(c.Request().Context(), callerID, parentID, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"reply": reply})
}

// GetReplies lists the replies to one comment, newest first
func (h *CommentHandler) GetReplies(c echo.Context) error {
	parentID, err := parseCommentID(c, "id")
	if err != nil {
		return err
	}

	replies, err := h.commentService.ListByParent(c.Request().Context(), parentID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, replies)
}

// UpdateComment edits the caller's comment
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	commentID, err := parseCommentID(c, "id")
	if err != nil {
		return err
	}
	callerID := middleware.CallerID(c)
	if callerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Login required to edit a comment")
	}

	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.UpdateComment(c.Request().Context(), commentID, callerID, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"comment": comment})
}

// DeleteComment deletes the caller's comment together with its replies
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID, err := parseCommentID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.commentService.DeleteCommentCascade(c.Request().Context(), commentID, middleware.CallerID(c)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"message": "Comment deleted successfully", "id": commentID})
}

// GetCommentAuthor returns the author view of a comment
func (h *CommentHandler) GetCommentAuthor(c echo.Context) error {
	commentID, err := parseCommentID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	comment, err := h.commentService.GetComment(ctx, commentID)
	if err != nil {
		return httpError(err)
	}
	author, err := h.authors.ResolveAuthor(ctx, comment.AuthorID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, author)
}

// GetThread returns the assembled comment thread of a post
func (h *CommentHandler) GetThread(c echo.Context) error {
	showAll := c.QueryParam("all") == "true"

	resp, err := h.threadService.GetThread(c.Request().Context(), c.Param("id"), showAll)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}
