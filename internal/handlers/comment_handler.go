package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-blog/backend/internal/middleware"
	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/anonto42/nano-blog/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	content *services.ContentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(content *services.ContentService) *CommentHandler {
	return &CommentHandler{content: content}
}

// RegisterCommentRoutes registers comment routes on the /blog group
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/:id/comment", h.AddComment)
}

// AddComment appends a comment under the caller's name, or Anonymous without an identity
func (h *CommentHandler) AddComment(c echo.Context) error {
	postID := c.Param("id")
	back := "/blog/" + postID

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusFound, back)
	}
	if err := c.Validate(&req); err != nil {
		return c.Redirect(http.StatusFound, back)
	}

	name := ""
	if user := middleware.CurrentIdentity(c); user != nil {
		name = user.FullName
	}

	_, err := h.content.AddComment(c.Request().Context(), postID, name, req.Text)
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Redirect(http.StatusFound, "/blog")
	case err != nil && !errors.Is(err, services.ErrInvalidInput):
		c.Logger().Errorf("add comment to %s: %v", postID, err)
	}
	return c.Redirect(http.StatusFound, back)
}
