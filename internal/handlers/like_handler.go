package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-blog/backend/internal/middleware"
	"github.com/anonto42/nano-blog/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	content *services.ContentService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(content *services.ContentService) *LikeHandler {
	return &LikeHandler{content: content}
}

// RegisterLikeRoutes registers like routes on the /blog group
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/:id/like", h.ToggleLike)
}

// ToggleLike likes or unlikes a post for the signed-in user and sends them back where they came from
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	user := middleware.CurrentIdentity(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Login required")
	}

	_, err := h.content.ToggleLike(c.Request().Context(), c.Param("id"), user.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Redirect(http.StatusFound, "/blog")
		}
		c.Logger().Errorf("toggle like on %s: %v", c.Param("id"), err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error liking post")
	}

	back := c.Request().Referer()
	if back == "" {
		back = "/home"
	}
	return c.Redirect(http.StatusFound, back)
}
