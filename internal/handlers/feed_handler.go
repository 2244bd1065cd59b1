package handlers

import (
	"net/http"

	"github.com/anonto42/nano-blog/backend/internal/middleware"
	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/anonto42/nano-blog/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the post listings and search
type FeedHandler struct {
	content     *services.ContentService
	aggregation *services.AggregationService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(content *services.ContentService, aggregation *services.AggregationService) *FeedHandler {
	return &FeedHandler{content: content, aggregation: aggregation}
}

// RegisterFeedRoutes registers the root, home and listing routes
func (h *FeedHandler) RegisterFeedRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/home", h.Home, middleware.RequireIdentity)
	e.GET("/blog", h.Index)
	e.GET("/blog/search", h.Search)
}

// Root sends signed-in users home and everyone else to sign in
func (h *FeedHandler) Root(c echo.Context) error {
	if middleware.CurrentIdentity(c) == nil {
		return c.Redirect(http.StatusFound, "/user/signin")
	}
	return c.Redirect(http.StatusFound, "/home")
}

func (h *FeedHandler) Home(c echo.Context) error {
	summaries, err := h.summaries(c)
	if err != nil {
		c.Logger().Errorf("home feed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server Error")
	}
	return h.renderFeed(c, "Home", summaries)
}

func (h *FeedHandler) Index(c echo.Context) error {
	summaries, err := h.summaries(c)
	if err != nil {
		c.Logger().Errorf("post listing: %v", err)
		return c.Redirect(http.StatusFound, "/home")
	}
	return h.renderFeed(c, "All Posts", summaries)
}

func (h *FeedHandler) summaries(c echo.Context) ([]services.PostSummary, error) {
	ctx := c.Request().Context()
	posts, err := h.content.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	return h.aggregation.Summaries(ctx, posts)
}

func (h *FeedHandler) renderFeed(c echo.Context, title string, summaries []services.PostSummary) error {
	return c.Render(http.StatusOK, "index", echo.Map{
		"Title": title,
		"User":  middleware.CurrentIdentity(c),
		"Posts": summaries,
	})
}

// Search answers with a JSON array of matching posts; failures answer with an empty array
func (h *FeedHandler) Search(c echo.Context) error {
	posts, err := h.content.SearchPosts(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		c.Logger().Errorf("search posts: %v", err)
		return c.JSON(http.StatusOK, []models.Post{})
	}
	return c.JSON(http.StatusOK, posts)
}
