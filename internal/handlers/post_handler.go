package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-blog/backend/internal/access"
	"github.com/anonto42/nano-blog/backend/internal/middleware"
	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/anonto42/nano-blog/backend/internal/services"
	"github.com/anonto42/nano-blog/backend/internal/uploads"
	"github.com/labstack/echo/v4"
)

// PostHandler handles the post pages: detail, create, edit and delete
type PostHandler struct {
	content     *services.ContentService
	aggregation *services.AggregationService
	uploads     uploads.Store
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(content *services.ContentService, aggregation *services.AggregationService, store uploads.Store) *PostHandler {
	return &PostHandler{
		content:     content,
		aggregation: aggregation,
		uploads:     store,
	}
}

// RegisterPostRoutes registers post routes on the /blog group
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/add", h.AddPage, middleware.RequireIdentity)
	g.POST("/add", h.CreatePost, middleware.RequireIdentity)
	g.GET("/:id", h.GetPost)
	g.GET("/:id/edit", h.EditPage, middleware.RequireIdentity)
	g.POST("/:id/edit", h.UpdatePost, middleware.RequireIdentity)
	g.POST("/:id/delete", h.DeletePost, middleware.RequireIdentity)
}

// GetPost renders a post with its comments and likes, plus the caller's own posts
func (h *PostHandler) GetPost(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentIdentity(c)

	detail, err := h.aggregation.Detail(ctx, c.Param("id"), access.FromIdentity(user))
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			c.Logger().Errorf("post detail %s: %v", c.Param("id"), err)
		}
		return c.Redirect(http.StatusFound, "/blog")
	}

	myPosts := []models.Post{}
	if user != nil {
		if myPosts, err = h.content.ListPostsByAuthor(ctx, user.UserID); err != nil {
			c.Logger().Errorf("list own posts: %v", err)
			myPosts = []models.Post{}
		}
	}

	return c.Render(http.StatusOK, "detail", echo.Map{
		"Title":   detail.Post.Title,
		"User":    user,
		"Detail":  detail,
		"MyPosts": myPosts,
	})
}

func (h *PostHandler) AddPage(c echo.Context) error {
	return c.Render(http.StatusOK, "add", echo.Map{
		"Title": "Add Post",
		"User":  middleware.CurrentIdentity(c),
	})
}

// CreatePost stores a post authored by the signed-in user
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusFound, "/blog/add")
	}
	if err := c.Validate(&req); err != nil {
		return c.Redirect(http.StatusFound, "/blog/add")
	}

	image, err := saveUpload(c, h.uploads, "image")
	if err != nil {
		c.Logger().Errorf("save post image: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error creating post")
	}
	authorImage, err := saveUpload(c, h.uploads, "authorImage")
	if err != nil {
		c.Logger().Errorf("save author image: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error creating post")
	}

	_, err = h.content.CreatePost(c.Request().Context(), middleware.CurrentIdentity(c), services.NewPost{
		Title:       req.Title,
		Content:     req.Content,
		Image:       image,
		AuthorName:  req.AuthorName,
		AuthorImage: authorImage,
	})
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Redirect(http.StatusFound, "/blog/add")
	case errors.Is(err, services.ErrLoginRequired):
		return c.Redirect(http.StatusFound, "/user/signin")
	case err != nil:
		c.Logger().Errorf("create post: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error creating post")
	}
	return c.Redirect(http.StatusFound, "/home")
}

// EditPage renders the edit form for the post's owner
func (h *PostHandler) EditPage(c echo.Context) error {
	user := middleware.CurrentIdentity(c)
	post, err := h.content.Editable(c.Request().Context(), c.Param("id"), access.FromIdentity(user))
	if err != nil {
		return h.mutationFailed(c, err)
	}
	return c.Render(http.StatusOK, "edit", echo.Map{
		"Title": "Edit Post",
		"User":  user,
		"Post":  post,
	})
}

// UpdatePost applies the edit form; only the owner may edit
func (h *PostHandler) UpdatePost(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	caller := access.FromIdentity(middleware.CurrentIdentity(c))

	if _, err := h.content.Editable(ctx, id, caller); err != nil {
		return h.mutationFailed(c, err)
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusFound, "/blog/"+id+"/edit")
	}
	if err := c.Validate(&req); err != nil {
		return c.Redirect(http.StatusFound, "/blog/"+id+"/edit")
	}

	image, err := saveUpload(c, h.uploads, "image")
	if err != nil {
		c.Logger().Errorf("save post image: %v", err)
		return c.Redirect(http.StatusFound, "/home")
	}

	_, err = h.content.UpdatePost(ctx, id, caller, services.PostUpdate{
		Title:   req.Title,
		Content: req.Content,
		Image:   image,
	})
	if err != nil {
		return h.mutationFailed(c, err)
	}
	return c.Redirect(http.StatusFound, "/user/profile")
}

// DeletePost removes the post with its comments and likes; only the owner may delete
func (h *PostHandler) DeletePost(c echo.Context) error {
	caller := access.FromIdentity(middleware.CurrentIdentity(c))
	if err := h.content.DeletePost(c.Request().Context(), c.Param("id"), caller); err != nil {
		return h.mutationFailed(c, err)
	}
	return c.Redirect(http.StatusFound, "/user/profile")
}

// mutationFailed maps an edit or delete failure onto its response
func (h *PostHandler) mutationFailed(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrNotFound):
		return c.Redirect(http.StatusFound, "/home")
	}
	c.Logger().Errorf("post %s: %v", c.Param("id"), err)
	return c.Redirect(http.StatusFound, "/home")
}
