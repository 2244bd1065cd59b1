package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-blog/backend/internal/identity"
	"github.com/anonto42/nano-blog/backend/internal/middleware"
	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/anonto42/nano-blog/backend/internal/services"
	"github.com/anonto42/nano-blog/backend/internal/uploads"
	"github.com/labstack/echo/v4"
)

// UserHandler handles the signed-in user's profile
type UserHandler struct {
	credentials *services.CredentialService
	content     *services.ContentService
	aggregation *services.AggregationService
	identities  *identity.Manager
	uploads     uploads.Store
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	credentials *services.CredentialService,
	content *services.ContentService,
	aggregation *services.AggregationService,
	identities *identity.Manager,
	store uploads.Store,
) *UserHandler {
	return &UserHandler{
		credentials: credentials,
		content:     content,
		aggregation: aggregation,
		identities:  identities,
		uploads:     store,
	}
}

// RegisterProfileRoutes registers profile routes on the /user group
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile, middleware.RequireIdentity)
	g.GET("/profile/edit", h.EditProfilePage, middleware.RequireIdentity)
	g.POST("/profile/edit", h.UpdateProfile, middleware.RequireIdentity)
	g.GET("/profile/delete", h.DeleteUser, middleware.RequireIdentity)
}

// GetProfile renders the stored user record and the user's own posts
func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentIdentity(c)

	profile, err := h.credentials.Get(ctx, user.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.identities.Clear(c.Response())
			return c.Redirect(http.StatusFound, "/user/signin")
		}
		c.Logger().Errorf("load profile %d: %v", user.UserID, err)
		return c.Redirect(http.StatusFound, "/")
	}

	posts, err := h.content.ListPostsByAuthor(ctx, user.UserID)
	if err != nil {
		c.Logger().Errorf("list posts of %d: %v", user.UserID, err)
		return c.Redirect(http.StatusFound, "/")
	}
	summaries, err := h.aggregation.Summaries(ctx, posts)
	if err != nil {
		c.Logger().Errorf("summarize posts of %d: %v", user.UserID, err)
		return c.Redirect(http.StatusFound, "/")
	}

	return c.Render(http.StatusOK, "profile", echo.Map{
		"Title":   "Profile",
		"User":    user,
		"Profile": profile,
		"Posts":   summaries,
	})
}

func (h *UserHandler) EditProfilePage(c echo.Context) error {
	user := middleware.CurrentIdentity(c)
	profile, err := h.credentials.Get(c.Request().Context(), user.UserID)
	if err != nil {
		c.Logger().Errorf("load profile %d: %v", user.UserID, err)
		return c.Redirect(http.StatusFound, "/user/profile")
	}
	return c.Render(http.StatusOK, "editProfile", echo.Map{
		"Title":   "Edit Profile",
		"User":    user,
		"Profile": profile,
	})
}

// UpdateProfile applies the edit form and reissues the identity cookie
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user := middleware.CurrentIdentity(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusFound, "/user/profile")
	}
	if err := c.Validate(&req); err != nil {
		return c.Redirect(http.StatusFound, "/user/profile")
	}
	dob, err := models.ParseDOB(req.DOB)
	if err != nil {
		return c.Redirect(http.StatusFound, "/user/profile")
	}

	avatar, err := saveUpload(c, h.uploads, "avatar")
	if err != nil {
		c.Logger().Errorf("save avatar: %v", err)
		return c.Redirect(http.StatusFound, "/user/profile")
	}

	updated, err := h.credentials.Update(c.Request().Context(), user.UserID, services.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		DOB:      dob,
		Phone:    req.Phone,
		Avatar:   avatar,
	})
	if err != nil {
		if !errors.Is(err, services.ErrDuplicateEmail) {
			c.Logger().Errorf("update profile %d: %v", user.UserID, err)
		}
		return c.Redirect(http.StatusFound, "/user/profile")
	}

	if err := h.identities.Set(c.Response(), models.IdentityOf(updated)); err != nil {
		c.Logger().Errorf("reissue identity: %v", err)
	}
	return c.Redirect(http.StatusFound, "/user/profile")
}

// DeleteUser removes the account, then every post it authored with their comments and likes
func (h *UserHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentIdentity(c)

	if err := h.credentials.Delete(ctx, user.UserID); err != nil && !errors.Is(err, services.ErrNotFound) {
		c.Logger().Errorf("delete user %d: %v", user.UserID, err)
		return c.Redirect(http.StatusFound, "/user/profile")
	}
	// The account is gone at this point, so a failed cascade is logged rather than reported.
	if err := h.content.DeletePostsByAuthor(ctx, user.UserID); err != nil {
		c.Logger().Errorf("delete posts of user %d: %v", user.UserID, err)
	}

	h.identities.Clear(c.Response())
	return c.Redirect(http.StatusFound, "/user/signin")
}
