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

// AuthHandler handles signup, signin and logout
type AuthHandler struct {
	credentials *services.CredentialService
	identities  *identity.Manager
	uploads     uploads.Store
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(credentials *services.CredentialService, identities *identity.Manager, store uploads.Store) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		identities:  identities,
		uploads:     store,
	}
}

// RegisterAuthRoutes registers authentication routes on the /user group
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.GET("/signup", h.SignupPage)
	g.POST("/signup", h.Signup)
	g.GET("/signin", h.SigninPage)
	g.POST("/signin", h.SignIn)
	g.GET("/logout", h.Logout)
}

func (h *AuthHandler) SignupPage(c echo.Context) error {
	return c.Render(http.StatusOK, "signup", echo.Map{
		"Title": "Sign up",
		"User":  middleware.CurrentIdentity(c),
	})
}

// Signup registers a local account and signs it in
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusFound, "/user/signup")
	}
	if err := c.Validate(&req); err != nil {
		return c.Redirect(http.StatusFound, "/user/signup")
	}
	dob, err := models.ParseDOB(req.DOB)
	if err != nil {
		return c.Redirect(http.StatusFound, "/user/signup")
	}

	// A taken email must not leave an orphaned avatar behind.
	if err := h.credentials.Available(c.Request().Context(), req.Email); err != nil {
		if !errors.Is(err, services.ErrDuplicateEmail) {
			c.Logger().Errorf("signup: %v", err)
		}
		return c.Redirect(http.StatusFound, "/user/signup")
	}

	avatar, err := saveUpload(c, h.uploads, "avatar")
	if err != nil {
		c.Logger().Errorf("save avatar: %v", err)
		return c.Redirect(http.StatusFound, "/user/signup")
	}

	user, err := h.credentials.Create(c.Request().Context(), services.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		DOB:      dob,
		Phone:    req.Phone,
		Avatar:   avatar,
	})
	if err != nil {
		if !errors.Is(err, services.ErrDuplicateEmail) && !errors.Is(err, services.ErrInvalidInput) {
			c.Logger().Errorf("signup: %v", err)
		}
		return c.Redirect(http.StatusFound, "/user/signup")
	}

	if err := h.identities.Set(c.Response(), models.IdentityOf(user)); err != nil {
		c.Logger().Errorf("issue identity: %v", err)
		return c.Redirect(http.StatusFound, "/user/signin")
	}
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) SigninPage(c echo.Context) error {
	return c.Render(http.StatusOK, "signin", echo.Map{
		"Title": "Sign in",
		"User":  middleware.CurrentIdentity(c),
	})
}

// SignIn verifies the password and issues the identity cookie
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusFound, "/user/signin")
	}
	if err := c.Validate(&req); err != nil {
		return c.Redirect(http.StatusFound, "/user/signin")
	}

	user, err := h.credentials.Verify(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, services.ErrAuthenticationFailed) {
			c.Logger().Errorf("signin: %v", err)
		}
		return c.Redirect(http.StatusFound, "/user/signin")
	}

	if err := h.identities.Set(c.Response(), models.IdentityOf(user)); err != nil {
		c.Logger().Errorf("issue identity: %v", err)
		return c.Redirect(http.StatusFound, "/user/signin")
	}
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.identities.Clear(c.Response())
	return c.Redirect(http.StatusFound, "/user/signin")
}
