package middleware

import (
	"net/http"

	"github.com/anonto42/nano-blog/backend/internal/identity"
	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const identityKey = "user"

// LoadIdentity verifies the identity cookie on every request and stores the result in the context.
// A missing or invalid cookie leaves the request anonymous; it never fails the request.
func LoadIdentity(manager *identity.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, ok := manager.Current(c.Request()); ok {
				c.Set(identityKey, id)
			}
			return next(c)
		}
	}
}

// CurrentIdentity returns the identity loaded for this request, or nil
func CurrentIdentity(c echo.Context) *models.Identity {
	id, _ := c.Get(identityKey).(*models.Identity)
	return id
}

// RequireIdentity sends anonymous requests to the sign-in page
func RequireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentIdentity(c) == nil {
			return c.Redirect(http.StatusFound, "/user/signin")
		}
		return next(c)
	}
}
