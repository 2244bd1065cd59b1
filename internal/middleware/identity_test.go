package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/nano-blog/backend/internal/identity"
	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityMiddleware(t *testing.T) {
	manager := identity.NewManager("secret", identity.DefaultMaxAge, false)
	token, err := manager.Issue(models.Identity{UserID: 3, FullName: "Carol"})
	require.NoError(t, err)

	e := echo.New()
	e.Use(LoadIdentity(manager))
	e.GET("/private", func(c echo.Context) error {
		return c.String(http.StatusOK, CurrentIdentity(c).FullName)
	}, RequireIdentity)

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{"valid cookie", token, http.StatusOK, "Carol"},
		{"forged cookie", token + "x", http.StatusFound, ""},
		{"no cookie", "", http.StatusFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: identity.CookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusFound {
				assert.Equal(t, "/user/signin", rec.Header().Get(echo.HeaderLocation))
			} else {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
