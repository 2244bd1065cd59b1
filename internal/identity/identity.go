// Package identity issues and reads the signed identity cookie.
//
// The cookie carries a JWT whose claims are the user's public projection. It is readable
// by the client and tamper-evident; any token that fails verification counts as no identity.
package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

const (
	// CookieName is the cookie holding the identity token
	CookieName = "user"
	// DefaultMaxAge is how long an issued identity stays valid
	DefaultMaxAge = 30 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid identity token")

// Claims is the JWT payload: the user projection plus the registered expiry claims
type Claims struct {
	models.Identity
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	maxAge time.Duration
	secure bool
}

func NewManager(secret string, maxAge time.Duration, secure bool) *Manager {
	return &Manager{secret: []byte(secret), maxAge: maxAge, secure: secure}
}

// Issue signs a token for the identity, valid for the manager's max age
func (m *Manager) Issue(id models.Identity) (string, error) {
	now := time.Now()
	claims := &Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the signature and expiry of a token and returns its identity
func (m *Manager) Parse(tokenString string) (*models.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	id := claims.Identity
	return &id, nil
}

// Set issues a token and writes it as the identity cookie
func (m *Manager) Set(w http.ResponseWriter, id models.Identity) error {
	token, err := m.Issue(id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.maxAge / time.Second),
		Expires:  time.Now().Add(m.maxAge),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the identity cookie
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Current returns the identity carried by the request, if it verifies
func (m *Manager) Current(r *http.Request) (*models.Identity, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	id, err := m.Parse(c.Value)
	if err != nil {
		return nil, false
	}
	return id, true
}
