// Package access holds the single ownership rule guarding post mutations.
package access

import "github.com/anonto42/nano-blog/backend/internal/models"

// Caller is whoever issued the request: Anonymous or an authenticated user id
type Caller struct {
	userID        uint
	authenticated bool
}

func Anonymous() Caller {
	return Caller{}
}

func Authenticated(userID uint) Caller {
	return Caller{userID: userID, authenticated: true}
}

// FromIdentity maps a verified identity to a caller; nil means Anonymous
func FromIdentity(id *models.Identity) Caller {
	if id == nil || id.UserID == 0 {
		return Anonymous()
	}
	return Authenticated(id.UserID)
}

func (c Caller) IsAuthenticated() bool {
	return c.authenticated
}

// UserID is zero for Anonymous
func (c Caller) UserID() uint {
	return c.userID
}

// Owns reports whether the caller may mutate a resource authored by authorID
func (c Caller) Owns(authorID uint) bool {
	return c.authenticated && c.userID == authorID
}
