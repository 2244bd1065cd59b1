package models

// Identity is the minimal user projection carried in the signed identity cookie.
// It is readable by the client; only its integrity is protected.
type Identity struct {
	UserID   uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// IdentityOf projects a stored user into the token payload.
func IdentityOf(user *User) Identity {
	return Identity{
		UserID:   user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Avatar:   user.Avatar,
	}
}
