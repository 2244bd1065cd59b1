package models

import "time"

// DefaultAvatar is used when a user or post author has no uploaded image.
const DefaultAvatar = "/images/default-user.png"

type User struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	FullName  string     `json:"full_name" gorm:"not null"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null"` // Uniqueness backs up the signup existence check
	Password  string     `json:"-" gorm:"not null"`                 // bcrypt hash, never serialized
	DOB       *time.Time `json:"dob,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Avatar    string     `json:"avatar"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SignupRequest is the multipart form posted to /user/signup.
type SignupRequest struct {
	FullName string `form:"fullName" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	DOB      string `form:"dob" validate:"omitempty,datetime=2006-01-02"`
	Phone    string `form:"phone" validate:"omitempty,max=30"`
}

type SigninRequest struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// UpdateProfileRequest is the form posted to /user/profile/edit. Empty fields keep their stored value.
type UpdateProfileRequest struct {
	FullName string `form:"fullName" validate:"omitempty,max=100"`
	Email    string `form:"email" validate:"omitempty,email"`
	DOB      string `form:"dob" validate:"omitempty,datetime=2006-01-02"`
	Phone    string `form:"phone" validate:"omitempty,max=30"`
}

// ParseDOB parses an optional YYYY-MM-DD date of birth.
func ParseDOB(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
