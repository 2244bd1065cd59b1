package services

import (
	"errors"

	"github.com/anonto42/nano-blog/backend/internal/repositories"
)

var (
	ErrNotFound             = repositories.ErrNotFound
	ErrForbidden            = errors.New("forbidden")
	ErrLoginRequired        = errors.New("login required")
	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidInput         = errors.New("invalid input")
)
