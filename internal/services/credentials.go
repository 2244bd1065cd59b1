package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/anonto42/nano-blog/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// SignupInput carries a new account's fields. Password is the plaintext from the form.
type SignupInput struct {
	FullName string
	Email    string
	Password string
	DOB      *time.Time
	Phone    string
	Avatar   string
}

// ProfileUpdate carries a partial profile edit; zero values keep the stored field
type ProfileUpdate struct {
	FullName string
	Email    string
	DOB      *time.Time
	Phone    string
	Avatar   string
}

// CredentialService owns user accounts and password verification
type CredentialService struct {
	users repositories.UserRepository

	dummyOnce sync.Once
	dummyHash []byte
}

func NewCredentialService(users repositories.UserRepository) *CredentialService {
	return &CredentialService{users: users}
}

// Create registers a new user with a bcrypt hash of the password
func (s *CredentialService) Create(ctx context.Context, in SignupInput) (*models.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}

	if err := s.Available(ctx, in.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	avatar := in.Avatar
	if avatar == "" {
		avatar = models.DefaultAvatar
	}
	user := &models.User{
		FullName: in.FullName,
		Email:    in.Email,
		Password: string(hash),
		DOB:      in.DOB,
		Phone:    in.Phone,
		Avatar:   avatar,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Verify returns the user only when the password matches. Unknown email and wrong
// password are indistinguishable, in result and in bcrypt work done.
// Available reports ErrDuplicateEmail when an account already uses email
func (s *CredentialService) Available(ctx context.Context, email string) error {
	_, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err == nil {
		return ErrDuplicateEmail
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("look up email: %w", err)
	}
	return nil
}

func (s *CredentialService) Verify(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("look up email: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrAuthenticationFailed
	}
	return user, nil
}

func (s *CredentialService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("nano-blog-dummy-password"), bcrypt.DefaultCost)
	})
	return s.dummyHash
}

func (s *CredentialService) Get(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// Update applies the non-empty fields of a profile edit
func (s *CredentialService) Update(ctx context.Context, userID uint, in ProfileUpdate) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.FullName); name != "" {
		user.FullName = name
	}
	if email := strings.TrimSpace(in.Email); email != "" && email != user.Email {
		existing, err := s.users.GetUserByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, ErrDuplicateEmail
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return nil, fmt.Errorf("look up email: %w", err)
		}
		user.Email = email
	}
	if in.DOB != nil {
		user.DOB = in.DOB
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete removes the account record only. Callers cascade the user's content.
func (s *CredentialService) Delete(ctx context.Context, userID uint) error {
	return s.users.DeleteUser(ctx, userID)
}
