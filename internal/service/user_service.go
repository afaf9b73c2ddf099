package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"silentlibrary/internal/model"
	"silentlibrary/internal/repository"
)

// ErrIncorrectPassword is returned when the supplied current password does not match.
var ErrIncorrectPassword = errors.New("incorrect password")

// UserService handles profile management.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, firstName, lastName string) (*model.User, error)
	UpdateUsernameEmail(ctx context.Context, id uint, username, email, currentPassword string) (*model.User, error)
	ChangePassword(ctx context.Context, id uint, currentPassword, newPassword string) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile updates the user's first and last name.
func (s *userService) UpdateProfile(ctx context.Context, id uint, firstName, lastName string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.FirstName = firstName
	user.LastName = lastName
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// UpdateUsernameEmail changes username and email after verifying the current password.
func (s *userService) UpdateUsernameEmail(ctx context.Context, id uint, username, email, currentPassword string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return nil, ErrIncorrectPassword
	}

	if username != user.Username {
		if existing, err := s.repo.FindByUsername(ctx, username); err == nil && existing != nil {
			return nil, ErrUsernameTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check username: %w", err)
		}
	}
	if email != user.Email {
		if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
	}

	user.Username = username
	user.Email = email
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update username/email: %w", err)
	}
	return user, nil
}

// ChangePassword sets a new password after verifying the current one.
func (s *userService) ChangePassword(ctx context.Context, id uint, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrIncorrectPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
