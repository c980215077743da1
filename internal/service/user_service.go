package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/internal/models"
	"ambulance-request-backend/pkg/utils"
)

type UserService struct {
	userRepo UserStore
}

func NewUserService(userRepo UserStore) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterUser returns the user already registered under email, or creates one.
// Calling it twice with the same email never creates a second row.
func (s *UserService) RegisterUser(ctx context.Context, name, email, phone string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", apperrors.ErrValidation)
	}
	if !utils.ValidPhone(phone) {
		return nil, fmt.Errorf("%w: invalid phone number", apperrors.ErrValidation)
	}

	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &models.User{Name: name, Email: email, Phone: phone}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUserExists) {
			// Lost the race against a concurrent registration for the same email
			return s.userRepo.FindUserByEmail(ctx, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}

// FindUser looks a user up by email, or by phone when email is empty
func (s *UserService) FindUser(ctx context.Context, email, phone string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	switch {
	case email != "":
		return s.userRepo.FindUserByEmail(ctx, email)
	case phone != "":
		return s.userRepo.FindUserByPhone(ctx, phone)
	}
	return nil, fmt.Errorf("%w: email or phone is required", apperrors.ErrValidation)
}
