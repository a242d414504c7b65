package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ontrakhq/ontrak/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService handles local account registration and password login.
type AuthService struct {
	userRepo  domain.UserRepository
	converter *domain.TimezoneConverter
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo domain.UserRepository, converter *domain.TimezoneConverter) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		converter: converter,
	}
}

// Register creates a trainer account with a bcrypt-hashed password.
// Timezone, when given, must be one of the supported display zones.
func (s *AuthService) Register(ctx context.Context, username, password, name, timezone string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if timezone != "" {
		if _, err := s.converter.ToLocal("00:00", timezone, timeNow()); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Name:         name,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleTrainer},
		Timezone:     timezone,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies a username/password pair and returns the account.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateTimezone changes the zone schedule times are displayed in for
// this user. Empty resets to the base zone.
func (s *AuthService) UpdateTimezone(ctx context.Context, userID, timezone string) (*domain.User, error) {
	if timezone != "" {
		if _, err := s.converter.ToLocal("00:00", timezone, timeNow()); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Timezone = timezone
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile returns the account for the authenticated user.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
