package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
	"github.com/Dosada05/poker-dream-api/utils"
)

type RegisterInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by register, login and refresh.
type AuthResult struct {
	User   *models.User    `json:"user"`
	Tokens utils.TokenPair `json:"tokens"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *utils.TokenManager
}

func NewAuthService(userRepo repositories.UserRepository, tokens *utils.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	v := newValidator()
	v.email(email, "email")
	v.minLen(&in.Password, true, "password", 8)
	if in.Name != nil {
		v.minLen(in.Name, false, "name", 2)
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	user := &models.User{
		Email:        email,
		Name:         emptyToNil(in.Name),
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, handleRepositoryError(err, "create user")
	}
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if !utils.CheckPasswordHash(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.issue(user)
}

// Refresh issues a new pair for a valid refresh token. The user is re-read so
// a deleted or disabled account cannot keep refreshing.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user for refresh: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	if !isUUID(userID) {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, handleRepositoryError(err, "get current user")
	}
	return user, nil
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}
