package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/pkg/auth"
)

// TokenIssuer выпускает access-токены; реализуется auth.JWTService
type TokenIssuer interface {
	GenerateToken(user *entity.User) (string, time.Time, error)
}

var _ TokenIssuer = (*auth.JWTService)(nil)

// AuthResult - пользователь и выданный ему токен
type AuthResult struct {
	User        *entity.User
	AccessToken string
	ExpiresAt   time.Time
}

// AuthService предоставляет методы для регистрации и входа
type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, logger *zap.Logger) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if tokens == nil {
		return nil, fmt.Errorf("TokenIssuer is required for AuthService")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With(zap.String("component", "auth_service")),
	}, nil
}

// RegisterUser создает пользователя с ролью instructor или respondent
func (s *AuthService) RegisterUser(ctx context.Context, username, email, password string, role entity.Role) (*entity.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "username, email and password are required")
	}
	if !role.IsValid() {
		return nil, apperrors.Newf(apperrors.ErrValidation, "role must be %q or %q", entity.RoleInstructor, entity.RoleRespondent)
	}

	exists, err := s.userRepo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return nil, apperrors.New(apperrors.ErrConflict, "user with this email or username already exists")
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// LoginUser проверяет пароль и выдает токен. Неизвестный email и неверный пароль неразличимы.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrUnauthorized, "invalid credentials")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.CheckPassword(password) {
		s.logger.Debug("login rejected: wrong password", zap.Uint("user_id", user.ID))
		return nil, apperrors.New(apperrors.ErrUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: user, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// GetUserByID возвращает пользователя по ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user %d not found", userID)
	}
	return user, nil
}
