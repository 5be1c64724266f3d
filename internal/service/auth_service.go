package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/goldennest/internal/auth"
	"github.com/spec-kit/goldennest/internal/domain"
	"github.com/spec-kit/goldennest/internal/repository"
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// LoginResult carries both tokens issued on login.
type LoginResult struct {
	User             *domain.User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService coordinates registration, login and token refresh.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenService
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, bcryptCost int, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a USER account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, invalid("email is required", "email")
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, invalid("password is required", "password")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and issues an access and a refresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, pgx.ErrNoRows) {
		auth.CompareDummy(password, s.bcryptCost)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, accessExp, err := s.tokens.IssueAccess(user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.tokens.IssueRefresh(user.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		User:             user,
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh exchanges a refresh token for a new access token carrying the
// account's current role. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	if refreshToken == "" {
		return "", time.Time{}, ErrMissingRefreshCookie
	}
	subject, err := s.tokens.SubjectOf(refreshToken)
	if err != nil {
		return "", time.Time{}, ErrInvalidToken
	}
	user, err := s.users.GetByEmail(ctx, subject)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", time.Time{}, ErrInvalidToken
	}
	if err != nil {
		return "", time.Time{}, err
	}
	return s.tokens.IssueAccess(user.Email, user.Role)
}

// Me loads the caller's account.
func (s *AuthService) Me(ctx context.Context, id domain.Identity) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("user")
	}
	return user, err
}

// Tokens exposes the token service for cookie sizing.
func (s *AuthService) Tokens() *auth.TokenService {
	return s.tokens
}
