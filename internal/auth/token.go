package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/goldennest/internal/domain"
)

// ErrInvalidToken is returned for any token that fails signature, structure or expiry checks.
// Callers are not told which check failed.
var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and validates HS256 access and refresh tokens.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

// NewTokenService builds a token service. Non-positive lifetimes fall back to
// 15 minutes for access tokens and 14 days for refresh tokens.
func NewTokenService(secret []byte, accessTTLMinutes, refreshTTLDays int, opts ...TokenOption) *TokenService {
	if accessTTLMinutes <= 0 {
		accessTTLMinutes = 15
	}
	if refreshTTLDays <= 0 {
		refreshTTLDays = 14
	}
	key := make([]byte, len(secret))
	copy(key, secret)

	ts := &TokenService{
		secret:     key,
		accessTTL:  time.Duration(accessTTLMinutes) * time.Minute,
		refreshTTL: time.Duration(refreshTTLDays) * 24 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// Claims describes the JWT payload. Role is empty on refresh tokens.
type Claims struct {
	Role domain.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenClaims is the validated content of a token.
type TokenClaims struct {
	Subject   string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AccessTTL returns the access token lifetime.
func (ts *TokenService) AccessTTL() time.Duration { return ts.accessTTL }

// RefreshTTL returns the refresh token lifetime.
func (ts *TokenService) RefreshTTL() time.Duration { return ts.refreshTTL }

// IssueAccess signs a short-lived token carrying subject and role.
func (ts *TokenService) IssueAccess(subject string, role domain.Role) (string, time.Time, error) {
	return ts.issue(subject, role, ts.accessTTL)
}

// IssueRefresh signs a long-lived token carrying only the subject.
func (ts *TokenService) IssueRefresh(subject string) (string, time.Time, error) {
	return ts.issue(subject, "", ts.refreshTTL)
}

func (ts *TokenService) issue(subject string, role domain.Role, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject required")
	}
	now := ts.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ts.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt.Truncate(time.Second), nil
}

// Validate verifies the signature and expiry of tokenStr and returns its claims.
func (ts *TokenService) Validate(tokenStr string) (TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return ts.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		return TokenClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return TokenClaims{}, ErrInvalidToken
	}

	out := TokenClaims{
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// SubjectOf validates tokenStr and returns only its subject.
func (ts *TokenService) SubjectOf(tokenStr string) (string, error) {
	claims, err := ts.Validate(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
