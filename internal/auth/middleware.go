package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/goldennest/internal/domain"
)

const (
	resultKey    = "auth_result"
	bearerPrefix = "Bearer "
)

type identityCtxKey struct{}

// CredentialStore looks up accounts by token subject.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Result is the outcome of authenticating one request: either an identity or anonymous.
type Result struct {
	identity      domain.Identity
	authenticated bool
}

// Anonymous is the result for requests without a usable bearer token.
func Anonymous() Result { return Result{} }

// Authenticated wraps a resolved identity.
func Authenticated(id domain.Identity) Result {
	return Result{identity: id, authenticated: true}
}

// Identity returns the identity and whether the request was authenticated.
func (r Result) Identity() (domain.Identity, bool) {
	return r.identity, r.authenticated
}

// IsAnonymous reports whether no identity was attached.
func (r Result) IsAnonymous() bool { return !r.authenticated }

// Authenticator resolves bearer tokens into identities. It never rejects a request;
// the route policy decides what anonymous callers may reach.
type Authenticator struct {
	tokens *TokenService
	users  CredentialStore
	logger *zap.Logger
}

// NewAuthenticator constructs the middleware.
func NewAuthenticator(tokens *TokenService, users CredentialStore, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{tokens: tokens, users: users, logger: logger}
}

// Authenticate derives the caller from an Authorization header value.
func (a *Authenticator) Authenticate(ctx context.Context, header string) Result {
	if !strings.HasPrefix(header, bearerPrefix) {
		return Anonymous()
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	if raw == "" {
		return Anonymous()
	}

	subject, err := a.tokens.SubjectOf(raw)
	if err != nil {
		return Anonymous()
	}

	user, err := a.users.GetByEmail(ctx, subject)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			a.logger.Warn("credential lookup failed", zap.String("subject", subject), zap.Error(err))
		}
		return Anonymous()
	}
	if user == nil {
		return Anonymous()
	}

	return Authenticated(domain.Identity{
		UserID:  user.ID,
		Subject: user.Email,
		Name:    user.Name,
		Role:    user.Role,
	})
}

// Handle attaches the authentication result to the request and always continues.
func (a *Authenticator) Handle(c *fiber.Ctx) error {
	result := a.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	c.Locals(resultKey, result)
	if id, ok := result.Identity(); ok {
		c.SetUserContext(context.WithValue(c.UserContext(), identityCtxKey{}, id))
	}
	return c.Next()
}

// ResultFromContext returns the result stored by Handle; requests that skipped it are anonymous.
func ResultFromContext(c *fiber.Ctx) Result {
	if r, ok := c.Locals(resultKey).(Result); ok {
		return r
	}
	return Anonymous()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	return ResultFromContext(c).Identity()
}

// IdentityFromStdContext retrieves the caller from a request's user context.
func IdentityFromStdContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(domain.Identity)
	return id, ok
}
