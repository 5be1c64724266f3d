package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/goldennest/internal/domain"
)

type memoryCredentials struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
}

func (m *memoryCredentials) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (m *memoryCredentials) setRole(email string, role domain.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[email].Role = role
}

func newAuthFixture(t *testing.T) (*Authenticator, *TokenService, *memoryCredentials) {
	t.Helper()
	tokens, _ := newTestTokens(t, "secret")
	store := &memoryCredentials{users: map[string]*domain.User{
		"a@x.com": {ID: "u1", Email: "a@x.com", Name: "Alice", Role: domain.RoleUser},
	}}
	return NewAuthenticator(tokens, store, nil), tokens, store
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	authn, tokens, _ := newAuthFixture(t)

	valid, _, err := tokens.IssueAccess("a@x.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	ghost, _, err := tokens.IssueAccess("ghost@x.com", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	foreign, _, err := NewTokenService([]byte("other"), 15, 14).IssueAccess("a@x.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   bool
	}{
		{name: "no header", header: "", want: false},
		{name: "basic scheme", header: "Basic abc", want: false},
		{name: "lowercase bearer", header: "bearer " + valid, want: false},
		{name: "empty token", header: "Bearer ", want: false},
		{name: "garbage token", header: "Bearer abc.def.ghi", want: false},
		{name: "foreign key", header: "Bearer " + foreign, want: false},
		{name: "unknown subject", header: "Bearer " + ghost, want: false},
		{name: "valid", header: "Bearer " + valid, want: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := authn.Authenticate(context.Background(), tc.header)
			id, ok := result.Identity()
			if ok != tc.want {
				t.Fatalf("authenticated = %v, want %v", ok, tc.want)
			}
			if ok && (id.Subject != "a@x.com" || id.UserID != "u1" || id.Role != domain.RoleUser) {
				t.Fatalf("identity = %+v", id)
			}
			if !ok && !result.IsAnonymous() {
				t.Fatalf("expected anonymous result")
			}
		})
	}
}

func TestAuthenticateUsesStoredRole(t *testing.T) {
	t.Parallel()
	authn, tokens, store := newAuthFixture(t)

	raw, _, err := tokens.IssueAccess("a@x.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	store.setRole("a@x.com", domain.RoleAdmin)

	id, ok := authn.Authenticate(context.Background(), "Bearer "+raw).Identity()
	if !ok {
		t.Fatalf("expected identity")
	}
	if id.Role != domain.RoleAdmin {
		t.Fatalf("role = %s, want ADMIN from store", id.Role)
	}
}

func TestAuthenticateStoreFailureIsAnonymous(t *testing.T) {
	t.Parallel()
	authn, tokens, store := newAuthFixture(t)
	store.err = errors.New("db down")

	raw, _, err := tokens.IssueAccess("a@x.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if !authn.Authenticate(context.Background(), "Bearer "+raw).IsAnonymous() {
		t.Fatalf("expected anonymous on store failure")
	}
}

func TestHandleAlwaysContinues(t *testing.T) {
	t.Parallel()
	authn, tokens, _ := newAuthFixture(t)

	app := fiber.New()
	app.Use(authn.Handle)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		id, ok := IdentityFromContext(c)
		if !ok {
			return c.SendString("anonymous")
		}
		stdID, stdOK := IdentityFromStdContext(c.UserContext())
		if !stdOK || stdID != id {
			return c.Status(http.StatusInternalServerError).SendString("context mismatch")
		}
		return c.SendString(id.Subject)
	})

	raw, _, err := tokens.IssueAccess("a@x.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	cases := []struct {
		header string
		want   string
	}{
		{header: "", want: "anonymous"},
		{header: "Bearer broken", want: "anonymous"},
		{header: "Bearer " + raw, want: "a@x.com"},
	}
	for _, tc := range cases {
		header, want := tc.header, tc.want
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		body := readBody(t, resp)
		if resp.StatusCode != http.StatusOK || body != want {
			t.Fatalf("header %q: status %d body %q, want %q", header, resp.StatusCode, body, want)
		}
	}
}
