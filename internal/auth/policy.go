package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/goldennest/internal/domain"
)

// Rule binds a method and path pattern to a requirement. An empty or "*" method
// matches every method. In patterns "*" matches exactly one segment and "**"
// matches any number of trailing segments, including none.
type Rule struct {
	Method      string
	Pattern     string
	Requirement Requirement

	segments []string
}

// Policy is an ordered rule table evaluated first-match. Requests no rule
// matches require an authenticated identity. Paths compare case-insensitively,
// the same way the fiber router resolves them.
type Policy struct {
	rules    []Rule
	fallback Requirement
}

// NewPolicy compiles rules in the given order.
func NewPolicy(rules ...Rule) *Policy {
	compiled := make([]Rule, 0, len(rules))
	for _, r := range rules {
		r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
		r.segments = splitPath(strings.ToLower(r.Pattern))
		compiled = append(compiled, r)
	}
	return &Policy{rules: compiled, fallback: RequireAuthenticated()}
}

// DefaultPolicy is the route table of the listings API.
func DefaultPolicy() *Policy {
	return NewPolicy(
		Rule{Pattern: "/api/auth/login", Requirement: Public()},
		Rule{Pattern: "/api/auth/register", Requirement: Public()},
		Rule{Pattern: "/api/auth/refresh", Requirement: Public()},
		Rule{Pattern: "/api/auth/logout", Requirement: Public()},
		Rule{Method: fiber.MethodOptions, Pattern: "/**", Requirement: Public()},
		Rule{Pattern: "/health/**", Requirement: Public()},
		Rule{Method: fiber.MethodGet, Pattern: "/api/properties/mine", Requirement: RequireAuthenticated()},
		Rule{Method: fiber.MethodGet, Pattern: "/api/properties/*/inquiries", Requirement: RequireAuthenticated()},
		Rule{Method: fiber.MethodGet, Pattern: "/api/properties/*/visit-requests", Requirement: RequireAuthenticated()},
		Rule{Method: fiber.MethodGet, Pattern: "/api/properties/**", Requirement: Public()},
		Rule{Method: fiber.MethodPost, Pattern: "/api/inquiries", Requirement: Public()},
		Rule{Pattern: "/api/admin/**", Requirement: RequireRoles(domain.RoleAdmin)},
	)
}

// Rules returns a copy of the compiled table.
func (p *Policy) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Evaluate returns the requirement of the first rule matching method and path.
func (p *Policy) Evaluate(method, path string) Requirement {
	method = strings.ToUpper(method)
	segments := splitPath(strings.ToLower(path))
	for _, r := range p.rules {
		if r.Method != "" && r.Method != "*" && r.Method != method {
			continue
		}
		if matchSegments(r.segments, segments) {
			return r.Requirement
		}
	}
	return p.fallback
}

// Enforce rejects requests whose authentication result does not meet the
// matching rule. It must run after Authenticator.Handle.
func (p *Policy) Enforce() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := p.Evaluate(c.Method(), c.Path())
		if err := req.Check(ResultFromContext(c)); err != nil {
			return err
		}
		return c.Next()
	}
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func matchSegments(pattern, path []string) bool {
	for i, seg := range pattern {
		if seg == "**" {
			return true
		}
		if i >= len(path) {
			return false
		}
		if seg != "*" && seg != path[i] {
			return false
		}
	}
	return len(pattern) == len(path)
}
