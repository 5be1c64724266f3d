package auth

import (
	"strings"

	"github.com/spec-kit/goldennest/internal/domain"
	apperrors "github.com/spec-kit/goldennest/pkg/util/errorutil"
)

// Access is the tier a route requires.
type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessRole
)

// Requirement is what a request must satisfy to reach a handler.
type Requirement struct {
	Access Access
	Roles  []domain.Role
}

// Public lets anonymous callers through.
func Public() Requirement { return Requirement{Access: AccessPublic} }

// RequireAuthenticated admits any resolved identity.
func RequireAuthenticated() Requirement { return Requirement{Access: AccessAuthenticated} }

// RequireRoles admits identities holding one of roles.
func RequireRoles(roles ...domain.Role) Requirement {
	return Requirement{Access: AccessRole, Roles: roles}
}

// Check returns nil when result satisfies the requirement, a 401 for anonymous
// callers on protected routes and a 403 for identities lacking the role.
func (r Requirement) Check(result Result) error {
	if r.Access == AccessPublic {
		return nil
	}
	id, ok := result.Identity()
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if r.Access == AccessRole && !id.HasRole(r.Roles...) {
		return apperrors.NewForbidden("insufficient role")
	}
	return nil
}

func (r Requirement) String() string {
	switch r.Access {
	case AccessPublic:
		return "public"
	case AccessAuthenticated:
		return "authenticated"
	}
	names := make([]string, 0, len(r.Roles))
	for _, role := range r.Roles {
		names = append(names, string(role))
	}
	return "role(" + strings.Join(names, ",") + ")"
}
