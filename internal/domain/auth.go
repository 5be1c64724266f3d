package domain

// Identity is the authenticated caller for the duration of one request.
// Role is read from the credential store, never from the token.
type Identity struct {
	UserID  string
	Subject string
	Name    string
	Role    Role
}

// HasRole reports whether the identity holds one of roles.
func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin is shorthand for HasRole(RoleAdmin).
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
