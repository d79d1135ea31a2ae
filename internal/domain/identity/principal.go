package identity

import "github.com/google/uuid"

// Principal is the identity attached to a request.
// The zero value is the anonymous principal.
type Principal struct {
	UserID      uuid.UUID
	Username    string
	IsStaff     bool
	Permissions []string
}

// Anonymous returns the unauthenticated principal
func Anonymous() Principal {
	return Principal{}
}

// IsAuthenticated reports whether the principal represents a known user
func (p Principal) IsAuthenticated() bool {
	return p.UserID != uuid.Nil
}

// HasPermission reports whether the principal was granted a permission code such as "customer:read"
func (p Principal) HasPermission(permission string) bool {
	for _, granted := range p.Permissions {
		if granted == permission {
			return true
		}
	}
	return false
}
