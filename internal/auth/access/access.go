// Package access decides whether an identity may use admin-only operations.
package access

import "lifecover/internal/auth/models"

// Decision is the outcome of an access check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// RequireAdmin allows only identities carrying the admin role. A nil identity
// is denied.
func RequireAdmin(identity *models.Identity) Decision {
	if identity.IsAdmin() {
		return Allow
	}
	return Deny
}
