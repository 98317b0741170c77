package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level carried by an identity.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the supported values.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the {user, email, role} triple a token encodes. It is derived
// from a verified token and never persisted.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Credential is the stored login record. Only provisioning code writes it;
// login reads it through the credential store.
type Credential struct {
	UserID       uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity projects the credential onto the identity a token will carry.
func (c *Credential) Identity() Identity {
	return Identity{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
	}
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Identity  Identity
	Token     string
	ExpiresAt time.Time
}
