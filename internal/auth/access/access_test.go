package access

import (
	"testing"

	"lifecover/internal/auth/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		identity *models.Identity
		want     Decision
	}{
		{"admin is allowed", &models.Identity{UserID: uuid.New(), Email: "admin@insurance.com", Role: models.RoleAdmin}, Allow},
		{"user is denied", &models.Identity{UserID: uuid.New(), Email: "user@insurance.com", Role: models.RoleUser}, Deny},
		{"unknown role is denied", &models.Identity{UserID: uuid.New(), Email: "x@insurance.com", Role: models.Role("ADMIN")}, Deny},
		{"missing identity is denied", nil, Deny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequireAdmin(tt.identity))
		})
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "deny", Deny.String())
}
