package testutil

import (
	"net/http"
	"time"

	"lifecover/internal/auth/models"
	"lifecover/pkg/requestcontext"

	"github.com/google/uuid"
)

// AdminIdentity returns a fresh admin identity for handler tests.
func AdminIdentity() *models.Identity {
	return &models.Identity{UserID: uuid.New(), Email: "admin@insurance.com", Role: models.RoleAdmin}
}

// UserIdentity returns a fresh non-admin identity for handler tests.
func UserIdentity() *models.Identity {
	return &models.Identity{UserID: uuid.New(), Email: "user@insurance.com", Role: models.RoleUser}
}

// WithIdentity attaches an identity to the request context, simulating what
// the auth middleware does for authenticated requests.
func WithIdentity(req *http.Request, identity *models.Identity) *http.Request {
	return req.WithContext(requestcontext.WithIdentity(req.Context(), identity))
}

// WithClient attaches client IP and User-Agent as the metadata middleware would.
func WithClient(req *http.Request, clientIP, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent))
}

// WithTime pins the request-scoped clock.
func WithTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithBearer sets the Authorization header.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
