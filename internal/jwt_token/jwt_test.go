package jwttoken

import (
	"testing"
	"time"

	"lifecover/internal/auth/models"
	dErrors "lifecover/pkg/domain-errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jwtService = NewJWTService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
)
var identity = models.Identity{
	UserID: uuid.New(),
	Email:  "admin@insurance.com",
	Role:   models.RoleAdmin,
}
var expiresIn = time.Hour

func Test_GenerateAccessToken(t *testing.T) {
	token, expiresAt, err := jwtService.GenerateAccessToken(identity, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(expiresIn), expiresAt, time.Minute)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID.String(), claims.UserID)
	assert.Equal(t, identity.Email, claims.Email)
	assert.Equal(t, string(identity.Role), claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateIdentity_RoundTrip(t *testing.T) {
	token, _, err := jwtService.GenerateAccessToken(identity, expiresIn)
	require.NoError(t, err)

	got, err := jwtService.ValidateIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, identity, *got)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	expiresIn := -time.Hour // Expired token

	token, _, err := jwtService.GenerateAccessToken(identity, expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}

func Test_ValidateToken_ExpiresWithClock(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewJWTService("test-signing-key", "test-issuer", "test-audience",
		WithClock(func() time.Time { return issuedAt }))
	token, _, err := issuer.GenerateAccessToken(identity, time.Hour)
	require.NoError(t, err)

	later := NewJWTService("test-signing-key", "test-issuer", "test-audience",
		WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) }))
	_, err = later.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}

func Test_ValidateToken_WrongSigningKey(t *testing.T) {
	other := NewJWTService("another-key", "test-issuer", "test-audience")
	token, _, err := other.GenerateAccessToken(identity, expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_ValidateToken_WrongAudience(t *testing.T) {
	other := NewJWTService("test-signing-key", "test-issuer", "someone-else")
	token, _, err := other.GenerateAccessToken(identity, expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_ValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: identity.UserID.String(),
		Email:  identity.Email,
		Role:   string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "test-issuer",
			Audience:  []string{"test-audience"},
		},
	})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(unsigned)
	require.Error(t, err)
}

func Test_ValidateIdentity_FailsClosedOnBadShape(t *testing.T) {
	cases := map[string]Claims{
		"non-uuid user id": {UserID: "42", Email: "a@b.com", Role: "admin"},
		"unknown role":     {UserID: uuid.NewString(), Email: "a@b.com", Role: "superuser"},
		"missing email":    {UserID: uuid.NewString(), Role: "user"},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			claims.RegisteredClaims = jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    "test-issuer",
				Audience:  []string{"test-audience"},
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
			require.NoError(t, err)

			got, err := jwtService.ValidateIdentity(token)
			require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims"))
			assert.Nil(t, got)
		})
	}
}
