package service

import (
	"errors"

	dErrors "lifecover/pkg/domain-errors"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// dummyPassword is hashed once at construction. Logins for unknown emails
// compare against that hash so they cost the same as a real mismatch.
const dummyPassword = "lifecover-timing-equalizer"

func hashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return "", dErrors.New(dErrors.CodeValidation, "password is required")
	}
	if len(plain) > maxPasswordBytes {
		return "", dErrors.New(dErrors.CodeValidation, "password must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	return string(hash), nil
}

// comparePassword reports whether plain matches hash. A malformed hash is
// returned as an error so the caller can log it; it never matches.
func comparePassword(hash, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
