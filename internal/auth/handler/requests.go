package handler

import (
	"strings"

	"github.com/asaskevich/govalidator"

	dErrors "lifecover/pkg/domain-errors"
)

const (
	minPasswordLength = 6
	maxEmailLength    = 255
)

// LoginRequest is the HTTP request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates and normalizes the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Email is matched exactly against stored credentials, so only
	// surrounding whitespace is removed.
	r.Email = strings.TrimSpace(r.Email)

	var problems []string
	if len(r.Email) > maxEmailLength || !govalidator.IsEmail(r.Email) {
		problems = append(problems, "Valid email is required")
	}
	if len(r.Password) < minPasswordLength {
		problems = append(problems, "Password must be at least 6 characters long")
	}
	if len(problems) > 0 {
		return dErrors.New(dErrors.CodeValidation, strings.Join(problems, "; "))
	}
	return nil
}
