package models

import (
	"strings"
	"time"
)

// EndpointClass categorizes endpoints for differentiated rate limiting.
type EndpointClass string

const (
	// ClassRecommendation: POST /api/recommendations (5 per 15 min)
	ClassRecommendation EndpointClass = "recommendation"
	// ClassAuth: POST /api/auth/login (10 per 15 min)
	ClassAuth EndpointClass = "auth"
	// ClassGeneral: every /api route (100 per 15 min)
	ClassGeneral EndpointClass = "general"
)

// IsValid checks if the endpoint class is one of the supported enum values.
func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassRecommendation, ClassAuth, ClassGeneral:
		return true
	}
	return false
}

// Limit is a request budget over a sliding window.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// KeyPrefix namespaces bucket keys by what is being limited.
type KeyPrefix string

const KeyPrefixIP KeyPrefix = "ip"

// NewIPRateLimitKey builds the bucket key for an IP and endpoint class.
func NewIPRateLimitKey(ip string, class EndpointClass) string {
	return strings.Join([]string{"rl", string(KeyPrefixIP), SanitizeKeySegment(ip), string(class)}, ":")
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	RetryAfter       int    `json:"retry_after"`
}
