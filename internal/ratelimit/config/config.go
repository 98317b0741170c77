package config

import (
	"time"

	"lifecover/internal/ratelimit/models"
)

const DefaultWindow = 15 * time.Minute

// Config holds per-IP limits keyed by endpoint class.
type Config struct {
	IPLimits map[models.EndpointClass]models.Limit
}

// DefaultConfig returns the limits the API ships with.
func DefaultConfig() *Config {
	return New(DefaultWindow, 5, 10, 100)
}

// New builds a config with one shared window for every class.
func New(window time.Duration, recommendation, auth, general int) *Config {
	return &Config{
		IPLimits: map[models.EndpointClass]models.Limit{
			models.ClassRecommendation: {RequestsPerWindow: recommendation, Window: window},
			models.ClassAuth:           {RequestsPerWindow: auth, Window: window},
			models.ClassGeneral:        {RequestsPerWindow: general, Window: window},
		},
	}
}

// GetIPLimit returns the limit for class. ok is false when the class has no
// positive limit configured.
func (c *Config) GetIPLimit(class models.EndpointClass) (requestsPerWindow int, window time.Duration, ok bool) {
	if c == nil {
		return 0, 0, false
	}
	limit, found := c.IPLimits[class]
	if !found || limit.RequestsPerWindow <= 0 || limit.Window <= 0 {
		return 0, 0, false
	}
	return limit.RequestsPerWindow, limit.Window, true
}
