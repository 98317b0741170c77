package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"

	// DefaultJWTSigningKey is only acceptable outside production.
	DefaultJWTSigningKey = "dev-secret-key-change-in-production"
)

// Server captures process configuration. Keys are flat so that
// LIFECOVER_RATE_LIMIT_AUTH maps directly onto rate_limit_auth.
type Server struct {
	Addr        string `koanf:"addr"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`
	LogFormat   string `koanf:"log_format"`

	JWTSigningKey string        `koanf:"jwt_signing_key"`
	JWTIssuer     string        `koanf:"jwt_issuer"`
	JWTAudience   string        `koanf:"jwt_audience"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	BcryptCost    int           `koanf:"bcrypt_cost"`

	DatabaseURL   string `koanf:"database_url"`
	RedisURL      string `koanf:"redis_url"`
	RedisPoolSize int    `koanf:"redis_pool_size"`

	KafkaBrokers    []string `koanf:"kafka_brokers"`
	KafkaAuditTopic string   `koanf:"kafka_audit_topic"`

	RateLimitDisabled       bool          `koanf:"rate_limit_disabled"`
	RateLimitWindow         time.Duration `koanf:"rate_limit_window"`
	RateLimitRecommendation int           `koanf:"rate_limit_recommendation"`
	RateLimitAuth           int           `koanf:"rate_limit_auth"`
	RateLimitGeneral        int           `koanf:"rate_limit_general"`

	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`

	CurrencyLocale string `koanf:"currency_locale"`
	CurrencySymbol string `koanf:"currency_symbol"`

	// ListMaxLimit caps GET /api/recommendations?limit.
	ListMaxLimit int `koanf:"list_max_limit"`
}

// Default returns the configuration used when nothing is overridden. The
// values mirror the limits the service has always shipped with.
func Default() Server {
	return Server{
		Addr:        ":8080",
		Environment: EnvironmentDevelopment,
		LogLevel:    "info",
		LogFormat:   "json",

		JWTSigningKey: DefaultJWTSigningKey,
		JWTIssuer:     "lifecover",
		JWTAudience:   "lifecover-api",
		TokenTTL:      24 * time.Hour,
		BcryptCost:    10,

		RedisPoolSize: 10,

		KafkaAuditTopic: "lifecover.audit",

		RateLimitWindow:         15 * time.Minute,
		RateLimitRecommendation: 5,
		RateLimitAuth:           10,
		RateLimitGeneral:        100,

		CurrencyLocale: "en-US",
		CurrencySymbol: "$",

		ListMaxLimit: 100,
	}
}

// IsProduction reports whether the service runs in production mode.
func (s Server) IsProduction() bool {
	return s.Environment == EnvironmentProduction
}

// Validate enforces invariants that would otherwise surface as confusing
// runtime failures.
func (s Server) Validate() error {
	var errs []error
	if s.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if s.JWTSigningKey == "" {
		errs = append(errs, errors.New("jwt_signing_key must not be empty"))
	}
	if s.IsProduction() && s.JWTSigningKey == DefaultJWTSigningKey {
		errs = append(errs, errors.New("jwt_signing_key must be overridden in production"))
	}
	if s.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token_ttl must be positive, got %s", s.TokenTTL))
	}
	if s.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit_window must be positive, got %s", s.RateLimitWindow))
	}
	if s.ListMaxLimit <= 0 {
		errs = append(errs, fmt.Errorf("list_max_limit must be positive, got %d", s.ListMaxLimit))
	}
	if (s.AdminEmail == "") != (s.AdminPassword == "") {
		errs = append(errs, errors.New("admin_email and admin_password must be set together"))
	}
	return errors.Join(errs...)
}
