package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	authmetrics "lifecover/internal/auth/metrics"
	"lifecover/internal/auth/models"
	jwttoken "lifecover/internal/jwt_token"
	dErrors "lifecover/pkg/domain-errors"
	audit "lifecover/pkg/platform/audit"
	"lifecover/pkg/platform/sentinel"
	"lifecover/pkg/requestcontext"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = dErrors.New(dErrors.CodeInvalidCredentials, "invalid email or password")

	// ErrTokenInvalid is returned for every token verification failure.
	ErrTokenInvalid = dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
)

// CredentialStore looks up stored credentials by exact email. It returns
// sentinel.ErrNotFound when no credential matches.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Credential, error)
}

// AuditPublisher receives login outcome events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Config is fixed at construction.
type Config struct {
	SigningKey string
	Issuer     string
	Audience   string
	TokenTTL   time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost when zero.
	BcryptCost int
}

// Service authenticates credentials, issues signed tokens and verifies them.
type Service struct {
	credentials    CredentialStore
	jwt            *jwttoken.JWTService
	cfg            Config
	dummyHash      string
	logger         *slog.Logger
	metrics        *authmetrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
	clock          func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *authmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = p
	}
}

// WithClock sets the time source for token issuance and expiry checks.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func New(credentials CredentialStore, cfg Config, opts ...Option) (*Service, error) {
	if credentials == nil {
		return nil, errors.New("credential store is required")
	}
	if cfg.SigningKey == "" {
		return nil, errors.New("signing key is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}

	s := &Service{
		credentials: credentials,
		cfg:         cfg,
		logger:      slog.Default(),
		tracer:      otel.Tracer("lifecover/internal/auth/service"),
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.jwt = jwttoken.NewJWTService(cfg.SigningKey, cfg.Issuer, cfg.Audience, jwttoken.WithClock(s.clock))

	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	s.dummyHash = string(dummy)
	return s, nil
}

// Login checks the credential and issues a token. Unknown email and wrong
// password are indistinguishable to the caller, including in timing.
func (s *Service) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Login")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveLoginDuration(time.Since(start).Seconds()) }()

	requestID := requestcontext.RequestID(ctx)

	cred, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			_, _ = comparePassword(s.dummyHash, password)
			s.loginFailed(ctx, span, email, "unknown_email", authmetrics.OutcomeFailure)
			return nil, ErrInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "failed to load credential",
			"error", err,
			"request_id", requestID,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "credential lookup failed")
		s.metrics.IncLogin(authmetrics.OutcomeError)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}

	ok, err := comparePassword(cred.PasswordHash, password)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored password hash is unusable",
			"error", err,
			"user_id", cred.UserID.String(),
			"request_id", requestID,
		)
		span.RecordError(err)
		s.loginFailed(ctx, span, email, "unusable_hash", authmetrics.OutcomeError)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		s.loginFailed(ctx, span, email, "password_mismatch", authmetrics.OutcomeFailure)
		return nil, ErrInvalidCredentials
	}

	identity := cred.Identity()
	token, expiresAt, err := s.jwt.GenerateAccessToken(identity, s.cfg.TokenTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to sign token",
			"error", err,
			"request_id", requestID,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "token signing failed")
		s.metrics.IncLogin(authmetrics.OutcomeError)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	span.SetAttributes(
		attribute.String("user.id", identity.UserID.String()),
		attribute.String("user.role", string(identity.Role)),
	)
	s.metrics.IncLogin(authmetrics.OutcomeSuccess)
	s.emit(ctx, audit.Event{
		UserID:    identity.UserID.String(),
		Subject:   identity.Email,
		Action:    string(audit.EventLoginSucceeded),
		Decision:  "granted",
		IP:        requestcontext.ClientIP(ctx),
		RequestID: requestID,
	})

	return &models.LoginResult{
		Identity:  identity,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyToken returns the identity a token encodes. It never consults the
// credential store, so role changes take effect only on the next login.
func (s *Service) VerifyToken(ctx context.Context, token string) (*models.Identity, error) {
	_, span := s.tracer.Start(ctx, "auth.VerifyToken")
	defer span.End()

	identity, err := s.jwt.ValidateIdentity(token)
	if err != nil {
		s.logger.DebugContext(ctx, "token rejected",
			"reason", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		span.SetStatus(codes.Error, "token rejected")
		s.metrics.IncTokenRejections()
		return nil, ErrTokenInvalid
	}
	return identity, nil
}

// HashPassword hashes a plaintext password at the configured bcrypt cost.
func (s *Service) HashPassword(plain string) (string, error) {
	return hashPassword(plain, s.cfg.BcryptCost)
}

// loginFailed answers every rejected login the same way to the caller. The
// outcome label separates a corrupt stored hash from an ordinary mismatch.
func (s *Service) loginFailed(ctx context.Context, span trace.Span, email, reason, outcome string) {
	span.SetAttributes(attribute.String("login.failure_reason", reason))
	s.metrics.IncLogin(outcome)
	s.logger.InfoContext(ctx, "login failed",
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emit(ctx, audit.Event{
		Subject:   email,
		Action:    string(audit.EventLoginFailed),
		Decision:  "denied",
		Reason:    "invalid_credentials",
		IP:        requestcontext.ClientIP(ctx),
		RequestID: requestcontext.RequestID(ctx),
	})
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
			"request_id", event.RequestID,
		)
	}
}
