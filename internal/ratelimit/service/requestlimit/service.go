package requestlimit

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks BucketStore,AuditPublisher

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"lifecover/internal/ratelimit/config"
	"lifecover/internal/ratelimit/metrics"
	"lifecover/internal/ratelimit/models"
	dErrors "lifecover/pkg/domain-errors"
	"lifecover/pkg/platform/audit"
	"lifecover/pkg/requestcontext"
)

// configMissingRetryAfter is returned when a class has no configured limit.
const configMissingRetryAfter = 60

// BucketStore manages sliding window rate limit counters.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

// AuditPublisher emits audit events for security-relevant operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	buckets        BucketStore
	auditPublisher AuditPublisher
	logger         *slog.Logger
	config         *config.Config
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(buckets BucketStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("buckets store is required")
	}

	svc := &Service{
		buckets: buckets,
		config:  config.DefaultConfig(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckIP consumes one request from the ip's budget for class.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	s.metrics.RecordCheck(string(class))

	requestsPerWindow, window, ok := s.config.GetIPLimit(class)
	if !ok {
		// Default-deny: an unknown class must not silently become unlimited.
		s.logger.ErrorContext(ctx, "rate limit config missing",
			"endpoint_class", class,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.metrics.RecordRejection(string(class))
		return &models.RateLimitResult{
			Allowed:    false,
			ResetAt:    requestcontext.Now(ctx),
			RetryAfter: configMissingRetryAfter,
		}, nil
	}

	key := models.NewIPRateLimitKey(ip, class)
	result, err := s.buckets.Allow(ctx, key, requestsPerWindow, window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	if !result.Allowed {
		s.metrics.RecordRejection(string(class))
		s.logger.WarnContext(ctx, "rate limit exceeded",
			"ip", ip,
			"endpoint_class", class,
			"limit", requestsPerWindow,
			"window_seconds", int(window.Seconds()),
			"request_id", requestcontext.RequestID(ctx),
		)
		s.emit(ctx, audit.Event{
			Subject:   ip,
			Action:    string(audit.EventRateLimitExceeded),
			Decision:  "deny",
			Reason:    string(class) + " limit=" + strconv.Itoa(requestsPerWindow),
			IP:        ip,
			RequestID: requestcontext.RequestID(ctx),
		})
	}
	return result, nil
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
