package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"lifecover/internal/recommendation"
	recmetrics "lifecover/internal/recommendation/metrics"
	dErrors "lifecover/pkg/domain-errors"
	audit "lifecover/pkg/platform/audit"
	"lifecover/pkg/requestcontext"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,AuditPublisher

// DefaultListLimit caps admin listings when no limit is configured.
const DefaultListLimit = 100

// Store persists submissions.
type Store interface {
	Save(ctx context.Context, sub *recommendation.Submission) error
	List(ctx context.Context, filter recommendation.ListFilter) ([]*recommendation.Submission, error)
}

// AuditPublisher receives recommendation_created events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs the engine, persists the result and reports it.
type Service struct {
	store          Store
	engine         *recommendation.Engine
	maxListLimit   int
	logger         *slog.Logger
	metrics        *recmetrics.Metrics
	auditPublisher AuditPublisher
	newID          func() uuid.UUID
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *recmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = p
	}
}

// WithEngine replaces the default engine, typically to change the currency locale.
func WithEngine(e *recommendation.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithMaxListLimit bounds List results. Non-positive values are ignored.
func WithMaxListLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxListLimit = limit
		}
	}
}

// WithIDGenerator overrides submission ID generation.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("recommendation store is required")
	}
	s := &Service{
		store:        store,
		engine:       recommendation.NewEngine(),
		maxListLimit: DefaultListLimit,
		logger:       slog.Default(),
		newID:        uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

var tracer = otel.Tracer("lifecover/internal/recommendation/service")

// Submit computes a recommendation for profile and stores it. The engine
// cannot fail; only persistence can.
func (s *Service) Submit(ctx context.Context, profile recommendation.ApplicantProfile, origin recommendation.Origin) (*recommendation.Submission, error) {
	ctx, span := tracer.Start(ctx, "recommendation.Submit")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveSubmitLatency(time.Since(start)) }()

	rec := s.engine.Recommend(profile)
	now := requestcontext.Now(ctx)
	sub := &recommendation.Submission{
		ID:             s.newID(),
		Profile:        profile,
		Recommendation: rec,
		ClientIP:       origin.ClientIP,
		UserAgent:      origin.UserAgent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	span.SetAttributes(
		attribute.String("recommendation.id", sub.ID.String()),
		attribute.String("recommendation.product", string(rec.ProductType)),
		attribute.String("recommendation.risk_tolerance", string(profile.RiskTolerance)),
		attribute.Int("recommendation.term_years", rec.TermYears),
	)

	if err := s.store.Save(ctx, sub); err != nil {
		s.logger.ErrorContext(ctx, "failed to save recommendation",
			"error", err,
			"recommendation_id", sub.ID.String(),
			"request_id", origin.RequestID,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		s.metrics.IncrementStoreFailure()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save recommendation")
	}

	s.metrics.IncrementRecommendation(string(rec.ProductType), string(profile.RiskTolerance), rec.Coverage)
	s.logger.InfoContext(ctx, "recommendation created",
		"recommendation_id", sub.ID.String(),
		"product", string(rec.ProductType),
		"term_years", rec.TermYears,
		"request_id", origin.RequestID,
	)
	s.emit(ctx, audit.Event{
		UserID:    userID(ctx),
		Subject:   sub.ID.String(),
		Action:    string(audit.EventRecommendationCreated),
		Decision:  string(rec.ProductType),
		Reason:    "coverage=" + strconv.FormatInt(rec.Coverage, 10) + " term_years=" + strconv.Itoa(rec.TermYears),
		IP:        origin.ClientIP,
		RequestID: origin.RequestID,
	})
	return sub, nil
}

// List returns stored submissions newest first. The limit is clamped to the
// configured maximum; zero means the maximum.
func (s *Service) List(ctx context.Context, filter recommendation.ListFilter) ([]*recommendation.Submission, error) {
	ctx, span := tracer.Start(ctx, "recommendation.List")
	defer span.End()

	if filter.Limit < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "limit must not be negative")
	}
	for _, r := range filter.RiskTolerances {
		if !r.IsValid() {
			return nil, dErrors.New(dErrors.CodeValidation, "risk_tolerance must be low, medium, or high")
		}
	}
	if filter.Limit == 0 || filter.Limit > s.maxListLimit {
		filter.Limit = s.maxListLimit
	}
	span.SetAttributes(attribute.Int("list.limit", filter.Limit))

	subs, err := s.store.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list recommendations",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list recommendations")
	}
	return subs, nil
}

func userID(ctx context.Context) string {
	if identity := requestcontext.Identity(ctx); identity != nil {
		return identity.UserID.String()
	}
	return ""
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
