package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"lifecover/internal/ratelimit/metrics"
	"lifecover/internal/ratelimit/models"
	"lifecover/pkg/platform/circuit"
	"lifecover/pkg/platform/httputil"
	"lifecover/pkg/requestcontext"
)

const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderStatus     = "X-RateLimit-Status"
	HeaderRetryAfter = "Retry-After"
)

var exceededMessages = map[models.EndpointClass]string{
	models.ClassRecommendation: "Too many recommendation requests from this IP, please try again later.",
	models.ClassAuth:           "Too many authentication attempts from this IP, please try again later.",
	models.ClassGeneral:        "Too many requests from this IP, please try again later.",
}

type RateLimiter interface {
	CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error)
}

type Middleware struct {
	limiter  RateLimiter
	fallback RateLimiter
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithFallback sets the limiter used while the primary one is failing.
// Without a fallback, limiter errors let the request through.
func WithFallback(fallback RateLimiter) Option {
	return func(m *Middleware) {
		m.fallback = fallback
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(m *Middleware) {
		if b != nil {
			m.breaker = b
		}
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
		breaker: circuit.New("ratelimit"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit enforces the per-IP budget of class.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			result, degraded, err := m.check(ctx, ip, class)
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check IP rate limit",
					"error", err,
					"ip", ip,
					"endpoint_class", class,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if degraded {
				w.Header().Set(HeaderStatus, "degraded")
			}

			if !result.Allowed {
				writeRateLimitExceeded(w, class, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// check asks the primary limiter first. Once the breaker has seen enough
// consecutive primary errors, the fallback answers instead of failing open,
// and keeps answering until enough primary successes close the circuit.
func (m *Middleware) check(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, bool, error) {
	result, err := m.limiter.CheckIP(ctx, ip, class)
	if m.fallback == nil {
		return result, false, err
	}

	if err == nil {
		usePrimary, change := m.breaker.RecordSuccess()
		if change.Closed {
			m.logger.InfoContext(ctx, "rate limiter recovered, leaving fallback")
			m.metrics.SetDegraded(false)
		}
		if usePrimary {
			return result, false, nil
		}
		// Still recovering: the fallback keeps answering until the circuit closes.
		if fb, fbErr := m.fallback.CheckIP(ctx, ip, class); fbErr == nil {
			return fb, true, nil
		}
		return result, false, nil
	}

	m.metrics.IncrementLimiterErrors()
	useFallback, change := m.breaker.RecordFailure()
	if change.Opened {
		m.logger.WarnContext(ctx, "rate limiter failing, switching to in-memory fallback", "error", err)
		m.metrics.SetDegraded(true)
	}
	if !useFallback {
		return nil, false, err
	}

	result, err = m.fallback.CheckIP(ctx, ip, class)
	return result, true, err
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set(HeaderLimit, strconv.Itoa(result.Limit))
	w.Header().Set(HeaderRemaining, strconv.Itoa(result.Remaining))
	w.Header().Set(HeaderReset, strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, class models.EndpointClass, result *models.RateLimitResult) {
	msg, ok := exceededMessages[class]
	if !ok {
		msg = exceededMessages[models.ClassGeneral]
	}
	w.Header().Set(HeaderRetryAfter, strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:            "rate_limit_exceeded",
		ErrorDescription: msg,
		RetryAfter:       result.RetryAfter,
	})
}
