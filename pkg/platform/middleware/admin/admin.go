package admin

import (
	"context"
	"log/slog"
	"net/http"

	"lifecover/internal/auth/access"
	dErrors "lifecover/pkg/domain-errors"
	audit "lifecover/pkg/platform/audit"
	"lifecover/pkg/platform/httputil"
	request "lifecover/pkg/platform/middleware/request"
	"lifecover/pkg/requestcontext"
)

var (
	errUnauthenticated = dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	errForbidden       = dErrors.New(dErrors.CodeForbidden, "admin access required")
)

// DenialRecorder counts denied admin requests.
type DenialRecorder interface {
	IncAdminDenials()
}

type config struct {
	emitter audit.Emitter
	metrics DenialRecorder
}

type Option func(*config)

// WithAuditEmitter records denied requests as admin_access_denied events.
func WithAuditEmitter(e audit.Emitter) Option {
	return func(c *config) { c.emitter = e }
}

func WithMetrics(m DenialRecorder) Option {
	return func(c *config) { c.metrics = m }
}

// RequireAdmin must run after auth.RequireAuth. A request with no identity is
// answered 401; an identity without the admin role is answered 403.
func RequireAdmin(logger *slog.Logger, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identity := requestcontext.Identity(ctx)
			if identity == nil {
				logger.WarnContext(ctx, "admin route reached without identity",
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteError(w, errUnauthenticated)
				return
			}

			if access.RequireAdmin(identity) != access.Allow {
				logger.WarnContext(ctx, "admin access denied",
					"user_id", identity.UserID.String(),
					"role", string(identity.Role),
					"request_id", request.GetRequestID(ctx),
				)
				if cfg.metrics != nil {
					cfg.metrics.IncAdminDenials()
				}
				emitDenial(ctx, logger, cfg.emitter, r, identity.UserID.String())
				httputil.WriteError(w, errForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func emitDenial(ctx context.Context, logger *slog.Logger, emitter audit.Emitter, r *http.Request, userID string) {
	if emitter == nil {
		return
	}
	err := emitter.Emit(ctx, audit.Event{
		UserID:    userID,
		Subject:   r.URL.Path,
		Action:    string(audit.EventAdminAccessDenied),
		Decision:  access.Deny.String(),
		Reason:    "role_not_admin",
		IP:        requestcontext.ClientIP(ctx),
		RequestID: request.GetRequestID(ctx),
	})
	if err != nil {
		logger.WarnContext(ctx, "failed to emit audit event",
			"error", err,
			"action", string(audit.EventAdminAccessDenied),
			"request_id", request.GetRequestID(ctx),
		)
	}
}
