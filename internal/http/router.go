// Package httpapi assembles the HTTP surface: shared middleware, the API
// routes of each module, and the operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	authhandler "lifecover/internal/auth/handler"
	"lifecover/internal/platform/metrics"
	rlmiddleware "lifecover/internal/ratelimit/middleware"
	"lifecover/internal/ratelimit/models"
	rechandler "lifecover/internal/recommendation/handler"
	dErrors "lifecover/pkg/domain-errors"
	"lifecover/pkg/platform/audit"
	"lifecover/pkg/platform/httputil"
	"lifecover/pkg/platform/middleware/admin"
	"lifecover/pkg/platform/middleware/auth"
	"lifecover/pkg/platform/middleware/metadata"
	request "lifecover/pkg/platform/middleware/request"
	"lifecover/pkg/platform/middleware/requesttime"
)

// Deps are the collaborators the router mounts. Health, Registry and
// HTTPMetrics are optional.
type Deps struct {
	Logger          *slog.Logger
	Registry        *prometheus.Registry
	HTTPMetrics     *metrics.HTTPMetrics
	Health          *Health
	RateLimit       *rlmiddleware.Middleware
	TokenVerifier   auth.TokenVerifier
	Auth            *authhandler.Handler
	Recommendations *rechandler.Handler
	Audit           audit.Emitter
	AdminDenials    admin.DenialRecorder
}

var errRouteNotFound = dErrors.New(dErrors.CodeNotFound, "route not found")

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(d.Logger))
	r.Use(request.Recovery(d.Logger))
	r.Use(d.HTTPMetrics.Middleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, errRouteNotFound)
	})

	if d.Health != nil {
		r.Method(http.MethodGet, "/health", d.Health)
	}
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Registry))
	}

	r.Group(func(r chi.Router) {
		r.Use(d.RateLimit.RateLimit(models.ClassGeneral))

		r.Group(func(r chi.Router) {
			r.Use(d.RateLimit.RateLimit(models.ClassRecommendation))
			d.Recommendations.Register(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(d.TokenVerifier, d.Logger))
			r.Use(admin.RequireAdmin(d.Logger,
				admin.WithAuditEmitter(d.Audit),
				admin.WithMetrics(d.AdminDenials),
			))
			d.Recommendations.RegisterAdmin(r)
		})

		d.Auth.Register(r, d.RateLimit.RateLimit(models.ClassAuth))
	})

	return r
}
