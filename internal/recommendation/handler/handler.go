package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lifecover/internal/recommendation"
	"lifecover/pkg/platform/httputil"
	"lifecover/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the interface for recommendation operations.
type Service interface {
	Submit(ctx context.Context, profile recommendation.ApplicantProfile, origin recommendation.Origin) (*recommendation.Submission, error)
	List(ctx context.Context, filter recommendation.ListFilter) ([]*recommendation.Submission, error)
}

// Handler wires recommendation endpoints to the recommendation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a recommendation handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the public submit endpoint. The admin listing is mounted
// separately behind the auth and admin middlewares.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/recommendations", h.HandleSubmit)
}

// RegisterAdmin mounts the admin listing on an already-guarded router.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/api/recommendations", h.HandleList)
}

// HandleSubmit handles POST /api/recommendations requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	origin := recommendation.Origin{
		ClientIP:  requestcontext.ClientIP(ctx),
		UserAgent: requestcontext.UserAgent(ctx),
		RequestID: requestID,
	}
	sub, err := h.service.Submit(ctx, req.Profile(), origin)
	if err != nil {
		h.logger.ErrorContext(ctx, "recommendation submission failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "recommendation served",
		"request_id", requestID,
		"recommendation_id", sub.ID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteSuccess(w, http.StatusOK, toSubmitResponse(sub))
}

// HandleList handles GET /api/recommendations requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filter, err := parseListQuery(r.URL.Query().Get("limit"), r.URL.Query().Get("risk_tolerance"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	subs, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "recommendation listing failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, toSubmissionResponses(subs))
}
