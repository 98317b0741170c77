package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifecover/internal/auth/models"
	dErrors "lifecover/pkg/domain-errors"
	"lifecover/pkg/platform/httputil"
	"lifecover/pkg/platform/middleware/auth"
	"lifecover/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the interface for auth operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	VerifyToken(ctx context.Context, token string) (*models.Identity, error)
}

// Handler wires auth endpoints to the auth service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an auth handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts auth endpoints on the router. loginMiddleware wraps only
// the login route, which is where credential guessing is throttled.
func (h *Handler) Register(r chi.Router, loginMiddleware ...func(http.Handler) http.Handler) {
	r.With(loginMiddleware...).Post("/api/auth/login", h.HandleLogin)
	r.Get("/api/auth/verify", h.HandleVerify)
}

// HandleLogin handles POST /api/auth/login requests.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeInvalidCredentials) {
			h.logger.ErrorContext(ctx, "login failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, LoginResponse{
		User:      toUserResponse(result.Identity),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// HandleVerify handles GET /api/auth/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := auth.BearerToken(r)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "access token required"))
		return
	}

	identity, err := h.service.VerifyToken(ctx, token)
	if err != nil {
		h.logger.InfoContext(ctx, "token verification rejected",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, VerifyResponse{User: toUserResponse(*identity)})
}
