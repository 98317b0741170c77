package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"lifecover/internal/auth/handler/mocks"
	"lifecover/internal/auth/models"
	dErrors "lifecover/pkg/domain-errors"
	"lifecover/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *mocks.MockService
	router      chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.mockService, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) TestLogin() {
	s.Run("success returns user and token", func() {
		identity := testutil.AdminIdentity()
		expires := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
		s.mockService.EXPECT().Login(gomock.Any(), "admin@insurance.com", "admin123").
			Return(&models.LoginResult{Identity: *identity, Token: "signed.jwt.token", ExpiresAt: expires}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
			"email": " admin@insurance.com ", "password": "admin123",
		}))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		data := testutil.UnmarshalData[LoginResponse](s.T(), rr)
		s.Equal(identity.UserID.String(), data.User.ID)
		s.Equal("admin@insurance.com", data.User.Email)
		s.Equal("admin", data.User.Role)
		s.Equal("signed.jwt.token", data.Token)
		s.True(expires.Equal(data.ExpiresAt))
		s.NotContains(rr.Body.String(), "admin123")
	})

	s.Run("invalid credentials", func() {
		s.mockService.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInvalidCredentials, "invalid email or password"))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
			"email": "admin@insurance.com", "password": "wrong-password",
		}))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "invalid_credentials")
	})

	s.Run("internal failure hides detail", func() {
		s.mockService.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to load credential"))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
			"email": "admin@insurance.com", "password": "admin123",
		}))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
		s.NotContains(rr.Body.String(), "connection refused")
	})
}

func (s *HandlerSuite) TestLoginValidation() {
	tests := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{"malformed email", map[string]string{"email": "not-an-email", "password": "admin123"}, "Valid email is required"},
		{"missing email", map[string]string{"password": "admin123"}, "Valid email is required"},
		{"oversized email", map[string]string{"email": strings.Repeat("a", 250) + "@x.com", "password": "admin123"}, "Valid email is required"},
		{"short password", map[string]string{"email": "admin@insurance.com", "password": "12345"}, "Password must be at least 6 characters long"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/auth/login", tt.body))

			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
			s.Contains(testutil.UnmarshalErrorResponse(s.T(), rr)["error_description"], tt.message)
		})
	}

	s.Run("malformed json", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/api/auth/login")
		req.Body = io.NopCloser(strings.NewReader(`{"email":`))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *HandlerSuite) TestVerify() {
	s.Run("valid token returns identity", func() {
		identity := testutil.UserIdentity()
		s.mockService.EXPECT().VerifyToken(gomock.Any(), "good").Return(identity, nil)

		req := testutil.WithBearer(testutil.NewRequest(s.T(), http.MethodGet, "/api/auth/verify"), "good")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		data := testutil.UnmarshalData[VerifyResponse](s.T(), rr)
		s.Equal(identity.UserID.String(), data.User.ID)
		s.Equal("user", data.User.Role)
	})

	s.Run("missing token", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/auth/verify"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("invalid token", func() {
		s.mockService.EXPECT().VerifyToken(gomock.Any(), "bad").
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))

		req := testutil.WithBearer(testutil.NewRequest(s.T(), http.MethodGet, "/api/auth/verify"), "bad")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})
}
