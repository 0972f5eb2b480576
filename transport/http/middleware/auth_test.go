package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"rental/config"
	"rental/infras/jwt"
	jwtMocks "rental/infras/jwt/mocks"
	"rental/infras/otel/mocks"
	"rental/permissions"
	"rental/shared"
	"rental/transport/http/middleware"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const policyJSON = `{
  "endpoints": [
    { "path": "/v1/listings/", "method": "GET", "public": true },
    { "path": "/v1/users/", "method": "GET", "roles": ["admin"] }
  ]
}`

func newAuthRouter(t *testing.T, jwtService jwt.JWT, seen *shared.Identity) http.Handler {
	t.Helper()

	policy, err := permissions.Parse([]byte(policyJSON))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	authRole := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), policy, cfg)

	capture := func(w http.ResponseWriter, r *http.Request) {
		*seen = shared.IdentityFromContext(r.Context())

		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
	router.Get("/v1/listings/", capture)
	router.Get("/v1/users/", capture)
	router.Put("/v1/bookings/{id}/approve", capture)

	return router
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		header   map[string]string
		setup    func(m *jwtMocks.MockJWT)
		wantCode int
		wantUser string
	}{
		{
			name:     "public route without token",
			method:   http.MethodGet,
			path:     "/v1/listings/",
			wantCode: http.StatusOK,
		},
		{
			name:     "protected route without token",
			method:   http.MethodPut,
			path:     "/v1/bookings/b-1/approve",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed header",
			method:   http.MethodPut,
			path:     "/v1/bookings/b-1/approve",
			header:   map[string]string{"Authorization": "Token abc"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			method: http.MethodPut,
			path:   "/v1/bookings/b-1/approve",
			header: map[string]string{"Authorization": "Bearer old"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "old", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "renter approves with a valid token",
			method: http.MethodPut,
			path:   "/v1/bookings/b-1/approve",
			header: map[string]string{"Authorization": "Bearer good"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u-renter", Email: "renter@example.com", Role: "user"}, nil)
			},
			wantCode: http.StatusOK,
			wantUser: "u-renter",
		},
		{
			name:   "user on admin route",
			method: http.MethodGet,
			path:   "/v1/users/",
			header: map[string]string{"Authorization": "Bearer good"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u-1", Email: "u@example.com", Role: "user"}, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "admin on admin route",
			method: http.MethodGet,
			path:   "/v1/users/",
			header: map[string]string{"Authorization": "Bearer admin"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "admin", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u-admin", Email: "admin@example.com", Role: "admin"}, nil)
			},
			wantCode: http.StatusOK,
			wantUser: "u-admin",
		},
		{
			name:   "claims without email",
			method: http.MethodPut,
			path:   "/v1/bookings/b-1/approve",
			header: map[string]string{"Authorization": "Bearer thin"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "thin", jwt.AccessToken).Return(&jwt.Claims{UserID: "u-1"}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "internal api key",
			method:   http.MethodGet,
			path:     "/v1/users/",
			header:   map[string]string{"X-API-Key": "internal-key"},
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong api key",
			method:   http.MethodGet,
			path:     "/v1/users/",
			header:   map[string]string{"X-API-Key": "guess"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			jwtService := jwtMocks.NewMockJWT(ctrl)

			if tt.setup != nil {
				tt.setup(jwtService)
			}

			var seen shared.Identity

			router := newAuthRouter(t, jwtService, &seen)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.header {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, seen.ID)
		})
	}
}
