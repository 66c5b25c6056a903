package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/linkcut/linkcut/internal/auth"
	"github.com/linkcut/linkcut/internal/model"
)

type stubVerifier struct {
	authCtx *model.AuthContext
	err     error
}

func (s *stubVerifier) Verify(token string) (*model.AuthContext, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.authCtx, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	okCtx := &model.AuthContext{UserID: "u1", Username: "alice", Role: model.RoleUser}

	tests := []struct {
		name       string
		authHeader string
		verifier   *stubVerifier
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid token passes through",
			authHeader: "Bearer good-token",
			verifier:   &stubVerifier{authCtx: okCtx},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			verifier:   &stubVerifier{authCtx: okCtx},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			verifier:   &stubVerifier{authCtx: okCtx},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "verifier rejects token",
			authHeader: "Bearer bad-token",
			verifier:   &stubVerifier{err: errors.New("invalid token")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nextCalled := false
			var gotCtx *model.AuthContext
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotCtx = auth.AuthFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			mw := Auth(AuthConfig{Logger: discardLogger(), Verifier: tt.verifier})

			req := httptest.NewRequest(http.MethodGet, "/api/urls/my-urls", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if nextCalled != tt.wantNext {
				t.Errorf("next called = %v, want %v", nextCalled, tt.wantNext)
			}
			if tt.wantNext && gotCtx == nil {
				t.Error("auth context missing from request")
			}
			if !tt.wantNext {
				body := rec.Body.String()
				if !strings.Contains(body, "UNAUTHORIZED") {
					t.Errorf("body = %q, want UNAUTHORIZED code", body)
				}
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		authCtx    *model.AuthContext
		wantStatus int
	}{
		{
			name:       "admin passes",
			authCtx:    &model.AuthContext{UserID: "a1", Username: "root", Role: model.RoleAdmin},
			wantStatus: http.StatusOK,
		},
		{
			name:       "regular user gets 403",
			authCtx:    &model.AuthContext{UserID: "u1", Username: "alice", Role: model.RoleUser},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no auth context gets 401",
			authCtx:    nil,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			mw := RequireAdmin(discardLogger())

			req := httptest.NewRequest(http.MethodGet, "/api/admin/all-stats", nil)
			if tt.authCtx != nil {
				req = req.WithContext(auth.ContextWithAuth(req.Context(), tt.authCtx))
			}
			rec := httptest.NewRecorder()

			mw(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
