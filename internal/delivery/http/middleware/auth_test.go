package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitdesk/internal/adapters/auth"
	"recruitdesk/internal/delivery/http/helpers"
)

const authTestSecret = "unit-test-secret"

func issueToken(t *testing.T, secret, userID string, roles []string, expiry time.Duration) string {
	t.Helper()
	token, err := auth.NewJWTIssuer(secret).Issue(userID, "recruiter@example.com", roles, expiry)
	require.NoError(t, err)
	return token
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	verifier := auth.NewJWTVerifier(authTestSecret)

	tests := []struct {
		name       string
		header     func(t *testing.T) string
		wantStatus int
		wantUserID string // non-empty: next must run with this ID in context
	}{
		{
			name: "recruiter token admitted",
			header: func(t *testing.T) string {
				return "Bearer " + issueToken(t, authTestSecret, "user-1", []string{"recruiter"}, time.Hour)
			},
			wantStatus: http.StatusOK,
			wantUserID: "user-1",
		},
		{
			name: "admin token admitted",
			header: func(t *testing.T) string {
				return "Bearer " + issueToken(t, authTestSecret, "user-2", []string{"admin", "recruiter"}, time.Hour)
			},
			wantStatus: http.StatusOK,
			wantUserID: "user-2",
		},
		{
			name: "token signed with another secret rejected",
			header: func(t *testing.T) string {
				return "Bearer " + issueToken(t, "some-other-secret", "user-1", []string{"recruiter"}, time.Hour)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token rejected",
			header: func(t *testing.T) string {
				return "Bearer " + issueToken(t, authTestSecret, "user-1", []string{"recruiter"}, -time.Minute)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing authorization header",
			header:     nil,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "non-bearer scheme rejected",
			header:     func(t *testing.T) string { return "Basic dXNlcjpwYXNz" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token after Bearer",
			header:     func(t *testing.T) string { return "Bearer " },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if id, ok := UserIDFromContext(r.Context()); ok {
					capturedUserID = id
				}
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireAuth(verifier, logger)(next)

			req := httptest.NewRequest(http.MethodGet, "/interview-slots", nil)
			if tt.header != nil {
				req.Header.Set("Authorization", tt.header(t))
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantStatus == http.StatusOK {
				assert.True(t, nextCalled, "next handler called")
				assert.Equal(t, tt.wantUserID, capturedUserID, "user ID in context")
				return
			}
			assert.False(t, nextCalled, "next handler must not run")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, helpers.ErrCodeUnauthorized, envelope.Error.Code)
		})
	}
}
