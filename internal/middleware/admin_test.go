package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ishow/feedback-backend/internal/logging"
)

type stubSessions struct {
	valid map[string]bool
	err   error
}

func (s stubSessions) Validate(_ context.Context, token string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.valid[token], nil
}

func TestRequireAdminSession(t *testing.T) {
	tests := []struct {
		name     string
		sessions stubSessions
		header   string
		query    string
		want     int
	}{
		{"no token", stubSessions{}, "", "", http.StatusUnauthorized},
		{"unknown token", stubSessions{valid: map[string]bool{"good": true}}, "Bearer bad", "", http.StatusUnauthorized},
		{"bearer token", stubSessions{valid: map[string]bool{"good": true}}, "Bearer good", "", http.StatusOK},
		{"lowercase scheme", stubSessions{valid: map[string]bool{"good": true}}, "bearer good", "", http.StatusOK},
		{"query token", stubSessions{valid: map[string]bool{"good": true}}, "", "?token=good", http.StatusOK},
		{"store failure", stubSessions{err: errors.New("redis down")}, "Bearer good", "", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireAdminSession(tt.sessions, logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/feedbacks"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
