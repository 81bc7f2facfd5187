package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// OriginAllowList matches Origin headers case-insensitively. "null" is an ordinary entry;
// "*" allows every origin.
type OriginAllowList struct {
	origins map[string]struct{}
	any     bool
}

func NewOriginAllowList(allowed []string) *OriginAllowList {
	l := &OriginAllowList{origins: make(map[string]struct{}, len(allowed))}
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "*" {
			l.any = true
		}
		if a != "" {
			l.origins[a] = struct{}{}
		}
	}
	return l
}

// Allows reports whether origin may call the API. Requests without an Origin
// header (curl, server-to-server) are always allowed.
func (l *OriginAllowList) Allows(origin string) bool {
	origin = strings.ToLower(strings.TrimSpace(origin))
	if origin == "" || l.any {
		return true
	}
	_, ok := l.origins[origin]
	return ok
}

// CORS rejects requests from origins outside the allow list with 403 before they reach
// any handler, then lets go-chi/cors answer preflights and set the response headers.
func CORS(allowedOrigins, allowedHeaders []string) func(http.Handler) http.Handler {
	allowList := NewOriginAllowList(allowedOrigins)
	corsHeaders := cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return allowList.Allows(origin)
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: allowedHeaders,
		MaxAge:         300,
	})

	return func(next http.Handler) http.Handler {
		withHeaders := corsHeaders(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowList.Allows(r.Header.Get("Origin")) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"Not allowed by CORS"}`))
				return
			}
			withHeaders.ServeHTTP(w, r)
		})
	}
}
