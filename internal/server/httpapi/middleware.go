package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/ktkar/maintron/internal/server/auth"
	"github.com/ktkar/maintron/internal/shared"
)

type contextKey string

const accountIDContextKey contextKey = "accountID"

// authMiddleware gates protected routes: the bearer token must verify
// before the registry is touched.
func (rt *Router) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		authz := req.Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			rt.respondError(w, req, shared.ErrMissingToken, req.Method, req.URL.Path)
			return
		}

		token := strings.TrimPrefix(authz, "Bearer ")
		accountID, err := auth.GetAccountIDFromToken(token, rt.jwtSecret)
		if err != nil {
			rt.respondError(w, req, err, req.Method, req.URL.Path)
			return
		}

		ctx := context.WithValue(req.Context(), accountIDContextKey, accountID)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func accountIDFrom(ctx context.Context) string {
	if v := ctx.Value(accountIDContextKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// securityHeaders sets the baseline hardening headers on every response.
func (rt *Router) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, req)
	})
}

// corsMiddleware allows the configured front-end origin to call the API
// cross-origin, including preflight.
func (rt *Router) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", rt.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
