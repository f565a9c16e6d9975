package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lighthouse/storefront/internal/auth"
	"github.com/lighthouse/storefront/pkg/logger"
)

type contextKey string

const userIDKey contextKey = "user_id"

// AuthMiddleware resolves a bearer token, when present, to a user id and
// attaches it to the request context. Anonymous requests pass through; only
// a token that fails verification is rejected.
func AuthMiddleware(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if verifier == nil || header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header {
				respondError(w, http.StatusUnauthorized, "unauthorized", "malformed authorization header")
				return
			}

			uid, err := verifier.Verify(r.Context(), token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger emits one structured line per request, correlated with the
// active trace when there is one.
func RequestLogger(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.WithTrace(r.Context(), l).Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func userIDFromContext(ctx context.Context) string {
	if uid, ok := ctx.Value(userIDKey).(string); ok {
		return uid
	}
	return ""
}
