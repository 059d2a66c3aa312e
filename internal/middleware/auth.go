package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelgate/modelgate/internal/auth"
	"github.com/modelgate/modelgate/internal/handler"
	"github.com/modelgate/modelgate/internal/model"
)

// Session returns a middleware that authenticates dashboard requests.
// It reads the session token from the http-only cookie, verifies it,
// and injects the session identity into the request context.
func Session(logger *slog.Logger, tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(handler.SessionCookieName)
			if err != nil || cookie.Value == "" {
				logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeSessionError(w, "Authentication required")
				return
			}

			claims, err := tokens.Verify(cookie.Value)
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, auth.ErrTokenExpired) {
					reason = "expired_token"
				}
				logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeSessionError(w, "Invalid or expired token")
				return
			}

			session := &model.Session{
				UserID: claims.Subject,
				Email:  claims.Email,
			}

			ctx := auth.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeSessionError writes a 401 Unauthorized response.
func writeSessionError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}
