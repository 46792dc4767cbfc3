package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pulseboard/pulseboard/internal/session"
)

const (
	// SessionIDKey is the context key for the session ID.
	SessionIDKey contextKey = "session_id"

	// SessionCookieName is the browser cookie carrying the session ID.
	SessionCookieName = "sid"

	// sessionCookieMaxAge matches the session store TTL.
	sessionCookieMaxAge = 30 * 24 * time.Hour
)

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger *slog.Logger
	// Secure marks the cookie HTTPS-only; disabled in development.
	Secure bool
}

// EnsureSession guarantees every request carries a session ID: an existing
// sid cookie is reused, otherwise a new ID is minted and set. The ID is
// placed in the request context; the session itself is loaded lazily by
// handlers that need it.
func EnsureSession(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
				sid = c.Value
			}

			if sid == "" {
				id, err := session.NewID()
				if err != nil {
					cfg.Logger.Error("session id generation failed",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				sid = id
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(sessionCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID retrieves the session ID from context.
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionIDKey).(string); ok {
		return id
	}
	return ""
}
