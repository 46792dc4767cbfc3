package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pulseboard/pulseboard/internal/handler/dto"
	"github.com/pulseboard/pulseboard/internal/middleware"
	"github.com/pulseboard/pulseboard/internal/model"
)

// Flow is one provider's OAuth flow.
type Flow interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*model.OAuthToken, error)
}

// SessionStore reads and mutates per-browser platform connections.
type SessionStore interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	SetToken(ctx context.Context, id, provider string, token *model.OAuthToken) error
	Delete(ctx context.Context, id string) error
}

// ProfileStore persists the per-provider profile rows created on callback.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, profile *model.Profile) error
	SoftDeleteProfile(ctx context.Context, sessionID, provider string) error
}

// AuthHandler drives the OAuth connect flows for both platforms.
type AuthHandler struct {
	google    Flow
	facebook  Flow
	sessions  SessionStore
	profiles  ProfileStore
	clientURL string
	logger    *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. profiles may be nil when profile
// persistence is not configured.
func NewAuthHandler(google, facebook Flow, sessions SessionStore, profiles ProfileStore, clientURL string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		google:    google,
		facebook:  facebook,
		sessions:  sessions,
		profiles:  profiles,
		clientURL: clientURL,
		logger:    logger.With("component", "handler.auth"),
	}
}

// GoogleLogin handles GET /auth/google: redirect to the Google consent
// screen with the session ID as state.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.google)
}

// InstagramLogin handles GET /auth/instagram: redirect to the Facebook
// consent screen with the session ID as state.
func (h *AuthHandler) InstagramLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.facebook)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, flow Flow) {
	sid := middleware.GetSessionID(r.Context())
	if sid == "" {
		writeError(w, http.StatusInternalServerError, "NO_SESSION", "Session could not be established")
		return
	}
	http.Redirect(w, r, flow.AuthCodeURL(sid), http.StatusFound)
}

// GoogleCallback handles GET /auth/google/callback.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	h.callback(w, r, h.google, "google")
}

// InstagramCallback handles GET /auth/instagram/callback.
func (h *AuthHandler) InstagramCallback(w http.ResponseWriter, r *http.Request) {
	h.callback(w, r, h.facebook, "instagram")
}

// callback exchanges the authorization code, stores the token on the session
// named by state, and sends the browser back to the dashboard.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request, flow Flow, provider string) {
	query := r.URL.Query()
	code := query.Get("code")
	state := query.Get("state")
	if code == "" || state == "" {
		writeError(w, http.StatusBadRequest, "INVALID_CALLBACK", "Missing code or state")
		return
	}

	token, err := flow.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("token exchange failed",
			"provider", provider,
			"error", err,
		)
		writeError(w, http.StatusBadGateway, "EXCHANGE_FAILED", "Token exchange failed")
		return
	}

	if err := h.sessions.SetToken(r.Context(), state, provider, token); err != nil {
		h.logger.Error("session update failed",
			"provider", provider,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "SESSION_FAILED", "Could not store connection")
		return
	}

	if h.profiles != nil {
		profile := &model.Profile{
			ID:        uuid.New().String(),
			SessionID: state,
			Provider:  provider,
		}
		if err := h.profiles.UpsertProfile(r.Context(), profile); err != nil {
			// Profile persistence is best-effort; the connection already works.
			h.logger.Warn("profile upsert failed",
				"provider", provider,
				"error", err,
			)
		}
	}

	h.logger.Info("platform_connected", "provider", provider)
	http.Redirect(w, r, h.clientURL+"/dashboard", http.StatusFound)
}

// Status handles GET /auth/status: which platforms this session has connected.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	sid := middleware.GetSessionID(r.Context())

	sess, err := h.sessions.Get(r.Context(), sid)
	if err != nil {
		// No session yet means nothing connected.
		writeJSON(w, http.StatusOK, dto.StatusResponse{Connected: []string{}})
		return
	}

	connected := sess.ConnectedPlatforms()
	if connected == nil {
		connected = []string{}
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Connected: connected})
}

// Logout handles POST /auth/logout: drop the session and its connections.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sid := middleware.GetSessionID(r.Context())
	if sid == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.sessions.Delete(r.Context(), sid); err != nil {
		h.logger.Error("session delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "LOGOUT_FAILED", "Could not delete session")
		return
	}
	if h.profiles != nil {
		for _, provider := range []string{"google", "instagram"} {
			if err := h.profiles.SoftDeleteProfile(r.Context(), sid, provider); err != nil {
				continue
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}
