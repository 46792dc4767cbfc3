package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pulseboard/pulseboard/internal/instagram"
	"github.com/pulseboard/pulseboard/internal/metrics"
	"github.com/pulseboard/pulseboard/internal/middleware"
	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/youtube"
)

// InstagramFetcher pulls the full Instagram dataset for a token.
type InstagramFetcher interface {
	AccountData(ctx context.Context, token string) (*instagram.AccountData, error)
}

// YouTubeFetcher pulls the channel dataset for a token.
type YouTubeFetcher interface {
	ChannelData(ctx context.Context, token, channelID string) (*youtube.ChannelData, error)
}

// PlatformHandler exposes the raw per-platform datasets.
type PlatformHandler struct {
	sessions  SessionStore
	instagram InstagramFetcher
	youtube   YouTubeFetcher
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// NewPlatformHandler creates a new PlatformHandler.
func NewPlatformHandler(sessions SessionStore, ig InstagramFetcher, yt YouTubeFetcher, recorder metrics.Recorder, logger *slog.Logger) *PlatformHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PlatformHandler{
		sessions:  sessions,
		instagram: ig,
		youtube:   yt,
		recorder:  recorder,
		logger:    logger.With("component", "handler.platform"),
	}
}

// InstagramAccount handles GET /api/instagram/account.
func (h *PlatformHandler) InstagramAccount(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.connectedSession(w, r)
	if !ok {
		return
	}
	if !sess.InstagramConnected() {
		writeError(w, http.StatusUnauthorized, "NOT_CONNECTED", "Instagram is not connected")
		return
	}

	data, err := h.instagram.AccountData(r.Context(), sess.Instagram.AccessToken)
	if err != nil {
		h.recorder.IncPlatformFetch("instagram", "failed")
		h.logger.Error("instagram fetch failed", "error", err)
		if errors.Is(err, instagram.ErrNoPage) || errors.Is(err, instagram.ErrNoBusinessAccount) {
			writeError(w, http.StatusNotFound, "NO_BUSINESS_ACCOUNT", "No Instagram business account found")
			return
		}
		writeError(w, http.StatusBadGateway, "UPSTREAM_FAILED", "Instagram request failed")
		return
	}

	h.recorder.IncPlatformFetch("instagram", "success")
	writeJSON(w, http.StatusOK, data)
}

// YouTubeAnalytics handles GET /api/youtube/analytics?channelId=...
func (h *PlatformHandler) YouTubeAnalytics(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.connectedSession(w, r)
	if !ok {
		return
	}
	if !sess.GoogleConnected() {
		writeError(w, http.StatusUnauthorized, "NOT_CONNECTED", "YouTube is not connected")
		return
	}

	channelID := r.URL.Query().Get("channelId")
	if channelID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_CHANNEL_ID", "channelId query parameter is required")
		return
	}

	data, err := h.youtube.ChannelData(r.Context(), sess.Google.AccessToken, channelID)
	if err != nil {
		h.recorder.IncPlatformFetch("youtube", "failed")
		h.logger.Error("youtube fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "UPSTREAM_FAILED", "YouTube request failed")
		return
	}

	h.recorder.IncPlatformFetch("youtube", "success")
	writeJSON(w, http.StatusOK, data)
}

// connectedSession loads the caller's session, writing the error response on
// failure.
func (h *PlatformHandler) connectedSession(w http.ResponseWriter, r *http.Request) (*model.Session, bool) {
	sid := middleware.GetSessionID(r.Context())
	sess, err := h.sessions.Get(r.Context(), sid)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "NOT_CONNECTED", "No platform connected")
		return nil, false
	}
	return sess, true
}
