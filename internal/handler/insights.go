package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pulseboard/pulseboard/internal/handler/dto"
	"github.com/pulseboard/pulseboard/internal/metrics"
	"github.com/pulseboard/pulseboard/internal/middleware"
	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/pipeline"
	"github.com/pulseboard/pulseboard/internal/repository"
)

// ReportStore persists the most recent report snapshot per session.
type ReportStore interface {
	SaveReport(ctx context.Context, report *model.Report) error
	GetLatestReport(ctx context.Context, sessionID string) (*model.Report, error)
}

// ReportCache caches the most recent report snapshot per session.
type ReportCache interface {
	GetReport(ctx context.Context, sessionID string) (*model.Report, error)
	SetReport(ctx context.Context, sessionID string, report *model.Report) error
}

// InsightsHandler runs the analytics pipeline and serves its snapshots.
type InsightsHandler struct {
	sessions  SessionStore
	instagram InstagramFetcher
	youtube   YouTubeFetcher
	runner    *pipeline.Runner
	store     ReportStore
	cache     ReportCache
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// NewInsightsHandler creates a new InsightsHandler. store and cache may be
// nil; snapshots then live only in the response.
func NewInsightsHandler(sessions SessionStore, ig InstagramFetcher, yt YouTubeFetcher, runner *pipeline.Runner, store ReportStore, reportCache ReportCache, recorder metrics.Recorder, logger *slog.Logger) *InsightsHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &InsightsHandler{
		sessions:  sessions,
		instagram: ig,
		youtube:   yt,
		runner:    runner,
		store:     store,
		cache:     reportCache,
		recorder:  recorder,
		logger:    logger.With("component", "handler.insights"),
	}
}

// Refresh handles POST /api/insights/refresh: fetch the connected platforms,
// run the pipeline and persist the resulting snapshot. The optional channelId
// query parameter selects the YouTube channel.
func (h *InsightsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	sid := middleware.GetSessionID(r.Context())

	sess, err := h.sessions.Get(r.Context(), sid)
	if err != nil {
		// No session: nothing connected, an empty run is still a valid answer.
		sess = &model.Session{ID: sid}
	}

	var input pipeline.Input

	if sess.InstagramConnected() {
		data, err := h.instagram.AccountData(r.Context(), sess.Instagram.AccessToken)
		if err != nil {
			h.recorder.IncPlatformFetch("instagram", "failed")
			h.logger.Error("instagram fetch failed", "error", err)
			h.writeFetchError(w, sid, sess.ConnectedPlatforms())
			return
		}
		h.recorder.IncPlatformFetch("instagram", "success")
		input.Instagram = data
	}

	if sess.GoogleConnected() {
		channelID := r.URL.Query().Get("channelId")
		if channelID == "" {
			h.logger.Warn("youtube connected but no channelId given, skipping")
		} else {
			data, err := h.youtube.ChannelData(r.Context(), sess.Google.AccessToken, channelID)
			if err != nil {
				h.recorder.IncPlatformFetch("youtube", "failed")
				h.logger.Error("youtube fetch failed", "error", err)
				h.writeFetchError(w, sid, sess.ConnectedPlatforms())
				return
			}
			h.recorder.IncPlatformFetch("youtube", "success")
			input.YouTube = data
		}
	}

	result := h.runner.Run(r.Context(), input)

	report := &model.Report{
		ID:          ulid.Make().String(),
		SessionID:   sid,
		Status:      result.Status,
		Analytics:   result.Analytics,
		Plan:        result.Plan,
		GeneratedAt: time.Now().UTC(),
	}
	if result.Platform != "" {
		report.Platforms = platformList(input)
	}

	h.persist(r.Context(), sid, report)

	writeJSON(w, http.StatusOK, dto.ToRefreshResponse(report, result.Augmented))
}

// Latest handles GET /api/insights/latest: the stored snapshot, cache first.
func (h *InsightsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	sid := middleware.GetSessionID(r.Context())

	if h.cache != nil {
		if report, err := h.cache.GetReport(r.Context(), sid); err == nil {
			h.recorder.IncReportCacheHit()
			writeJSON(w, http.StatusOK, dto.ToRefreshResponse(report, false))
			return
		}
		h.recorder.IncReportCacheMiss()
	}

	if h.store == nil {
		writeError(w, http.StatusNotFound, "NO_REPORT", "No report generated yet")
		return
	}

	report, err := h.store.GetLatestReport(r.Context(), sid)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "NO_REPORT", "No report generated yet")
			return
		}
		h.logger.Error("report load failed", "error", err)
		writeError(w, http.StatusInternalServerError, "REPORT_LOAD_FAILED", "Could not load report")
		return
	}

	if h.cache != nil {
		if err := h.cache.SetReport(r.Context(), sid, report); err != nil {
			h.logger.Warn("report cache backfill failed", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, dto.ToRefreshResponse(report, false))
}

// writeFetchError records an error-status snapshot and answers 502. Upstream
// connectivity is the one failure the pipeline cannot absorb.
func (h *InsightsHandler) writeFetchError(w http.ResponseWriter, sid string, platforms []string) {
	report := &model.Report{
		ID:          ulid.Make().String(),
		SessionID:   sid,
		Platforms:   platforms,
		Status:      model.StatusError,
		GeneratedAt: time.Now().UTC(),
	}
	h.persist(context.Background(), sid, report)

	writeError(w, http.StatusBadGateway, "UPSTREAM_FAILED", "Platform data fetch failed")
}

// persist stores the snapshot in cache and database, both best-effort.
func (h *InsightsHandler) persist(ctx context.Context, sid string, report *model.Report) {
	if h.cache != nil {
		if err := h.cache.SetReport(ctx, sid, report); err != nil {
			h.logger.Warn("report cache write failed", "error", err)
		}
	}
	if h.store != nil {
		if err := h.store.SaveReport(ctx, report); err != nil {
			h.logger.Warn("report store write failed", "error", err)
		}
	}
}

func platformList(input pipeline.Input) []string {
	var out []string
	if input.Instagram != nil {
		out = append(out, "instagram")
	}
	if input.YouTube != nil {
		out = append(out, "youtube")
	}
	return out
}
