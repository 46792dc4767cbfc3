package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pulseboard/pulseboard/internal/handler/dto"
	"github.com/pulseboard/pulseboard/internal/metrics"
	"github.com/pulseboard/pulseboard/internal/middleware"
	"github.com/pulseboard/pulseboard/internal/instagram"
	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/pipeline"
	"github.com/pulseboard/pulseboard/internal/repository"
	"github.com/pulseboard/pulseboard/internal/youtube"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// requestWithSession mimics the session middleware for handler-level tests.
func requestWithSession(method, target, sid string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), middleware.SessionIDKey, sid)
	return req.WithContext(ctx)
}

// stubReportStore scripts GetLatestReport and records saves.
type stubReportStore struct {
	report *model.Report
	getErr error
	saved  []*model.Report
}

func (s *stubReportStore) SaveReport(_ context.Context, report *model.Report) error {
	s.saved = append(s.saved, report)
	return nil
}

func (s *stubReportStore) GetLatestReport(_ context.Context, _ string) (*model.Report, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.report, nil
}

// stubReportCache scripts GetReport and records sets.
type stubReportCache struct {
	report *model.Report
	getErr error
	set    []*model.Report
}

func (c *stubReportCache) GetReport(_ context.Context, _ string) (*model.Report, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.report, nil
}

func (c *stubReportCache) SetReport(_ context.Context, _ string, report *model.Report) error {
	c.set = append(c.set, report)
	return nil
}

// stubSessionStore serves a fixed session and records mutations.
type stubSessionStore struct {
	session   *model.Session
	getErr    error
	setTokens []string // "provider" per SetToken call
	deleted   []string
	setErr    error
	delErr    error
}

func (s *stubSessionStore) Get(_ context.Context, _ string) (*model.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.session, nil
}

func (s *stubSessionStore) SetToken(_ context.Context, _, provider string, _ *model.OAuthToken) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.setTokens = append(s.setTokens, provider)
	return nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	if s.delErr != nil {
		return s.delErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

// stubInstagram scripts the Instagram dataset fetch.
type stubInstagram struct {
	data *instagram.AccountData
	err  error
}

func (s *stubInstagram) AccountData(_ context.Context, _ string) (*instagram.AccountData, error) {
	return s.data, s.err
}

// stubYouTube scripts the YouTube dataset fetch.
type stubYouTube struct {
	data      *youtube.ChannelData
	err       error
	channelID string
}

func (s *stubYouTube) ChannelData(_ context.Context, _, channelID string) (*youtube.ChannelData, error) {
	s.channelID = channelID
	return s.data, s.err
}

func connectedSession(providers ...string) *model.Session {
	sess := &model.Session{ID: "sid-1"}
	for _, p := range providers {
		switch p {
		case "instagram":
			sess.Instagram = &model.OAuthToken{AccessToken: "ig-token"}
		case "google":
			sess.Google = &model.OAuthToken{AccessToken: "yt-token"}
		}
	}
	return sess
}

func readyReport(id string) *model.Report {
	return &model.Report{
		ID:          id,
		SessionID:   "sid-1",
		Platforms:   []string{"instagram"},
		Status:      model.StatusReady,
		Analytics:   &model.AnalyticsSummary{TotalEngagement: 42},
		Plan:        &model.RecommendationPlan{},
		GeneratedAt: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestInsights_Latest_CacheHit(t *testing.T) {
	t.Parallel()

	recorder := metrics.NewInMemory()
	cache := &stubReportCache{report: readyReport("r1")}
	store := &stubReportStore{getErr: errors.New("should not be called")}
	h := NewInsightsHandler(nil, nil, nil, nil, store, cache, recorder, testLogger())

	rec := httptest.NewRecorder()
	h.Latest(rec, requestWithSession(http.MethodGet, "/api/insights/latest", "sid-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp dto.RefreshResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "r1" {
		t.Errorf("ID = %q, want r1", resp.ID)
	}
	if resp.Status != "ready" {
		t.Errorf("Status = %q, want ready", resp.Status)
	}

	snap := recorder.Snapshot()
	if snap.ReportCacheHits != 1 || snap.ReportCacheMisses != 0 {
		t.Errorf("cache counters = %d hits / %d misses, want 1/0", snap.ReportCacheHits, snap.ReportCacheMisses)
	}
}

func TestInsights_Latest_CacheMissFallsBackToStore(t *testing.T) {
	t.Parallel()

	recorder := metrics.NewInMemory()
	cache := &stubReportCache{getErr: errors.New("miss")}
	store := &stubReportStore{report: readyReport("r2")}
	h := NewInsightsHandler(nil, nil, nil, nil, store, cache, recorder, testLogger())

	rec := httptest.NewRecorder()
	h.Latest(rec, requestWithSession(http.MethodGet, "/api/insights/latest", "sid-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp dto.RefreshResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "r2" {
		t.Errorf("ID = %q, want r2", resp.ID)
	}

	// The store result backfills the cache.
	if len(cache.set) != 1 || cache.set[0].ID != "r2" {
		t.Errorf("cache backfill = %+v, want one entry r2", cache.set)
	}

	snap := recorder.Snapshot()
	if snap.ReportCacheMisses != 1 {
		t.Errorf("cache misses = %d, want 1", snap.ReportCacheMisses)
	}
}

func TestInsights_Latest_NoReport(t *testing.T) {
	t.Parallel()

	cache := &stubReportCache{getErr: errors.New("miss")}
	store := &stubReportStore{getErr: repository.ErrReportNotFound}
	h := NewInsightsHandler(nil, nil, nil, nil, store, cache, nil, testLogger())

	rec := httptest.NewRecorder()
	h.Latest(rec, requestWithSession(http.MethodGet, "/api/insights/latest", "sid-1"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "NO_REPORT" {
		t.Errorf("Code = %q, want NO_REPORT", resp.Code)
	}
}

func TestInsights_Latest_StoreFailure(t *testing.T) {
	t.Parallel()

	cache := &stubReportCache{getErr: errors.New("miss")}
	store := &stubReportStore{getErr: errors.New("connection reset")}
	h := NewInsightsHandler(nil, nil, nil, nil, store, cache, nil, testLogger())

	rec := httptest.NewRecorder()
	h.Latest(rec, requestWithSession(http.MethodGet, "/api/insights/latest", "sid-1"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestInsights_Latest_NoBackends(t *testing.T) {
	t.Parallel()

	h := NewInsightsHandler(nil, nil, nil, nil, nil, nil, nil, testLogger())

	rec := httptest.NewRecorder()
	h.Latest(rec, requestWithSession(http.MethodGet, "/api/insights/latest", "sid-1"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func newRefreshHandler(sessions SessionStore, ig InstagramFetcher, yt YouTubeFetcher, store ReportStore, cache ReportCache, recorder metrics.Recorder) *InsightsHandler {
	runner := pipeline.NewRunner(nil, recorder, testLogger())
	return NewInsightsHandler(sessions, ig, yt, runner, store, cache, recorder, testLogger())
}

func TestInsights_Refresh_NoConnections(t *testing.T) {
	t.Parallel()

	sessions := &stubSessionStore{getErr: errors.New("not found")}
	store := &stubReportStore{}
	h := newRefreshHandler(sessions, nil, nil, store, nil, nil)

	rec := httptest.NewRecorder()
	h.Refresh(rec, requestWithSession(http.MethodPost, "/api/insights/refresh", "sid-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp dto.RefreshResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "no_data" {
		t.Errorf("Status = %q, want no_data", resp.Status)
	}
	if resp.Analytics != nil || resp.Plan != nil {
		t.Error("no_data response should carry no analytics or plan")
	}
	if len(store.saved) != 1 {
		t.Errorf("saved %d reports, want 1", len(store.saved))
	}
}

func TestInsights_Refresh_Instagram(t *testing.T) {
	t.Parallel()

	sessions := &stubSessionStore{session: connectedSession("instagram")}
	ig := &stubInstagram{data: &instagram.AccountData{
		Account: instagram.Account{FollowersCount: 1000},
		Media: []instagram.Media{
			{MediaType: "IMAGE", Timestamp: "2024-03-15T10:30:00+0000", LikeCount: 50, CommentsCount: 5},
		},
		Insights: instagram.Insights{Reach: 4000},
	}}
	store := &stubReportStore{}
	cache := &stubReportCache{getErr: errors.New("miss")}
	recorder := metrics.NewInMemory()
	h := newRefreshHandler(sessions, ig, nil, store, cache, recorder)

	rec := httptest.NewRecorder()
	h.Refresh(rec, requestWithSession(http.MethodPost, "/api/insights/refresh", "sid-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp dto.RefreshResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ready" {
		t.Errorf("Status = %q, want ready", resp.Status)
	}
	if resp.ID == "" {
		t.Error("response should carry a report ID")
	}
	if len(resp.Platforms) != 1 || resp.Platforms[0] != "instagram" {
		t.Errorf("Platforms = %v, want [instagram]", resp.Platforms)
	}
	if resp.Analytics == nil || resp.Analytics.TotalEngagement != 55 {
		t.Errorf("unexpected analytics: %+v", resp.Analytics)
	}
	if resp.Plan == nil || len(resp.Plan.ContentSuggestions) != 7 {
		t.Error("response should carry a seven-day plan")
	}

	// Snapshot lands in both cache and store.
	if len(cache.set) != 1 || len(store.saved) != 1 {
		t.Errorf("persisted %d cache / %d store entries, want 1/1", len(cache.set), len(store.saved))
	}
	if got := recorder.Snapshot().PlatformFetches["instagram:success"]; got != 1 {
		t.Errorf("instagram fetch success count = %d, want 1", got)
	}
}

func TestInsights_Refresh_FetchFailure(t *testing.T) {
	t.Parallel()

	sessions := &stubSessionStore{session: connectedSession("instagram")}
	ig := &stubInstagram{err: errors.New("rate limited")}
	store := &stubReportStore{}
	recorder := metrics.NewInMemory()
	h := newRefreshHandler(sessions, ig, nil, store, nil, recorder)

	rec := httptest.NewRecorder()
	h.Refresh(rec, requestWithSession(http.MethodPost, "/api/insights/refresh", "sid-1"))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "UPSTREAM_FAILED" {
		t.Errorf("Code = %q, want UPSTREAM_FAILED", resp.Code)
	}

	// An error snapshot is still persisted.
	if len(store.saved) != 1 || store.saved[0].Status != model.StatusError {
		t.Errorf("saved reports = %+v, want one error snapshot", store.saved)
	}
	if got := recorder.Snapshot().PlatformFetches["instagram:failed"]; got != 1 {
		t.Errorf("instagram fetch failed count = %d, want 1", got)
	}
}

func TestInsights_Refresh_YouTubeNeedsChannelID(t *testing.T) {
	t.Parallel()

	sessions := &stubSessionStore{session: connectedSession("google")}
	yt := &stubYouTube{data: &youtube.ChannelData{}}
	h := newRefreshHandler(sessions, nil, yt, nil, nil, nil)

	// Without channelId the YouTube fetch is skipped and the run is empty.
	rec := httptest.NewRecorder()
	h.Refresh(rec, requestWithSession(http.MethodPost, "/api/insights/refresh", "sid-1"))

	var resp dto.RefreshResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "no_data" {
		t.Errorf("Status = %q, want no_data", resp.Status)
	}
	if yt.channelID != "" {
		t.Errorf("fetcher called with channel %q, want no call", yt.channelID)
	}
}

func TestInsights_Refresh_YouTube(t *testing.T) {
	t.Parallel()

	sessions := &stubSessionStore{session: connectedSession("google")}
	yt := &stubYouTube{data: &youtube.ChannelData{
		Stats: youtube.ChannelStats{SubscriberCount: 500},
		Videos: []youtube.Video{
			{Title: "Q&A", PublishedAt: "2024-03-14T18:00:00Z", ViewCount: 3000, LikeCount: 100, CommentCount: 10},
		},
	}}
	h := newRefreshHandler(sessions, nil, yt, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Refresh(rec, requestWithSession(http.MethodPost, "/api/insights/refresh?channelId=UC123", "sid-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if yt.channelID != "UC123" {
		t.Errorf("fetcher called with channel %q, want UC123", yt.channelID)
	}

	var resp dto.RefreshResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ready" {
		t.Errorf("Status = %q, want ready", resp.Status)
	}
	if len(resp.Platforms) != 1 || resp.Platforms[0] != "youtube" {
		t.Errorf("Platforms = %v, want [youtube]", resp.Platforms)
	}
}
