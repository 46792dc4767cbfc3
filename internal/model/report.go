package model

import "time"

// ReportStatus is the outcome of a pipeline run.
type ReportStatus string

const (
	StatusNoData  ReportStatus = "no_data"
	StatusLoading ReportStatus = "loading"
	StatusReady   ReportStatus = "ready"
	StatusError   ReportStatus = "error"
)

// Report is the most-recent-result snapshot persisted per session. It is a
// convenience cache for the dashboard; the pipeline itself never reads it.
type Report struct {
	ID          string              `json:"id"`
	SessionID   string              `json:"-"`
	Platforms   []string            `json:"platforms"`
	Status      ReportStatus        `json:"status"`
	Analytics   *AnalyticsSummary   `json:"analytics,omitempty"`
	Plan        *RecommendationPlan `json:"plan,omitempty"`
	GeneratedAt time.Time           `json:"generatedAt"`
}
