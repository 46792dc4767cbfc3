package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pulseboard/pulseboard/internal/model"
)

// Common errors for report repository operations.
var (
	ErrReportNotFound = errors.New("report not found")
)

// SaveReport stores the most recent report snapshot for a session, replacing
// any previous one. Analytics and plan are stored as JSONB documents.
func (r *Repository) SaveReport(ctx context.Context, report *model.Report) error {
	query := `
		INSERT INTO reports (id, session_id, platforms, status, analytics, plan, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id) DO UPDATE
		SET id = EXCLUDED.id,
		    platforms = EXCLUDED.platforms,
		    status = EXCLUDED.status,
		    analytics = EXCLUDED.analytics,
		    plan = EXCLUDED.plan,
		    generated_at = EXCLUDED.generated_at
	`

	var analytics, plan []byte
	var err error
	if report.Analytics != nil {
		if analytics, err = json.Marshal(report.Analytics); err != nil {
			return fmt.Errorf("marshal analytics: %w", err)
		}
	}
	if report.Plan != nil {
		if plan, err = json.Marshal(report.Plan); err != nil {
			return fmt.Errorf("marshal plan: %w", err)
		}
	}

	_, err = r.pool.Exec(ctx, query,
		report.ID,
		report.SessionID,
		strings.Join(report.Platforms, ","),
		string(report.Status),
		analytics,
		plan,
		report.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// GetLatestReport retrieves the stored report snapshot for a session.
func (r *Repository) GetLatestReport(ctx context.Context, sessionID string) (*model.Report, error) {
	query := `
		SELECT id, session_id, platforms, status, analytics, plan, generated_at
		FROM reports
		WHERE session_id = $1
	`

	var (
		report    model.Report
		platforms string
		status    string
		analytics []byte
		plan      []byte
	)
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&report.ID,
		&report.SessionID,
		&platforms,
		&status,
		&analytics,
		&plan,
		&report.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if platforms != "" {
		report.Platforms = strings.Split(platforms, ",")
	}
	report.Status = model.ReportStatus(status)
	if len(analytics) > 0 {
		var summary model.AnalyticsSummary
		if err := json.Unmarshal(analytics, &summary); err != nil {
			return nil, fmt.Errorf("failed to decode analytics: %w", err)
		}
		report.Analytics = &summary
	}
	if len(plan) > 0 {
		var p model.RecommendationPlan
		if err := json.Unmarshal(plan, &p); err != nil {
			return nil, fmt.Errorf("failed to decode plan: %w", err)
		}
		report.Plan = &p
	}

	return &report, nil
}

// DeleteReport removes the stored report snapshot for a session.
func (r *Repository) DeleteReport(ctx context.Context, sessionID string) error {
	query := `DELETE FROM reports WHERE session_id = $1`

	tag, err := r.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}

	return nil
}

// PruneReports deletes snapshots older than the retention window. Returns the
// number of rows removed.
func (r *Repository) PruneReports(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `DELETE FROM reports WHERE generated_at < $1`

	tag, err := r.pool.Exec(ctx, query, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to prune reports: %w", err)
	}

	return tag.RowsAffected(), nil
}
