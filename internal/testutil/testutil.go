package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pulseboard/pulseboard/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates the application schema for tests.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS reports; DROP TABLE IF EXISTS profiles"); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}

	upPath := filepath.Join(root, "migrations", "0001_init.sql")
	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestPost creates a post metric with sensible defaults.
func NewTestPost(t testing.TB, ts time.Time, kind model.ContentKind, likes, comments, reach int64) model.PostMetric {
	t.Helper()
	return model.PostMetric{
		Timestamp:  ts,
		Kind:       kind,
		Likes:      likes,
		Comments:   comments,
		Engagement: likes + comments,
		Reach:      reach,
	}
}

// NewTestSession creates a session with both platforms connected.
func NewTestSession(t testing.TB, id string) *model.Session {
	t.Helper()
	now := time.Now().UTC()
	return &model.Session{
		ID:        id,
		Google:    &model.OAuthToken{AccessToken: "test-google-token", ObtainedAt: now},
		Instagram: &model.OAuthToken{AccessToken: "test-instagram-token", ObtainedAt: now},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestReport creates a ready report snapshot with empty analytics.
func NewTestReport(t testing.TB, sessionID string) *model.Report {
	t.Helper()
	return &model.Report{
		ID:          UniqueID("report"),
		SessionID:   sessionID,
		Platforms:   []string{"instagram"},
		Status:      model.StatusReady,
		Analytics:   &model.AnalyticsSummary{},
		Plan:        &model.RecommendationPlan{},
		GeneratedAt: time.Now().UTC(),
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
