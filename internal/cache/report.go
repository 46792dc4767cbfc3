package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pulseboard/pulseboard/internal/model"
)

const (
	// reportKeyPrefix is the Redis key prefix for per-session report snapshots.
	reportKeyPrefix = "report:"

	// DefaultReportTTL is the TTL for cached report snapshots. The dashboard
	// refreshes explicitly, so a stale-but-recent snapshot is acceptable.
	DefaultReportTTL = 10 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetReport retrieves the cached report snapshot for a session.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetReport(ctx context.Context, sessionID string) (*model.Report, error) {
	key := reportKeyPrefix + sessionID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, ErrCacheMiss
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, ErrCacheMiss
	}
	report.SessionID = sessionID

	return &report, nil
}

// SetReport caches the report snapshot for a session.
func (c *Cache) SetReport(ctx context.Context, sessionID string, report *model.Report) error {
	key := reportKeyPrefix + sessionID

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := c.client.Set(ctx, key, data, DefaultReportTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}

	return nil
}

// DeleteReport removes the cached report snapshot for a session.
// Used when the session disconnects a platform.
func (c *Cache) DeleteReport(ctx context.Context, sessionID string) error {
	key := reportKeyPrefix + sessionID
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete report from cache: %w", err)
	}
	return nil
}
