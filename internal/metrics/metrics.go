// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Pipeline metrics
	IncPipelineRun(status string) // status: "ready" or "no_data"
	ObservePipelineDuration(duration time.Duration)

	// Platform fetch metrics
	IncPlatformFetch(platform, status string) // status: "success" or "failed"

	// Augmentation metrics
	IncAugmentation(status string) // status: "applied", "skipped", "failed"

	// Report cache metrics
	IncReportCacheHit()
	IncReportCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
