package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncPipelineRun is a no-op.
func (n *NoopRecorder) IncPipelineRun(status string) {}

// ObservePipelineDuration is a no-op.
func (n *NoopRecorder) ObservePipelineDuration(duration time.Duration) {}

// IncPlatformFetch is a no-op.
func (n *NoopRecorder) IncPlatformFetch(platform, status string) {}

// IncAugmentation is a no-op.
func (n *NoopRecorder) IncAugmentation(status string) {}

// IncReportCacheHit is a no-op.
func (n *NoopRecorder) IncReportCacheHit() {}

// IncReportCacheMiss is a no-op.
func (n *NoopRecorder) IncReportCacheMiss() {}
