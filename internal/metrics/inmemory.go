package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	PipelineRuns            map[string]uint64
	PipelineDurationCount   uint64
	PipelineDurationTotalNs int64
	PlatformFetches         map[string]uint64
	Augmentations           map[string]uint64
	ReportCacheHits         uint64
	ReportCacheMisses       uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu                      sync.Mutex
	pipelineRuns            map[string]uint64
	platformFetches         map[string]uint64
	augmentations           map[string]uint64
	pipelineDurationCount   uint64
	pipelineDurationTotalNs int64
	reportCacheHits         uint64
	reportCacheMisses       uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		pipelineRuns:    make(map[string]uint64),
		platformFetches: make(map[string]uint64),
		augmentations:   make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		PipelineRuns:            copyCounts(m.pipelineRuns),
		PipelineDurationCount:   atomic.LoadUint64(&m.pipelineDurationCount),
		PipelineDurationTotalNs: atomic.LoadInt64(&m.pipelineDurationTotalNs),
		PlatformFetches:         copyCounts(m.platformFetches),
		Augmentations:           copyCounts(m.augmentations),
		ReportCacheHits:         atomic.LoadUint64(&m.reportCacheHits),
		ReportCacheMisses:       atomic.LoadUint64(&m.reportCacheMisses),
	}
}

// IncPipelineRun counts one pipeline run by outcome.
func (m *InMemoryRecorder) IncPipelineRun(status string) {
	m.mu.Lock()
	m.pipelineRuns[status]++
	m.mu.Unlock()
}

// ObservePipelineDuration records one pipeline run duration.
func (m *InMemoryRecorder) ObservePipelineDuration(duration time.Duration) {
	atomic.AddUint64(&m.pipelineDurationCount, 1)
	atomic.AddInt64(&m.pipelineDurationTotalNs, duration.Nanoseconds())
}

// IncPlatformFetch counts one platform API fetch by platform and outcome.
func (m *InMemoryRecorder) IncPlatformFetch(platform, status string) {
	m.mu.Lock()
	m.platformFetches[platform+":"+status]++
	m.mu.Unlock()
}

// IncAugmentation counts one augmentation attempt by outcome.
func (m *InMemoryRecorder) IncAugmentation(status string) {
	m.mu.Lock()
	m.augmentations[status]++
	m.mu.Unlock()
}

// IncReportCacheHit increments the report cache hit counter.
func (m *InMemoryRecorder) IncReportCacheHit() {
	atomic.AddUint64(&m.reportCacheHits, 1)
}

// IncReportCacheMiss increments the report cache miss counter.
func (m *InMemoryRecorder) IncReportCacheMiss() {
	atomic.AddUint64(&m.reportCacheMisses, 1)
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
