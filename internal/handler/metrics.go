package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/pulseboard/pulseboard/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	for _, status := range sortedKeys(snap.PipelineRuns) {
		writeMetric(w, "pulseboard_pipeline_runs_total{status=%q} %d\n", status, snap.PipelineRuns[status])
	}
	writeMetric(w, "pulseboard_pipeline_duration_seconds_count %d\n", snap.PipelineDurationCount)
	writeMetric(w, "pulseboard_pipeline_duration_seconds_sum %.6f\n", float64(snap.PipelineDurationTotalNs)/1e9)

	for _, key := range sortedKeys(snap.PlatformFetches) {
		writeMetric(w, "pulseboard_platform_fetches_total{key=%q} %d\n", key, snap.PlatformFetches[key])
	}
	for _, status := range sortedKeys(snap.Augmentations) {
		writeMetric(w, "pulseboard_augmentations_total{status=%q} %d\n", status, snap.Augmentations[status])
	}

	writeMetric(w, "pulseboard_report_cache_hits_total %d\n", snap.ReportCacheHits)
	writeMetric(w, "pulseboard_report_cache_misses_total %d\n", snap.ReportCacheMisses)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
