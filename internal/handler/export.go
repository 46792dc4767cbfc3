package handler

import (
	"log/slog"
	"net/http"

	"github.com/pulseboard/pulseboard/internal/export"
	"github.com/pulseboard/pulseboard/internal/middleware"
	"github.com/pulseboard/pulseboard/internal/model"
)

// ExportHandler renders the latest report as a downloadable file.
type ExportHandler struct {
	store  ReportStore
	cache  ReportCache
	logger *slog.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(store ReportStore, reportCache ReportCache, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		store:  store,
		cache:  reportCache,
		logger: logger.With("component", "handler.export"),
	}
}

// CSV handles POST /api/export/csv: the weekly analytics table.
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	report, ok := h.loadReport(w, r)
	if !ok {
		return
	}
	if report.Analytics == nil {
		writeError(w, http.StatusConflict, "NO_ANALYTICS", "Report has no analytics data")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="analytics.csv"`)
	if err := export.WriteCSV(w, report.Analytics); err != nil {
		h.logger.Error("csv export failed", "error", err)
	}
}

// PDF handles POST /api/export/pdf: the full report document.
func (h *ExportHandler) PDF(w http.ResponseWriter, r *http.Request) {
	report, ok := h.loadReport(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
	if err := export.WritePDF(w, report); err != nil {
		h.logger.Error("pdf export failed", "error", err)
	}
}

// loadReport resolves the caller's latest snapshot, cache first.
func (h *ExportHandler) loadReport(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	sid := middleware.GetSessionID(r.Context())

	if h.cache != nil {
		if report, err := h.cache.GetReport(r.Context(), sid); err == nil {
			return report, true
		}
	}
	if h.store != nil {
		if report, err := h.store.GetLatestReport(r.Context(), sid); err == nil {
			return report, true
		}
	}

	writeError(w, http.StatusNotFound, "NO_REPORT", "No report generated yet")
	return nil, false
}
