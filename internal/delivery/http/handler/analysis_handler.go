package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/perf-insights/internal/delivery/http/request"
	"github.com/user/perf-insights/internal/delivery/http/response"
	"github.com/user/perf-insights/internal/usecase"
)

func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req request.AnalyzeRequest
	if !h.decode(w, r, &req) {
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), req.ToInput())
	if err != nil {
		h.writeUseCaseError(w, "analyze", err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) HandleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req request.BatchAnalyzeRequest
	if !h.decode(w, r, &req) {
		return
	}

	inputs := make([]usecase.AnalyzeInput, len(req.Items))
	for i, item := range req.Items {
		inputs[i] = item.ToInput()
	}
	reports, err := h.analyzer.AnalyzeBatch(r.Context(), inputs)
	if err != nil {
		h.writeUseCaseError(w, "analyze_batch", err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.BatchAnalyzeResponse{Reports: reports})
}

func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.analyzer.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeUseCaseError(w, "get_report", err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	reports, err := h.analyzer.ListReports(r.Context(), r.URL.Query().Get("url"), limit)
	if err != nil {
		h.writeUseCaseError(w, "list_reports", err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.ReportListResponse{Reports: reports, Count: len(reports)})
}

func (h *Handler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	report, err := h.analyzer.Snapshot(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.writeUseCaseError(w, "get_snapshot", err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) HandleClearSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.analyzer.ClearSnapshot(r.Context(), chi.URLParam(r, "key")); err != nil {
		h.writeUseCaseError(w, "clear_snapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExport serves the session's bottlenecks as a downloadable JSON file.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.analyzer.Export(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.writeUseCaseError(w, "export", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("Failed to write export", zap.Error(err))
	}
}

// ExportFilename names an export taken at t, e.g.
// performance-insights-2024-05-01T10-20-30.json.
func ExportFilename(t time.Time) string {
	return "performance-insights-" + t.UTC().Format("2006-01-02T15-04-05") + ".json"
}
