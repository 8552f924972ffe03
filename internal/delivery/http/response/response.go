package response

import "github.com/user/perf-insights/internal/entity"

type ErrorResponse struct {
	Error string `json:"error"`
}

type SubmitCollectionResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	JobID      string `json:"job_id"`
	SessionKey string `json:"session_key"`
}

type ReportListResponse struct {
	Reports []*entity.AnalysisReport `json:"reports"`
	Count   int                      `json:"count"`
}

type BatchAnalyzeResponse struct {
	Reports []*entity.AnalysisReport `json:"reports"`
}

// HealthResponse maps each dependency to "healthy" or "unhealthy".
type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}
