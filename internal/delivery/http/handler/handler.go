package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/user/perf-insights/internal/delivery/http/response"
	"github.com/user/perf-insights/internal/repository"
	"github.com/user/perf-insights/internal/usecase"
)

// Max accepted request body.
const maxBodyBytes = 8 << 20

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	analyzer    usecase.Analyzer
	settings    usecase.SettingsManager
	collections usecase.CollectionManager
	checks      map[string]HealthCheck
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewHandler wires the use cases into HTTP handlers. collections may be nil
// when no browser collector is configured.
func NewHandler(
	analyzer usecase.Analyzer,
	settings usecase.SettingsManager,
	collections usecase.CollectionManager,
	checks map[string]HealthCheck,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		analyzer:    analyzer,
		settings:    settings,
		collections: collections,
		checks:      checks,
		validator:   validator.New(),
		logger:      logger.Named("http"),
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := response.HealthResponse{Status: "ok"}
	if len(h.checks) > 0 {
		resp.Dependencies = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Error("Health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Dependencies[name] = "unhealthy"
			resp.Status = "degraded"
			continue
		}
		resp.Dependencies[name] = "healthy"
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	h.writeJSON(w, code, resp)
}

// decode reads a JSON body into dst and validates it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.writeJSONError(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		ve := verrs[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Namespace(), ve.Tag())
	}
	return "validation error: invalid request"
}

// writeUseCaseError maps use case errors onto status codes.
func (h *Handler) writeUseCaseError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.writeJSONError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidInput):
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrAlreadyPending):
		h.writeJSONError(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("Request failed", zap.String("op", op), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
