package handler

import (
	"errors"
	"net/http"

	"github.com/user/perf-insights/internal/delivery/http/request"
	"github.com/user/perf-insights/internal/delivery/http/response"
	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/usecase"
)

func (h *Handler) HandleSubmitCollection(w http.ResponseWriter, r *http.Request) {
	if h.collections == nil {
		h.writeJSONError(w, "Page collection is disabled", http.StatusServiceUnavailable)
		return
	}
	var req request.CollectRequest
	if !h.decode(w, r, &req) {
		return
	}

	job, err := h.collections.Submit(r.Context(), req.ToInput())
	if errors.Is(err, usecase.ErrAlreadyPending) && job != nil {
		h.writeJSON(w, http.StatusConflict, response.SubmitCollectionResponse{
			Status:     "pending",
			Message:    "A collection for this session is already pending",
			SessionKey: job.SessionKey,
		})
		return
	}
	if err != nil {
		h.writeUseCaseError(w, "submit_collection", err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, response.SubmitCollectionResponse{
		Status:     "success",
		Message:    "URL submitted for collection",
		JobID:      job.ID,
		SessionKey: job.SessionKey,
	})
}

func (h *Handler) HandleGetCollectionStatus(w http.ResponseWriter, r *http.Request) {
	if h.collections == nil {
		h.writeJSONError(w, "Page collection is disabled", http.StatusServiceUnavailable)
		return
	}
	key := r.URL.Query().Get("session_key")
	if key == "" {
		h.writeJSONError(w, "session_key query parameter is required", http.StatusBadRequest)
		return
	}

	status, err := h.collections.GetStatus(r.Context(), key)
	if err != nil {
		h.writeUseCaseError(w, "collection_status", err)
		return
	}
	if status.CurrentStatus == entity.StatusNotFound {
		h.writeJSONError(w, "No collection found for the given session", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}
