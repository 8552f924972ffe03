package handler

import (
	"net/http"

	"github.com/user/perf-insights/internal/entity"
)

func (h *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		h.writeUseCaseError(w, "get_settings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}

// HandleUpdateSettings merges a partial settings document into the stored one.
func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch entity.SettingsPatch
	if !h.decode(w, r, &patch) {
		return
	}

	settings, err := h.settings.Update(r.Context(), patch)
	if err != nil {
		h.writeUseCaseError(w, "update_settings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) HandleResetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Reset(r.Context())
	if err != nil {
		h.writeUseCaseError(w, "reset_settings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}
