package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	preset, err := h.service.GetPreset(r.Context(), chi.URLParam(r, "orgRef"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取约束配置成功", preset)
}

func (h *Handler) SavePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weights map[string]float64 `json:"weights" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	preset, err := h.service.SavePreset(r.Context(), chi.URLParam(r, "orgRef"), domain.PresetConfig{Weights: req.Weights})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存约束配置成功", preset)
}
