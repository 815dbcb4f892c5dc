package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.service.ListSchedules(r.Context(), chi.URLParam(r, "orgRef"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班表列表成功", schedules)
}

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStart string `json:"weekStart" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule, err := h.service.Generate(r.Context(), chi.URLParam(r, "orgRef"), req.WeekStart)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "生成排班表成功", schedule)
}

func (h *Handler) SolveSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "排班表ID无效")
		return
	}

	// 请求体可以为空，此时使用 org 已保存的 preset 权重
	var req struct {
		Weights map[string]float64 `json:"weights"`
	}
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}

	schedule, err := h.service.Solve(r.Context(), chi.URLParam(r, "orgRef"), scheduleID, req.Weights)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "求解排班表成功", schedule)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "排班表ID无效")
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), scheduleID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班表成功", schedule)
}

func (h *Handler) GetScheduleSummary(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "排班表ID无效")
		return
	}

	summary, err := h.service.GetSummary(r.Context(), scheduleID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班表摘要成功", summary)
}
