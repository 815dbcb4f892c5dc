package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) RunForecast(w http.ResponseWriter, r *http.Request) {
	horizonDays := 0
	if param := r.URL.Query().Get("horizonDays"); param != "" {
		n, err := strconv.Atoi(param)
		if err != nil || n <= 0 {
			h.errorResponse(w, r, "预测天数无效")
			return
		}
		horizonDays = n
	}

	result, err := h.service.Forecast(r.Context(), chi.URLParam(r, "orgRef"), horizonDays)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取需求预测成功", result)
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if param := r.URL.Query().Get("limit"); param != "" {
		n, err := strconv.Atoi(param)
		if err != nil || n <= 0 {
			h.errorResponse(w, r, "数量限制无效")
			return
		}
		limit = n
	}

	logs, err := h.service.ListAuditLogs(r.Context(), chi.URLParam(r, "orgRef"), limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取审计日志成功", logs)
}
