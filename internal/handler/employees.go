package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.ListEmployees(r.Context(), chi.URLParam(r, "orgRef"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", employees)
}

func (h *Handler) AddAvailability(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "员工ID无效")
		return
	}

	var req struct {
		Weekday   *int32 `json:"weekday" validate:"required,gte=0,lte=6"`
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	a := &domain.Availability{
		Weekday:   *req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}

	if err := h.service.AddAvailability(r.Context(), employeeID, a); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "添加可用时段成功", a)
}

func (h *Handler) AddTimeOff(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "员工ID无效")
		return
	}

	var req struct {
		Start  time.Time `json:"start" validate:"required"`
		End    time.Time `json:"end" validate:"required"`
		Reason string    `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if !req.End.After(req.Start) {
		h.errorResponse(w, r, "请假结束时间必须晚于开始时间")
		return
	}

	t := &domain.TimeOff{
		Start:  req.Start,
		End:    req.End,
		Reason: req.Reason,
	}

	if err := h.service.AddTimeOff(r.Context(), employeeID, t); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "添加请假记录成功", t)
}
