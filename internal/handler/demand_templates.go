package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

func (h *Handler) ListDemandTemplates(w http.ResponseWriter, r *http.Request) {
	var locationID *int64
	if param := r.URL.Query().Get("locationId"); param != "" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "地点ID无效")
			return
		}
		locationID = &id
	}

	templates, err := h.service.ListDemandTemplates(r.Context(), chi.URLParam(r, "orgRef"), locationID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取需求模板列表成功", templates)
}

func (h *Handler) CreateDemandTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LocationID int64  `json:"locationID" validate:"required"`
		RoleID     int64  `json:"roleID" validate:"required"`
		Weekday    *int32 `json:"weekday" validate:"required,gte=0,lte=6"`
		StartTime  string `json:"startTime" validate:"required"`
		EndTime    string `json:"endTime" validate:"required"`
		Required   int32  `json:"required" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	t := &domain.ShiftDemandTemplate{
		LocationID: req.LocationID,
		RoleID:     req.RoleID,
		Weekday:    *req.Weekday,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Required:   req.Required,
	}

	if err := h.service.CreateDemandTemplate(r.Context(), chi.URLParam(r, "orgRef"), t); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建需求模板成功", t)
}

func (h *Handler) UpdateDemandTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "需求模板ID无效")
		return
	}

	var req struct {
		LocationID int64  `json:"locationID" validate:"required"`
		RoleID     int64  `json:"roleID" validate:"required"`
		Weekday    *int32 `json:"weekday" validate:"required,gte=0,lte=6"`
		StartTime  string `json:"startTime" validate:"required"`
		EndTime    string `json:"endTime" validate:"required"`
		Required   int32  `json:"required" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	t := &domain.ShiftDemandTemplate{
		ID:         templateID,
		LocationID: req.LocationID,
		RoleID:     req.RoleID,
		Weekday:    *req.Weekday,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Required:   req.Required,
	}

	if err := h.service.UpdateDemandTemplate(r.Context(), chi.URLParam(r, "orgRef"), t); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新需求模板成功", t)
}

func (h *Handler) DeleteDemandTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "需求模板ID无效")
		return
	}

	if err := h.service.DeleteDemandTemplate(r.Context(), chi.URLParam(r, "orgRef"), templateID); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除需求模板成功", nil)
}
