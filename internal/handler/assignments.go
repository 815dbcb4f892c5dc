package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) PinAssignmentByID(isPinned bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			h.errorResponse(w, r, "指派ID无效")
			return
		}

		assignment, err := h.service.PinByID(r.Context(), assignmentID, isPinned)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}

		h.successResponse(w, r, pinMessage(isPinned), assignment)
	}
}

func (h *Handler) PinAssignmentByPair(isPinned bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ShiftID    int64 `json:"shiftId" validate:"required"`
			EmployeeID int64 `json:"employeeId" validate:"required"`
		}

		if err := h.readJSON(r, &req); err != nil {
			h.badRequest(w, r, err)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			h.badRequest(w, r, err)
			return
		}

		assignment, err := h.service.PinByPair(r.Context(), req.ShiftID, req.EmployeeID, isPinned)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}

		h.successResponse(w, r, pinMessage(isPinned), assignment)
	}
}

func pinMessage(isPinned bool) string {
	if isPinned {
		return "钉选指派成功"
	}
	return "取消钉选成功"
}
