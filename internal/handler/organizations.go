package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.service.ListOrganizations(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取组织列表成功", orgs)
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetOrganization(r.Context(), chi.URLParam(r, "orgRef"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取组织成功", detail)
}

func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required"`
		Slug     string `json:"slug" validate:"required,lowercase"`
		Timezone string `json:"timezone"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Timezone == "" {
		req.Timezone = "UTC"
	}

	org := &domain.Organization{
		Name:     req.Name,
		Slug:     req.Slug,
		Timezone: req.Timezone,
	}

	if err := h.service.CreateOrganization(r.Context(), org); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "organizations_slug_key":
				h.errorResponse(w, r, "组织标识已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建组织成功", org)
}
