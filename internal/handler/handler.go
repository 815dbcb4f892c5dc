package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/shiftsense-dev/shiftsense/backend/internal/config"
	"github.com/shiftsense-dev/shiftsense/backend/internal/service"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	service    *service.Service
	translator ut.Translator

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, svc *service.Service) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		service:    svc,
		translator: trans,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/orgs", func(r chi.Router) {
		r.Get("/", h.ListOrganizations)
		r.Post("/", h.CreateOrganization)

		r.Route("/{orgRef}", func(r chi.Router) {
			r.Get("/", h.GetOrganization)

			// 需求模板的增删改查
			r.Route("/demand", func(r chi.Router) {
				r.Get("/", h.ListDemandTemplates)
				r.Post("/", h.CreateDemandTemplate)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", h.UpdateDemandTemplate)
					r.Delete("/", h.DeleteDemandTemplate)
				})
			})

			// 花名册维护
			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.ListEmployees)
				r.Post("/{id}/availability", h.AddAvailability)
				r.Post("/{id}/time-off", h.AddTimeOff)
			})

			// 排班表的生成与求解
			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", h.ListSchedules)
				r.Post("/generate", h.GenerateSchedule)
				r.Post("/{id}/solve", h.SolveSchedule)
			})

			r.Get("/preset", h.GetPreset)
			r.Put("/preset", h.SavePreset)
			r.Get("/forecast", h.RunForecast)
			r.Get("/audit", h.ListAuditLogs)
		})
	})

	h.Mux.Route("/schedules/{id}", func(r chi.Router) {
		r.Get("/", h.GetSchedule)
		r.Get("/summary", h.GetScheduleSummary)
	})

	// 钉选的两种寻址方式：按指派 ID（脆弱）和按 (shiftID, employeeID) 对（稳定）
	h.Mux.Route("/assignments", func(r chi.Router) {
		r.Patch("/{id}/pin", h.PinAssignmentByID(true))
		r.Patch("/{id}/unpin", h.PinAssignmentByID(false))
		r.Patch("/pin", h.PinAssignmentByPair(true))
		r.Patch("/unpin", h.PinAssignmentByPair(false))
	})
}
