package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/cache"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// GetSchedule 是排班表的标准读路径：先查缓存，未命中再读库并回填
func (s *Service) GetSchedule(ctx context.Context, id int64) (*domain.Schedule, error) {
	key := cache.ScheduleKey(id)

	cached := &domain.Schedule{}
	if s.cache.GetJSON(ctx, key, cached) {
		return cached, nil
	}

	schedule, err := s.store.GetScheduleByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, key, schedule, s.entityTTL())

	return schedule, nil
}

// ScheduleSummary 是排班表的读时汇总视图
type ScheduleSummary struct {
	ID        int64                `json:"id"`
	WeekStart time.Time            `json:"weekStart"`
	TotalCost float64              `json:"totalCost"`
	Coverage  int32                `json:"coverage"`
	Runs      []domain.ScheduleRun `json:"runs"`
}

func (s *Service) GetSummary(ctx context.Context, id int64) (*ScheduleSummary, error) {
	key := cache.ScheduleSummaryKey(id)

	cached := &ScheduleSummary{}
	if s.cache.GetJSON(ctx, key, cached) {
		return cached, nil
	}

	schedule, err := s.store.GetScheduleByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	summary := &ScheduleSummary{
		ID:        schedule.ID,
		WeekStart: schedule.WeekStart,
		TotalCost: TotalCost(schedule),
		Coverage:  Coverage(schedule),
		Runs:      schedule.Runs,
	}

	s.cache.SetJSON(ctx, key, summary, s.entityTTL())

	return summary, nil
}

func (s *Service) ListSchedules(ctx context.Context, orgRef string) ([]*domain.Schedule, error) {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return nil, err
	}

	key := cache.ScheduleListKey(orgID)

	cached := make([]*domain.Schedule, 0)
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	schedules, err := s.store.GetSchedulesByOrgID(orgID)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, key, schedules, s.entityTTL())

	return schedules, nil
}

// GetPreset 返回 org 的约束 preset，没有保存过时返回默认权重的临时 preset
func (s *Service) GetPreset(ctx context.Context, orgRef string) (*domain.ConstraintPreset, error) {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return nil, err
	}

	key := cache.PresetKey(orgID)

	cached := &domain.ConstraintPreset{}
	if s.cache.GetJSON(ctx, key, cached) {
		return cached, nil
	}

	preset, err := s.store.GetPresetByOrgID(orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			preset = &domain.ConstraintPreset{
				OrgID:  orgID,
				Name:   "Default",
				Config: domain.DefaultPresetConfig(),
			}
		} else {
			return nil, err
		}
	}

	s.cache.SetJSON(ctx, key, preset, s.entityTTL())

	return preset, nil
}

func (s *Service) SavePreset(ctx context.Context, orgRef string, config domain.PresetConfig) (*domain.ConstraintPreset, error) {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return nil, err
	}

	preset := &domain.ConstraintPreset{
		OrgID:  orgID,
		Name:   "Default",
		Config: config,
	}
	if err := s.store.UpsertPreset(preset); err != nil {
		return nil, err
	}

	if err := s.audit.Record(&domain.AuditLog{
		OrgID:    orgID,
		Entity:   "ConstraintPreset",
		EntityID: preset.ID,
		Action:   domain.AuditActionPresetSave,
		Meta:     map[string]any{"name": preset.Name},
	}); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.MutationPresetSaved, cache.Scope{OrgID: orgID})

	return preset, nil
}

func (s *Service) ListDemandTemplates(ctx context.Context, orgRef string, locationID *int64) ([]*domain.ShiftDemandTemplate, error) {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return nil, err
	}

	key := cache.DemandListKey(orgID, locationID)

	cached := make([]*domain.ShiftDemandTemplate, 0)
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	templates, err := s.store.GetDemandTemplatesByOrgID(orgID, locationID)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, key, templates, s.entityTTL())

	return templates, nil
}

func (s *Service) CreateDemandTemplate(ctx context.Context, orgRef string, t *domain.ShiftDemandTemplate) error {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return err
	}

	if err := s.store.CreateDemandTemplate(t); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.MutationDemandChanged, cache.Scope{OrgID: orgID})

	return nil
}

func (s *Service) UpdateDemandTemplate(ctx context.Context, orgRef string, t *domain.ShiftDemandTemplate) error {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return err
	}

	if err := s.store.UpdateDemandTemplate(t); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.MutationDemandChanged, cache.Scope{OrgID: orgID})

	return nil
}

func (s *Service) DeleteDemandTemplate(ctx context.Context, orgRef string, id int64) error {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return err
	}

	if err := s.store.DeleteDemandTemplate(id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.MutationDemandChanged, cache.Scope{OrgID: orgID})

	return nil
}

func (s *Service) ListEmployees(ctx context.Context, orgRef string) ([]*domain.Employee, error) {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return nil, err
	}

	key := cache.EmployeeListKey(orgID)

	cached := make([]*domain.Employee, 0)
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	employees, err := s.store.GetEmployeesByOrgID(orgID)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, key, employees, s.entityTTL())

	return employees, nil
}

func (s *Service) AddAvailability(ctx context.Context, employeeID int64, a *domain.Availability) error {
	orgID, err := s.store.GetEmployeeOrgID(employeeID)
	if err != nil {
		return err
	}

	if err := s.store.CreateAvailability(employeeID, a); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.MutationRosterChanged, cache.Scope{OrgID: orgID})

	return nil
}

func (s *Service) AddTimeOff(ctx context.Context, employeeID int64, t *domain.TimeOff) error {
	orgID, err := s.store.GetEmployeeOrgID(employeeID)
	if err != nil {
		return err
	}

	if err := s.store.CreateTimeOff(employeeID, t); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.MutationRosterChanged, cache.Scope{OrgID: orgID})

	return nil
}

func (s *Service) ListOrganizations(ctx context.Context) ([]*domain.Organization, error) {
	return s.store.GetAllOrganizations()
}

// OrganizationDetail 是单个 org 的读取视图，带上它的所有门店
type OrganizationDetail struct {
	Organization *domain.Organization `json:"organization"`
	Locations    []*domain.Location   `json:"locations"`
}

func (s *Service) GetOrganization(ctx context.Context, orgRef string) (*OrganizationDetail, error) {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return nil, err
	}

	org, err := s.store.GetOrganizationByID(orgID)
	if err != nil {
		return nil, err
	}

	locations, err := s.store.GetLocationsByOrgID(orgID)
	if err != nil {
		return nil, err
	}

	return &OrganizationDetail{Organization: org, Locations: locations}, nil
}

func (s *Service) CreateOrganization(ctx context.Context, org *domain.Organization) error {
	return s.store.CreateOrganization(org)
}

func (s *Service) ListAuditLogs(ctx context.Context, orgRef string, limit int) ([]*domain.AuditLog, error) {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}

	return s.store.GetAuditLogsByOrgID(orgID, limit)
}
