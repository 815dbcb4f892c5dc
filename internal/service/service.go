package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/cache"
	"github.com/shiftsense-dev/shiftsense/backend/internal/config"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
	"github.com/shiftsense-dev/shiftsense/backend/internal/solver"
)

// Store 是核心逻辑依赖的持久化操作集合，由 repository.Repository 实现
type Store interface {
	ResolveOrgRef(ref string) (int64, error)
	GetAllOrganizations() ([]*domain.Organization, error)
	GetOrganizationByID(id int64) (*domain.Organization, error)
	CreateOrganization(org *domain.Organization) error
	GetLocationsByOrgID(orgID int64) ([]*domain.Location, error)

	GetDemandTemplatesByOrgID(orgID int64, locationID *int64) ([]*domain.ShiftDemandTemplate, error)
	CreateDemandTemplate(t *domain.ShiftDemandTemplate) error
	UpdateDemandTemplate(t *domain.ShiftDemandTemplate) error
	DeleteDemandTemplate(id int64) error

	GetEmployeesByOrgID(orgID int64) ([]*domain.Employee, error)
	CreateAvailability(employeeID int64, a *domain.Availability) error
	CreateTimeOff(employeeID int64, t *domain.TimeOff) error
	GetEmployeeOrgID(employeeID int64) (int64, error)

	CreateSchedule(schedule *domain.Schedule) error
	GetScheduleByID(id int64) (*domain.Schedule, error)
	GetSchedulesByOrgID(orgID int64) ([]*domain.Schedule, error)
	ClaimScheduleForSolve(id int64) (bool, error)
	SetScheduleStatus(id int64, status domain.ScheduleStatus) error

	GetPinnedPairs(scheduleID int64) ([]domain.PinnedPair, error)
	ReplaceAssignments(scheduleID int64, assignments []*domain.Assignment) error
	SetAssignmentPinByID(id int64, isPinned bool) (*domain.Assignment, error)
	SetAssignmentPinByPair(shiftID, employeeID int64, isPinned bool) (*domain.Assignment, error)
	GetShiftScheduleInfo(shiftID int64) (scheduleID int64, orgID int64, err error)

	CreateScheduleRun(run *domain.ScheduleRun) error
	FinishScheduleRun(run *domain.ScheduleRun, status domain.ScheduleRunStatus, objective *float64) error

	GetPresetByOrgID(orgID int64) (*domain.ConstraintPreset, error)
	UpsertPreset(preset *domain.ConstraintPreset) error

	GetAuditLogsByOrgID(orgID int64, limit int) ([]*domain.AuditLog, error)
}

// Cache 的所有实现都必须是尽力而为的：出错等同于未命中，绝不让请求失败
type Cache interface {
	GetJSON(ctx context.Context, key string, v any) bool
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration)
	Invalidate(ctx context.Context, m cache.Mutation, scope cache.Scope)
}

type SolverClient interface {
	Solve(ctx context.Context, req *solver.SolveRequest) (*solver.SolveResponse, error)
	Forecast(ctx context.Context, req *solver.ForecastRequest) (*solver.ForecastResponse, error)
}

type AuditRecorder interface {
	Record(l *domain.AuditLog) error
}

type Service struct {
	cfg    *config.Config
	store  Store
	cache  Cache
	solver SolverClient
	audit  AuditRecorder
}

func New(cfg *config.Config, store Store, c Cache, sc SolverClient, audit AuditRecorder) *Service {
	return &Service{
		cfg:    cfg,
		store:  store,
		cache:  c,
		solver: sc,
		audit:  audit,
	}
}

func (s *Service) entityTTL() time.Duration {
	return time.Duration(s.cfg.Cache.EntityTTL) * time.Second
}

func (s *Service) forecastTTL() time.Duration {
	return time.Duration(s.cfg.Cache.ForecastTTL) * time.Second
}

func (s *Service) resolveOrg(ref string) (int64, error) {
	orgID, err := s.store.ResolveOrgRef(ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrOrgNotFound
		}
		return 0, err
	}

	return orgID, nil
}
