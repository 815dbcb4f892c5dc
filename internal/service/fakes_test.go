package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/cache"
	"github.com/shiftsense-dev/shiftsense/backend/internal/config"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
	"github.com/shiftsense-dev/shiftsense/backend/internal/solver"
)

// fakeStore 是纯内存的 Store 实现，只覆盖测试需要的行为
type fakeStore struct {
	orgs          map[string]int64
	templates     []*domain.ShiftDemandTemplate
	employees     []*domain.Employee
	employeeOrgs  map[int64]int64
	schedules     map[int64]*domain.Schedule
	pinned        map[int64][]domain.PinnedPair
	assignments   map[int64]*domain.Assignment
	shiftInfo     map[int64][2]int64 // shiftID -> (scheduleID, orgID)
	preset        *domain.ConstraintPreset
	auditRows     []*domain.AuditLog
	auditLimit    int
	replaced      map[int64][]*domain.Assignment
	runs          []*domain.ScheduleRun
	statusHistory []domain.ScheduleStatus
	nextID        int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orgs:         map[string]int64{},
		employeeOrgs: map[int64]int64{},
		schedules:    map[int64]*domain.Schedule{},
		pinned:       map[int64][]domain.PinnedPair{},
		assignments:  map[int64]*domain.Assignment{},
		shiftInfo:    map[int64][2]int64{},
		replaced:     map[int64][]*domain.Assignment{},
		nextID:       1000,
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) ResolveOrgRef(ref string) (int64, error) {
	if id, ok := f.orgs[ref]; ok {
		return id, nil
	}
	return 0, sql.ErrNoRows
}

func (f *fakeStore) GetAllOrganizations() ([]*domain.Organization, error) { return nil, nil }

func (f *fakeStore) GetOrganizationByID(id int64) (*domain.Organization, error) {
	for slug, orgID := range f.orgs {
		if orgID == id {
			return &domain.Organization{ID: id, Slug: slug}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) CreateOrganization(org *domain.Organization) error {
	org.ID = f.id()
	f.orgs[org.Slug] = org.ID
	return nil
}

func (f *fakeStore) GetLocationsByOrgID(orgID int64) ([]*domain.Location, error) { return nil, nil }

func (f *fakeStore) GetDemandTemplatesByOrgID(orgID int64, locationID *int64) ([]*domain.ShiftDemandTemplate, error) {
	return f.templates, nil
}

func (f *fakeStore) CreateDemandTemplate(t *domain.ShiftDemandTemplate) error {
	t.ID = f.id()
	f.templates = append(f.templates, t)
	return nil
}

func (f *fakeStore) UpdateDemandTemplate(t *domain.ShiftDemandTemplate) error { return nil }
func (f *fakeStore) DeleteDemandTemplate(id int64) error                      { return nil }

func (f *fakeStore) GetEmployeesByOrgID(orgID int64) ([]*domain.Employee, error) {
	return f.employees, nil
}

func (f *fakeStore) CreateAvailability(employeeID int64, a *domain.Availability) error { return nil }
func (f *fakeStore) CreateTimeOff(employeeID int64, t *domain.TimeOff) error           { return nil }

func (f *fakeStore) GetEmployeeOrgID(employeeID int64) (int64, error) {
	if orgID, ok := f.employeeOrgs[employeeID]; ok {
		return orgID, nil
	}
	return 0, sql.ErrNoRows
}

func (f *fakeStore) CreateSchedule(schedule *domain.Schedule) error {
	schedule.ID = f.id()
	for i := range schedule.Shifts {
		schedule.Shifts[i].ID = f.id()
		schedule.Shifts[i].ScheduleID = schedule.ID
		f.shiftInfo[schedule.Shifts[i].ID] = [2]int64{schedule.ID, schedule.OrgID}
	}
	f.schedules[schedule.ID] = schedule
	return nil
}

func (f *fakeStore) GetScheduleByID(id int64) (*domain.Schedule, error) {
	if s, ok := f.schedules[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) GetSchedulesByOrgID(orgID int64) ([]*domain.Schedule, error) {
	var out []*domain.Schedule
	for _, s := range f.schedules {
		if s.OrgID == orgID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ClaimScheduleForSolve(id int64) (bool, error) {
	s, ok := f.schedules[id]
	if !ok {
		return false, sql.ErrNoRows
	}
	if s.Status == domain.ScheduleStatusSolving {
		return false, nil
	}
	s.Status = domain.ScheduleStatusSolving
	return true, nil
}

func (f *fakeStore) SetScheduleStatus(id int64, status domain.ScheduleStatus) error {
	if s, ok := f.schedules[id]; ok {
		s.Status = status
	}
	f.statusHistory = append(f.statusHistory, status)
	return nil
}

func (f *fakeStore) GetPinnedPairs(scheduleID int64) ([]domain.PinnedPair, error) {
	return f.pinned[scheduleID], nil
}

func (f *fakeStore) ReplaceAssignments(scheduleID int64, assignments []*domain.Assignment) error {
	f.replaced[scheduleID] = assignments
	return nil
}

func (f *fakeStore) SetAssignmentPinByID(id int64, isPinned bool) (*domain.Assignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	a.IsPinned = isPinned
	return a, nil
}

func (f *fakeStore) SetAssignmentPinByPair(shiftID, employeeID int64, isPinned bool) (*domain.Assignment, error) {
	for _, a := range f.assignments {
		if a.ShiftID == shiftID && a.EmployeeID == employeeID {
			a.IsPinned = isPinned
			return a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) GetShiftScheduleInfo(shiftID int64) (int64, int64, error) {
	info, ok := f.shiftInfo[shiftID]
	if !ok {
		return 0, 0, sql.ErrNoRows
	}
	return info[0], info[1], nil
}

func (f *fakeStore) CreateScheduleRun(run *domain.ScheduleRun) error {
	run.ID = f.id()
	run.Status = domain.RunStatusRunning
	run.StartedAt = time.Now()
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeStore) FinishScheduleRun(run *domain.ScheduleRun, status domain.ScheduleRunStatus, objective *float64) error {
	now := time.Now()
	run.Status = status
	run.Objective = objective
	run.FinishedAt = &now
	return nil
}

func (f *fakeStore) GetPresetByOrgID(orgID int64) (*domain.ConstraintPreset, error) {
	if f.preset == nil {
		return nil, sql.ErrNoRows
	}
	return f.preset, nil
}

func (f *fakeStore) UpsertPreset(preset *domain.ConstraintPreset) error {
	preset.ID = f.id()
	f.preset = preset
	return nil
}

func (f *fakeStore) GetAuditLogsByOrgID(orgID int64, limit int) ([]*domain.AuditLog, error) {
	f.auditLimit = limit
	return f.auditRows, nil
}

// fakeCache 用 map 模拟缓存，并记录收到的失效通知
type fakeCache struct {
	data        map[string][]byte
	invalidated []cache.Mutation
	scopes      []cache.Scope
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, v any) bool {
	raw, ok := f.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	f.data[key] = raw
}

func (f *fakeCache) Invalidate(ctx context.Context, m cache.Mutation, scope cache.Scope) {
	f.invalidated = append(f.invalidated, m)
	f.scopes = append(f.scopes, scope)
}

func (f *fakeCache) sawMutation(m cache.Mutation) bool {
	for _, got := range f.invalidated {
		if got == m {
			return true
		}
	}
	return false
}

type fakeSolver struct {
	lastSolve    *solver.SolveRequest
	lastForecast *solver.ForecastRequest
	solveCalls   int
	solveFn      func(*solver.SolveRequest) (*solver.SolveResponse, error)
	forecastFn   func(*solver.ForecastRequest) (*solver.ForecastResponse, error)
}

func (f *fakeSolver) Solve(ctx context.Context, req *solver.SolveRequest) (*solver.SolveResponse, error) {
	f.lastSolve = req
	f.solveCalls++
	return f.solveFn(req)
}

func (f *fakeSolver) Forecast(ctx context.Context, req *solver.ForecastRequest) (*solver.ForecastResponse, error) {
	f.lastForecast = req
	if f.forecastFn == nil {
		return &solver.ForecastResponse{}, nil
	}
	return f.forecastFn(req)
}

type fakeAudit struct {
	records []*domain.AuditLog
	err     error
}

func (f *fakeAudit) Record(l *domain.AuditLog) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, l)
	return nil
}

func (f *fakeAudit) lastAction() string {
	if len(f.records) == 0 {
		return ""
	}
	return f.records[len(f.records)-1].Action
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.EntityTTL = 60
	cfg.Cache.ForecastTTL = 300
	cfg.Forecast.HistoryWeeks = 2
	cfg.Forecast.SeasonalPeriod = 7
	cfg.Forecast.BacktestFolds = 3
	return cfg
}

// newTestWorld 装配一个标准测试环境：org "demo" 下一个有两个班次的排班表和两名员工
func newTestWorld() (*Service, *fakeStore, *fakeCache, *fakeSolver, *fakeAudit) {
	store := newFakeStore()
	store.orgs["demo"] = 1

	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	store.schedules[10] = &domain.Schedule{
		ID:        10,
		OrgID:     1,
		WeekStart: monday,
		WeekEnd:   monday.AddDate(0, 0, 7),
		Status:    domain.ScheduleStatusDraft,
		Shifts: []domain.Shift{
			{
				ID:         101,
				ScheduleID: 10,
				LocationID: 5,
				RoleID:     7,
				Start:      time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
				End:        time.Date(2025, 1, 6, 17, 0, 0, 0, time.UTC),
				Required:   2,
			},
			{
				ID:         102,
				ScheduleID: 10,
				LocationID: 5,
				RoleID:     7,
				Start:      time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC),
				End:        time.Date(2025, 1, 7, 18, 0, 0, 0, time.UTC),
				Required:   1,
			},
		},
	}
	store.shiftInfo[101] = [2]int64{10, 1}
	store.shiftInfo[102] = [2]int64{10, 1}

	store.employees = []*domain.Employee{
		{ID: 1, OrgID: 1, RoleID: 7, Code: "ZHANGSAN001", HourlyCost: 25, MaxWeeklyHours: 40, EmploymentType: domain.EmploymentFullTime},
		{ID: 2, OrgID: 1, RoleID: 7, Code: "LISI002", HourlyCost: 30, MaxWeeklyHours: 24, EmploymentType: domain.EmploymentCasual},
	}
	store.employeeOrgs[1] = 1
	store.employeeOrgs[2] = 1

	c := newFakeCache()
	sc := &fakeSolver{}
	audit := &fakeAudit{}

	return New(testConfig(), store, c, sc, audit), store, c, sc, audit
}
