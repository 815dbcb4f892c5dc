package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/cache"
	"github.com/shiftsense-dev/shiftsense/backend/internal/config"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
	"github.com/shiftsense-dev/shiftsense/backend/internal/service"
	"github.com/shiftsense-dev/shiftsense/backend/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore 只实现路由测试会触达的方法，其余方法走内嵌接口直接 panic
type stubStore struct {
	service.Store
	schedule *domain.Schedule
}

func (s *stubStore) ResolveOrgRef(ref string) (int64, error) {
	if ref == "demo" {
		return 1, nil
	}
	return 0, sql.ErrNoRows
}

func (s *stubStore) GetScheduleByID(id int64) (*domain.Schedule, error) {
	if s.schedule != nil && s.schedule.ID == id {
		return s.schedule, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubStore) GetEmployeesByOrgID(orgID int64) ([]*domain.Employee, error) { return nil, nil }

func (s *stubStore) GetPresetByOrgID(orgID int64) (*domain.ConstraintPreset, error) {
	return nil, sql.ErrNoRows
}

func (s *stubStore) GetPinnedPairs(scheduleID int64) ([]domain.PinnedPair, error) { return nil, nil }

func (s *stubStore) ClaimScheduleForSolve(id int64) (bool, error) { return true, nil }

func (s *stubStore) SetScheduleStatus(id int64, status domain.ScheduleStatus) error { return nil }

func (s *stubStore) CreateScheduleRun(run *domain.ScheduleRun) error { return nil }

func (s *stubStore) FinishScheduleRun(run *domain.ScheduleRun, status domain.ScheduleRunStatus, objective *float64) error {
	return nil
}

type nopCache struct{}

func (nopCache) GetJSON(ctx context.Context, key string, v any) bool { return false }

func (nopCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {}

func (nopCache) Invalidate(ctx context.Context, m cache.Mutation, scope cache.Scope) {}

type stubSolver struct {
	err error
}

func (s *stubSolver) Solve(ctx context.Context, req *solver.SolveRequest) (*solver.SolveResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &solver.SolveResponse{}, nil
}

func (s *stubSolver) Forecast(ctx context.Context, req *solver.ForecastRequest) (*solver.ForecastResponse, error) {
	return &solver.ForecastResponse{}, nil
}

type nopAudit struct{}

func (nopAudit) Record(l *domain.AuditLog) error { return nil }

func newTestHandler(t *testing.T, store *stubStore, sc *stubSolver) *Handler {
	t.Helper()

	cfg := &config.Config{}
	svc := service.New(cfg, store, nopCache{}, sc, nopAudit{})

	h, err := NewHandler(cfg, svc)
	require.NoError(t, err)
	h.RegisterRoutes()
	return h
}

func doRequest(h *Handler, method, path, body string) (*httptest.ResponseRecorder, Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	resp := Response{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func testSchedule() *domain.Schedule {
	return &domain.Schedule{
		ID:        10,
		OrgID:     1,
		WeekStart: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		Status:    domain.ScheduleStatusDraft,
	}
}

func TestGetSchedule(t *testing.T) {
	h := newTestHandler(t, &stubStore{schedule: testSchedule()}, &stubSolver{})

	rec, resp := doRequest(h, http.MethodGet, "/schedules/10", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
}

func TestGetScheduleInvalidID(t *testing.T) {
	h := newTestHandler(t, &stubStore{}, &stubSolver{})

	rec, resp := doRequest(h, http.MethodGet, "/schedules/abc", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "排班表ID无效", resp.Message)
}

func TestGetScheduleNotFound(t *testing.T) {
	h := newTestHandler(t, &stubStore{}, &stubSolver{})

	_, resp := doRequest(h, http.MethodGet, "/schedules/10", "")

	assert.False(t, resp.Success)
	assert.Equal(t, "排班表不存在", resp.Message)
}

func TestGenerateScheduleMissingWeekStart(t *testing.T) {
	h := newTestHandler(t, &stubStore{}, &stubSolver{})

	_, resp := doRequest(h, http.MethodPost, "/orgs/demo/schedules/generate", `{}`)

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestGenerateScheduleUnknownOrg(t *testing.T) {
	h := newTestHandler(t, &stubStore{}, &stubSolver{})

	_, resp := doRequest(h, http.MethodPost, "/orgs/nope/schedules/generate", `{"weekStart":"2025-01-05"}`)

	assert.False(t, resp.Success)
	assert.Equal(t, "org 不存在", resp.Message)
}

// 求解器不可用映射为 502，信封里带上游错误信息
func TestSolveScheduleUpstreamFailure(t *testing.T) {
	sc := &stubSolver{err: &solver.Error{StatusCode: 502, Detail: "infeasible"}}
	h := newTestHandler(t, &stubStore{schedule: testSchedule()}, sc)

	rec, resp := doRequest(h, http.MethodPost, "/orgs/demo/schedules/10/solve", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "infeasible")
}

func TestPinByPairMissingEmployee(t *testing.T) {
	h := newTestHandler(t, &stubStore{}, &stubSolver{})

	_, resp := doRequest(h, http.MethodPatch, "/assignments/pin", `{"shiftId":101}`)

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}
