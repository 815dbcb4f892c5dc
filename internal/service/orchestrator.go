package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/cache"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
	"github.com/shiftsense-dev/shiftsense/backend/internal/solver"
	"github.com/shiftsense-dev/shiftsense/backend/internal/utils"
	"golang.org/x/sync/errgroup"
)

const solverTag = "cp-sat"

// Solve 是一次完整的求解编排：组装求解请求、同步调用求解器、
// 原子地应用结果、保留钉选、记录求解溯源。
// 失败时现有指派完全不动：删除旧指派只会发生在响应校验通过之后
func (s *Service) Solve(ctx context.Context, orgRef string, scheduleID int64, weightOverride map[string]float64) (*domain.Schedule, error) {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return nil, err
	}

	schedule, err := s.store.GetScheduleByID(scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	// 排班表必须归属于这个 org
	if schedule.OrgID != orgID {
		return nil, ErrScheduleNotFound
	}

	// 花名册、preset、钉选集合三者之间没有顺序依赖，并发拉取
	var (
		employees []*domain.Employee
		preset    *domain.ConstraintPreset
		pinned    []domain.PinnedPair
	)

	g := errgroup.Group{}
	g.Go(func() error {
		var err error
		employees, err = s.store.GetEmployeesByOrgID(orgID)
		return err
	})
	g.Go(func() error {
		p, err := s.store.GetPresetByOrgID(orgID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// 没有保存过 preset 时用默认权重
				return nil
			}
			return err
		}
		preset = p
		return nil
	})
	g.Go(func() error {
		var err error
		pinned, err = s.store.GetPinnedPairs(scheduleID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	weights := domain.DefaultPresetConfig().Weights
	if preset != nil {
		weights = preset.Config.Weights
	}

	req := buildSolveRequest(schedule, employees, pinned, weights, weightOverride)

	// 求解租约：抢不到说明这个排班表上已经有一个进行中的求解
	claimed, err := s.store.ClaimScheduleForSolve(scheduleID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrSolveInProgress
	}

	run := &domain.ScheduleRun{
		ScheduleID: scheduleID,
		Solver:     solverTag,
	}
	if err := s.store.CreateScheduleRun(run); err != nil {
		// run 都没建起来，把租约还回去
		if serr := s.store.SetScheduleStatus(scheduleID, schedule.Status); serr != nil {
			slog.Error("无法回滚排班表状态", "scheduleID", scheduleID, "error", serr)
		}
		return nil, err
	}

	resp, err := s.solver.Solve(ctx, req)
	if err != nil {
		return nil, s.failSolve(ctx, orgID, scheduleID, run, err)
	}

	// 只有校验通过的响应才允许动现有数据
	if err := utils.ValidateSolveResponse(resp, schedule, employees); err != nil {
		return nil, s.failSolve(ctx, orgID, scheduleID, run, err)
	}

	assignments := buildAssignments(schedule, employees, pinned, resp)
	if err := s.store.ReplaceAssignments(scheduleID, assignments); err != nil {
		if ferr := s.finishFailed(scheduleID, run); ferr != nil {
			slog.Error("无法落账失败的求解", "scheduleID", scheduleID, "error", ferr)
		}
		return nil, err
	}

	objective := resp.Objective
	if err := s.store.FinishScheduleRun(run, domain.RunStatusOK, &objective); err != nil {
		return nil, err
	}
	if err := s.store.SetScheduleStatus(scheduleID, domain.ScheduleStatusSolved); err != nil {
		return nil, err
	}

	if err := s.audit.Record(&domain.AuditLog{
		OrgID:    orgID,
		Entity:   "Schedule",
		EntityID: scheduleID,
		Action:   domain.AuditActionSolveOK,
		Meta: map[string]any{
			"objective":   objective,
			"assignments": len(assignments),
		},
	}); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.MutationSolveApplied, cache.Scope{OrgID: orgID, ScheduleID: scheduleID})

	return s.GetSchedule(ctx, scheduleID)
}

// failSolve 先把失败落账（run 转 FAILED、审计失败事件），再把上游错误抛给调用方，
// 这样即使调用方只看到一个笼统的失败，历史里也一定能查到这次求解
func (s *Service) failSolve(ctx context.Context, orgID, scheduleID int64, run *domain.ScheduleRun, cause error) error {
	if err := s.finishFailed(scheduleID, run); err != nil {
		slog.Error("无法落账失败的求解", "scheduleID", scheduleID, "error", err)
	}

	detail := cause.Error()
	solverErr := &solver.Error{}
	if errors.As(cause, &solverErr) {
		detail = solverErr.Detail
	}

	if err := s.audit.Record(&domain.AuditLog{
		OrgID:    orgID,
		Entity:   "Schedule",
		EntityID: scheduleID,
		Action:   domain.AuditActionSolveFailed,
		Meta: map[string]any{
			"detail": detail,
		},
	}); err != nil {
		slog.Error("无法记录求解失败的审计事件", "scheduleID", scheduleID, "error", err)
	}

	s.cache.Invalidate(ctx, cache.MutationSolveApplied, cache.Scope{OrgID: orgID, ScheduleID: scheduleID})

	return &UpstreamError{Detail: detail, Err: cause}
}

func (s *Service) finishFailed(scheduleID int64, run *domain.ScheduleRun) error {
	if err := s.store.FinishScheduleRun(run, domain.RunStatusFailed, nil); err != nil {
		return err
	}
	return s.store.SetScheduleStatus(scheduleID, domain.ScheduleStatusFailed)
}

// buildSolveRequest 组装求解请求。有效权重 = preset 权重被调用方覆盖项逐键覆盖
func buildSolveRequest(schedule *domain.Schedule, employees []*domain.Employee, pinned []domain.PinnedPair, presetWeights, override map[string]float64) *solver.SolveRequest {
	effective := make(map[string]float64, len(presetWeights))
	for k, v := range presetWeights {
		effective[k] = v
	}
	for k, v := range override {
		effective[k] = v
	}

	req := &solver.SolveRequest{
		Config:    solver.RequestConfig{Weights: effective},
		Shifts:    make([]solver.ShiftPayload, 0, len(schedule.Shifts)),
		Employees: make([]solver.EmployeePayload, 0, len(employees)),
		Pinned:    pinned,
		Weights:   override,
	}

	for _, shift := range schedule.Shifts {
		req.Shifts = append(req.Shifts, solver.ShiftPayload{
			ID:       shift.ID,
			Start:    shift.Start.Format(time.RFC3339),
			End:      shift.End.Format(time.RFC3339),
			Required: shift.Required,
			RoleID:   shift.RoleID,
		})
	}

	for _, e := range employees {
		payload := solver.EmployeePayload{
			ID:             e.ID,
			HourlyCost:     e.HourlyCost,
			RoleIDs:        []int64{},
			MaxWeeklyHours: e.MaxWeeklyHours,
			EmploymentType: string(e.EmploymentType),
			Avail:          make([]solver.AvailabilityPayload, 0, len(e.Availabilities)),
			TimeOffs:       make([]solver.TimeOffPayload, 0, len(e.TimeOffs)),
		}
		if e.RoleID != 0 {
			payload.RoleIDs = []int64{e.RoleID}
		}
		for _, a := range e.Availabilities {
			payload.Avail = append(payload.Avail, solver.AvailabilityPayload{
				Weekday: a.Weekday,
				Start:   a.StartTime,
				End:     a.EndTime,
			})
		}
		for _, t := range e.TimeOffs {
			payload.TimeOffs = append(payload.TimeOffs, solver.TimeOffPayload{
				Start: t.Start.Format(time.RFC3339),
				End:   t.End.Format(time.RFC3339),
			})
		}
		req.Employees = append(req.Employees, payload)
	}

	return req
}

// buildAssignments 把求解器的决策转换成要落库的指派集合。
// 成本一律用班次自己落库的时间戳和员工花名册里的时薪计算，
// 不信任求解器回显的任何数值；钉选标记同样在本地重新推导
func buildAssignments(schedule *domain.Schedule, employees []*domain.Employee, pinned []domain.PinnedPair, resp *solver.SolveResponse) []*domain.Assignment {
	shiftMap := make(map[int64]*domain.Shift, len(schedule.Shifts))
	for i := range schedule.Shifts {
		shiftMap[schedule.Shifts[i].ID] = &schedule.Shifts[i]
	}
	employeeMap := make(map[int64]*domain.Employee, len(employees))
	for _, e := range employees {
		employeeMap[e.ID] = e
	}
	pinnedSet := make(map[domain.PinnedPair]bool, len(pinned))
	for _, p := range pinned {
		pinnedSet[p] = true
	}

	assignments := make([]*domain.Assignment, 0, len(resp.Assignments))
	seen := make(map[domain.PinnedPair]bool, len(resp.Assignments))

	for _, a := range resp.Assignments {
		shift := shiftMap[a.ShiftID]
		employee := employeeMap[a.EmployeeID]
		pair := domain.PinnedPair{ShiftID: a.ShiftID, EmployeeID: a.EmployeeID}
		seen[pair] = true

		assignments = append(assignments, &domain.Assignment{
			ShiftID:    a.ShiftID,
			EmployeeID: a.EmployeeID,
			Cost:       assignmentCost(shift, employee),
			IsPinned:   pinnedSet[pair],
		})
	}

	// 被钉选的对子必须原样保留，即使求解器的答案里没有它
	for _, p := range pinned {
		if seen[p] {
			continue
		}
		shift, ok := shiftMap[p.ShiftID]
		if !ok {
			continue
		}
		assignments = append(assignments, &domain.Assignment{
			ShiftID:    p.ShiftID,
			EmployeeID: p.EmployeeID,
			Cost:       assignmentCost(shift, employeeMap[p.EmployeeID]),
			IsPinned:   true,
		})
	}

	return assignments
}

func assignmentCost(shift *domain.Shift, employee *domain.Employee) float64 {
	if shift == nil || employee == nil {
		return 0
	}
	hours := shift.End.Sub(shift.Start).Hours()
	return employee.HourlyCost * hours
}
