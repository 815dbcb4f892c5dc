package utils

import (
	"fmt"

	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
	"github.com/shiftsense-dev/shiftsense/backend/internal/solver"
)

// ValidateSolveResponse 校验求解器的响应是否能安全应用到排班表上：
// 引用的班次和员工必须真实存在，且不能出现重复的 (shift, employee) 对。
// 校验不通过时现有指派不允许被动到
func ValidateSolveResponse(resp *solver.SolveResponse, schedule *domain.Schedule, employees []*domain.Employee) error {
	shiftIDs := make(map[int64]bool, len(schedule.Shifts))
	for _, shift := range schedule.Shifts {
		shiftIDs[shift.ID] = true
	}
	employeeIDs := make(map[int64]bool, len(employees))
	for _, e := range employees {
		employeeIDs[e.ID] = true
	}

	seen := make(map[domain.PinnedPair]bool, len(resp.Assignments))
	for _, a := range resp.Assignments {
		if !shiftIDs[a.ShiftID] {
			return fmt.Errorf("求解结果引用了不存在的班次 %d", a.ShiftID)
		}
		if !employeeIDs[a.EmployeeID] {
			return fmt.Errorf("求解结果引用了不存在的员工 %d", a.EmployeeID)
		}

		pair := domain.PinnedPair{ShiftID: a.ShiftID, EmployeeID: a.EmployeeID}
		if seen[pair] {
			return fmt.Errorf("求解结果中存在重复的指派 (%d, %d)", a.ShiftID, a.EmployeeID)
		}
		seen[pair] = true
	}

	return nil
}
