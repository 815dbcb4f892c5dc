package service

import (
	"math"

	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// TotalCost 对排班表内所有指派的成本求和。
// 纯求和，结果与存储返回班次和指派的顺序无关
func TotalCost(schedule *domain.Schedule) float64 {
	var total float64
	for _, shift := range schedule.Shifts {
		for _, a := range shift.Assignments {
			total += a.Cost
		}
	}
	return total
}

// Coverage 返回实际指派人数占需求人数的百分比，四舍五入到整数。
// 需求为 0 时视为完全满足，返回 100，同时避免除零
func Coverage(schedule *domain.Schedule) int32 {
	var required, assigned int64
	for _, shift := range schedule.Shifts {
		required += int64(shift.Required)
		assigned += int64(len(shift.Assignments))
	}

	if required == 0 {
		return 100
	}

	return int32(math.Round(float64(assigned) / float64(required) * 100))
}
