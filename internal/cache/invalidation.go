package cache

import (
	"context"
	"log/slog"
)

// Mutation 标识一类会改动底层数据的操作
type Mutation string

const (
	MutationScheduleGenerated Mutation = "schedule_generated"
	MutationSolveApplied      Mutation = "solve_applied"
	MutationPinChanged        Mutation = "pin_changed"
	MutationDemandChanged     Mutation = "demand_changed"
	MutationRosterChanged     Mutation = "roster_changed"
	MutationPresetSaved       Mutation = "preset_saved"
)

// Scope 描述一次 mutation 波及的范围
type Scope struct {
	OrgID      int64
	ScheduleID int64
}

// invalidations 把每类 mutation 映射到它必须失效的键。
// 选择上偏保守：宁可多失效，不可读到旧值
var invalidations = map[Mutation]func(Scope) (keys []string, patterns []string){
	MutationScheduleGenerated: func(s Scope) ([]string, []string) {
		return []string{ScheduleListKey(s.OrgID)}, nil
	},
	MutationSolveApplied: func(s Scope) ([]string, []string) {
		// 求解会改动排班表状态，列表读也会受影响
		return []string{ScheduleKey(s.ScheduleID), ScheduleSummaryKey(s.ScheduleID), ScheduleListKey(s.OrgID)}, nil
	},
	MutationPinChanged: func(s Scope) ([]string, []string) {
		return []string{ScheduleKey(s.ScheduleID), ScheduleSummaryKey(s.ScheduleID)}, nil
	},
	MutationDemandChanged: func(s Scope) ([]string, []string) {
		// 需求模板是预测序列的输入，所有需求列表和预测窗口的缓存一并失效
		return nil, []string{demandPattern(s.OrgID), forecastPattern(s.OrgID)}
	},
	MutationRosterChanged: func(s Scope) ([]string, []string) {
		return []string{EmployeeListKey(s.OrgID)}, nil
	},
	MutationPresetSaved: func(s Scope) ([]string, []string) {
		return []string{PresetKey(s.OrgID)}, nil
	},
}

// Invalidate 按失效表删除一次 mutation 波及的所有键，出错只记日志
func (c *Cache) Invalidate(ctx context.Context, m Mutation, scope Scope) {
	build, ok := invalidations[m]
	if !ok {
		return
	}

	keys, patterns := build(scope)
	for _, pattern := range patterns {
		matched, err := c.client.Keys(ctx, pattern).Result()
		if err != nil {
			slog.Warn("缓存键匹配失败", "pattern", pattern, "error", err)
			continue
		}
		keys = append(keys, matched...)
	}

	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("缓存失效失败，旧值将由 TTL 兜底", "keys", keys, "error", err)
	}
}
