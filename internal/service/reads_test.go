package service

import (
	"context"
	"testing"

	"github.com/shiftsense-dev/shiftsense/backend/internal/cache"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetScheduleReadThrough(t *testing.T) {
	svc, store, c, _, _ := newTestWorld()

	first, err := svc.GetSchedule(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), first.ID)

	// 第二次读走缓存：即使底层数据被删掉也能命中
	delete(store.schedules, 10)
	second, err := svc.GetSchedule(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// 缓存清掉之后回落到数据库，此时才暴露数据不存在
	c.data = map[string][]byte{}
	_, err = svc.GetSchedule(context.Background(), 10)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestGetSummary(t *testing.T) {
	svc, store, _, _, _ := newTestWorld()
	store.schedules[10].Shifts[0].Assignments = []domain.Assignment{
		{Cost: 200}, {Cost: 240},
	}
	store.schedules[10].Shifts[1].Assignments = []domain.Assignment{
		{Cost: 180},
	}

	summary, err := svc.GetSummary(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, int64(10), summary.ID)
	assert.Equal(t, 620.0, summary.TotalCost)
	// 需求 3 人，指派 3 人
	assert.Equal(t, int32(100), summary.Coverage)
}

func TestGetPresetDefault(t *testing.T) {
	svc, _, _, _, _ := newTestWorld()

	preset, err := svc.GetPreset(context.Background(), "demo")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultPresetConfig().Weights, preset.Config.Weights)
	assert.Equal(t, 1.0, preset.Config.Weights["cost"])
	assert.Equal(t, 50.0, preset.Config.Weights["casualPenalty"])
	assert.Equal(t, 20.0, preset.Config.Weights["consecutivePenalty"])
}

func TestSavePreset(t *testing.T) {
	svc, store, c, _, audit := newTestWorld()

	saved, err := svc.SavePreset(context.Background(), "demo", domain.PresetConfig{
		Weights: map[string]float64{"cost": 3},
	})
	require.NoError(t, err)

	assert.Equal(t, saved, store.preset)
	assert.Equal(t, domain.AuditActionPresetSave, audit.lastAction())
	assert.True(t, c.sawMutation(cache.MutationPresetSaved))

	// 保存后读取必须返回新的权重
	c.data = map[string][]byte{}
	preset, err := svc.GetPreset(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, 3.0, preset.Config.Weights["cost"])
}

func TestDemandMutationsInvalidate(t *testing.T) {
	svc, _, c, _, _ := newTestWorld()

	err := svc.CreateDemandTemplate(context.Background(), "demo", &domain.ShiftDemandTemplate{
		LocationID: 5, RoleID: 7, Weekday: 1, StartTime: "09:00", EndTime: "17:00", Required: 2,
	})
	require.NoError(t, err)
	assert.True(t, c.sawMutation(cache.MutationDemandChanged))
}

func TestAddAvailabilityInvalidatesRoster(t *testing.T) {
	svc, _, c, _, _ := newTestWorld()

	err := svc.AddAvailability(context.Background(), 1, &domain.Availability{
		Weekday: 3, StartTime: "08:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	assert.True(t, c.sawMutation(cache.MutationRosterChanged))
}

func TestListAuditLogsDefaultLimit(t *testing.T) {
	svc, store, _, _, _ := newTestWorld()

	_, err := svc.ListAuditLogs(context.Background(), "demo", 0)
	require.NoError(t, err)
	assert.Equal(t, 50, store.auditLimit)

	_, err = svc.ListAuditLogs(context.Background(), "demo", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, store.auditLimit)
}
