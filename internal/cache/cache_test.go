package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis 用 map 模拟 redis，模式匹配只支持结尾通配符
type fakeRedis struct {
	data    map[string]string
	deleted []string
	getErr  error
	setErr  error
	delErr  error
	keysErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.delErr != nil {
		return redis.NewIntResult(0, f.delErr)
	}
	for _, key := range keys {
		delete(f.data, key)
		f.deleted = append(f.deleted, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (f *fakeRedis) Keys(ctx context.Context, pattern string) *redis.StringSliceCmd {
	if f.keysErr != nil {
		return redis.NewStringSliceResult(nil, f.keysErr)
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var matched []string
	for key := range f.data {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	return redis.NewStringSliceResult(matched, nil)
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetJSONRoundTrip(t *testing.T) {
	rdb := newFakeRedis()
	c := New(rdb)
	ctx := context.Background()

	c.SetJSON(ctx, "k", payload{Name: "demo", Count: 3}, time.Minute)

	got := payload{}
	require.True(t, c.GetJSON(ctx, "k", &got))
	assert.Equal(t, payload{Name: "demo", Count: 3}, got)
}

func TestGetJSONMiss(t *testing.T) {
	c := New(newFakeRedis())

	got := payload{}
	assert.False(t, c.GetJSON(context.Background(), "missing", &got))
}

// 缓存错误等同于未命中，调用方永远感知不到 redis 故障
func TestGetJSONErrorIsMiss(t *testing.T) {
	rdb := newFakeRedis()
	rdb.getErr = errors.New("connection refused")
	c := New(rdb)

	got := payload{}
	assert.False(t, c.GetJSON(context.Background(), "k", &got))
}

func TestGetJSONCorruptValueIsMiss(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data["k"] = "{not json"
	c := New(rdb)

	got := payload{}
	assert.False(t, c.GetJSON(context.Background(), "k", &got))
}

func TestSetJSONErrorIsSilent(t *testing.T) {
	rdb := newFakeRedis()
	rdb.setErr = errors.New("connection refused")
	c := New(rdb)

	c.SetJSON(context.Background(), "k", payload{}, time.Minute)
	assert.Empty(t, rdb.data)
}

func TestInvalidateSolveApplied(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data[ScheduleKey(10)] = "{}"
	rdb.data[ScheduleSummaryKey(10)] = "{}"
	rdb.data[ScheduleListKey(1)] = "[]"
	rdb.data[PresetKey(1)] = "{}"
	c := New(rdb)

	c.Invalidate(context.Background(), MutationSolveApplied, Scope{OrgID: 1, ScheduleID: 10})

	assert.NotContains(t, rdb.data, ScheduleKey(10))
	assert.NotContains(t, rdb.data, ScheduleSummaryKey(10))
	assert.NotContains(t, rdb.data, ScheduleListKey(1))
	// 无关的键不受影响
	assert.Contains(t, rdb.data, PresetKey(1))
}

// 需求变更要把所有需求列表变体和预测窗口一并失效
func TestInvalidateDemandChangedExpandsPatterns(t *testing.T) {
	locationID := int64(5)
	rdb := newFakeRedis()
	rdb.data[DemandListKey(1, nil)] = "[]"
	rdb.data[DemandListKey(1, &locationID)] = "[]"
	rdb.data[ForecastKey(1, 14)] = "{}"
	rdb.data[ForecastKey(1, 28)] = "{}"
	rdb.data[ForecastKey(2, 14)] = "{}"
	c := New(rdb)

	c.Invalidate(context.Background(), MutationDemandChanged, Scope{OrgID: 1})

	assert.NotContains(t, rdb.data, DemandListKey(1, nil))
	assert.NotContains(t, rdb.data, DemandListKey(1, &locationID))
	assert.NotContains(t, rdb.data, ForecastKey(1, 14))
	assert.NotContains(t, rdb.data, ForecastKey(1, 28))
	// 别的 org 的预测不受影响
	assert.Contains(t, rdb.data, ForecastKey(2, 14))
}

func TestInvalidateToleratesErrors(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data[ScheduleListKey(1)] = "[]"
	rdb.delErr = errors.New("connection refused")
	c := New(rdb)

	// 失效失败只记日志，旧值由 TTL 兜底
	c.Invalidate(context.Background(), MutationScheduleGenerated, Scope{OrgID: 1})
	assert.Contains(t, rdb.data, ScheduleListKey(1))
}

func TestInvalidateKeysErrorSkipsPattern(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data[DemandListKey(1, nil)] = "[]"
	rdb.keysErr = errors.New("connection refused")
	c := New(rdb)

	c.Invalidate(context.Background(), MutationDemandChanged, Scope{OrgID: 1})
	// 模式展开失败时这次失效不了，不会 panic 也不会误删
	assert.Contains(t, rdb.data, DemandListKey(1, nil))
}
