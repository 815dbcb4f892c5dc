package solver

import (
	"encoding/json"

	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// 求解请求的线格式，字段名以求解器的契约为准

type RequestConfig struct {
	Weights map[string]float64 `json:"weights"`
}

type ShiftPayload struct {
	ID       int64  `json:"id"`
	Start    string `json:"start"` // ISO8601
	End      string `json:"end"`
	Required int32  `json:"required"`
	RoleID   int64  `json:"roleId"`
}

type AvailabilityPayload struct {
	Weekday int32  `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type TimeOffPayload struct {
	Start string `json:"start"` // ISO8601
	End   string `json:"end"`
}

type EmployeePayload struct {
	ID             int64                 `json:"id"`
	HourlyCost     float64               `json:"hourlyCost"`
	RoleIDs        []int64               `json:"roleIds"`
	MaxWeeklyHours int32                 `json:"maxWeeklyHours"`
	EmploymentType string                `json:"employmentType"`
	Avail          []AvailabilityPayload `json:"avail"`
	TimeOffs       []TimeOffPayload      `json:"timeOffs"`
}

type SolveRequest struct {
	Config    RequestConfig       `json:"config"`
	Shifts    []ShiftPayload      `json:"shifts"`
	Employees []EmployeePayload   `json:"employees"`
	Pinned    []domain.PinnedPair `json:"pinned"`
	// 调用方显式传入的权重覆盖，优先于 Config 中的 preset 权重
	Weights map[string]float64 `json:"weights,omitempty"`
}

type SolveResponse struct {
	Assignments []domain.PinnedPair `json:"assignments"`
	Objective   float64             `json:"objective"`
}

type TSPoint struct {
	DS string  `json:"ds"`
	Y  float64 `json:"y"`
}

type ForecastRequest struct {
	Series         []TSPoint `json:"series"`
	HorizonDays    int       `json:"horizon_days"`
	SeasonalPeriod int       `json:"seasonal_period"`
	BacktestFolds  int       `json:"backtest_folds"`
}

type ForecastResponse struct {
	Yhat      []TSPoint       `json:"yhat"`
	YhatLower []TSPoint       `json:"yhat_lower"`
	YhatUpper []TSPoint       `json:"yhat_upper"`
	MAPE      *float64        `json:"mape,omitempty"`
	Folds     json.RawMessage `json:"folds,omitempty"`
}
