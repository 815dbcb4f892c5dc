package domain

import "time"

const (
	AuditActionSolveOK      = "SOLVE_OK"
	AuditActionSolveFailed  = "SOLVE_FAILED"
	AuditActionPin          = "PIN"
	AuditActionUnpin        = "UNPIN"
	AuditActionPresetSave   = "PRESET_SAVE"
	AuditActionForecastRun  = "FORECAST_RUN"
	AuditActionScheduleMake = "SCHEDULE_GENERATE"
)

// AuditLog 是发送给审计接收端的结构化溯源事件
type AuditLog struct {
	ID        int64          `json:"id"`
	OrgID     int64          `json:"orgId"`
	UserID    *int64         `json:"userId"`
	Entity    string         `json:"entity"`
	EntityID  int64          `json:"entityId"`
	Action    string         `json:"action"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"createdAt"`
}
