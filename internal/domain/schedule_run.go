package domain

import "time"

type ScheduleRunStatus string

const (
	RunStatusRunning ScheduleRunStatus = "RUNNING"
	RunStatusOK      ScheduleRunStatus = "OK"
	RunStatusFailed  ScheduleRunStatus = "FAILED"
)

// ScheduleRun 是一次求解尝试的溯源记录，
// 以 RUNNING 状态创建，且只会转移一次到 OK 或 FAILED，不会自动重试
type ScheduleRun struct {
	ID         int64             `json:"id"`
	ScheduleID int64             `json:"scheduleID"`
	Status     ScheduleRunStatus `json:"status"`
	Solver     string            `json:"solver"`
	Objective  *float64          `json:"objective"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt *time.Time        `json:"finishedAt"`
}
