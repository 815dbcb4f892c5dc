package domain

import "time"

type ScheduleStatus string

const (
	ScheduleStatusDraft   ScheduleStatus = "DRAFT"
	ScheduleStatusSolving ScheduleStatus = "SOLVING" // 同时充当单个排班表上的求解租约
	ScheduleStatusSolved  ScheduleStatus = "SOLVED"
	ScheduleStatusFailed  ScheduleStatus = "FAILED"
)

// Schedule 是某个 org 某一周的一次排班生成实例，
// 和它的班次一起创建，之后除了整体重新生成外不会被单独修改
type Schedule struct {
	ID        int64          `json:"id"`
	OrgID     int64          `json:"orgID"`
	WeekStart time.Time      `json:"weekStart"`
	WeekEnd   time.Time      `json:"weekEnd"`
	Status    ScheduleStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	Shifts    []Shift        `json:"shifts,omitempty"`
	Runs      []ScheduleRun  `json:"runs,omitempty"`
}

// Shift 是需求模板在目标周内展开出来的一个具体班次
type Shift struct {
	ID          int64        `json:"id"`
	ScheduleID  int64        `json:"scheduleID"`
	LocationID  int64        `json:"locationID"`
	RoleID      int64        `json:"roleID"`
	Start       time.Time    `json:"start"`
	End         time.Time    `json:"end"`
	Required    int32        `json:"required"`
	Assignments []Assignment `json:"assignments"`
}
