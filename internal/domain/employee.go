package domain

import "time"

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FULL_TIME"
	EmploymentPartTime EmploymentType = "PART_TIME"
	EmploymentCasual   EmploymentType = "CASUAL"
)

type Employee struct {
	ID             int64          `json:"id"`
	OrgID          int64          `json:"orgID"`
	RoleID         int64          `json:"roleID"`
	Code           string         `json:"code"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	EmploymentType EmploymentType `json:"employmentType"`
	HourlyCost     float64        `json:"hourlyCost"`
	MaxWeeklyHours int32          `json:"maxWeeklyHours"`
	Availabilities []Availability `json:"availabilities"`
	TimeOffs       []TimeOff      `json:"timeOffs"`
}

// Availability 表示员工在某个星期几的可用时间段，时间为 HH:MM 格式
type Availability struct {
	ID        int64  `json:"id"`
	Weekday   int32  `json:"weekday"` // 0 = 周日
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type TimeOff struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason string    `json:"reason"`
}
