package domain

// ShiftDemandTemplate 是每周重复的用工需求模式，排班生成器会把它展开成具体日期的班次
type ShiftDemandTemplate struct {
	ID         int64  `json:"id"`
	LocationID int64  `json:"locationID"`
	RoleID     int64  `json:"roleID"`
	Weekday    int32  `json:"weekday"` // 0 = 周日
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Required   int32  `json:"required"`
}
