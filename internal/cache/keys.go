package cache

import "fmt"

// 缓存键是确定性的：org ID 加实体类别，必要时再加限定符（排班表 ID、预测窗口）

func ScheduleKey(scheduleID int64) string {
	return fmt.Sprintf("schedule:%d", scheduleID)
}

func ScheduleSummaryKey(scheduleID int64) string {
	return fmt.Sprintf("schedule:%d:summary", scheduleID)
}

func ScheduleListKey(orgID int64) string {
	return fmt.Sprintf("org:%d:schedules", orgID)
}

func DemandListKey(orgID int64, locationID *int64) string {
	if locationID != nil {
		return fmt.Sprintf("org:%d:demand:loc:%d", orgID, *locationID)
	}
	return fmt.Sprintf("org:%d:demand", orgID)
}

func demandPattern(orgID int64) string {
	return fmt.Sprintf("org:%d:demand*", orgID)
}

func EmployeeListKey(orgID int64) string {
	return fmt.Sprintf("org:%d:employees", orgID)
}

func PresetKey(orgID int64) string {
	return fmt.Sprintf("org:%d:preset", orgID)
}

func ForecastKey(orgID int64, horizonDays int) string {
	return fmt.Sprintf("forecast:%d:%d", orgID, horizonDays)
}

func forecastPattern(orgID int64) string {
	return fmt.Sprintf("forecast:%d:*", orgID)
}
