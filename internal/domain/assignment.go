package domain

// Assignment 在 (shiftID, employeeID) 上唯一。
// 每次求解都会整体删除再重建，因此 ID 在两次求解之间不稳定
type Assignment struct {
	ID         int64   `json:"id"`
	ShiftID    int64   `json:"shiftID"`
	EmployeeID int64   `json:"employeeID"`
	Cost       float64 `json:"cost"`
	IsPinned   bool    `json:"isPinned"`
}

// PinnedPair 是跨求解稳定的钉选标识
type PinnedPair struct {
	ShiftID    int64 `json:"shiftId"`
	EmployeeID int64 `json:"employeeId"`
}
