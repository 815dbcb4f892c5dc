package service

import (
	"errors"
	"fmt"
)

var (
	ErrOrgNotFound      = errors.New("org 不存在")
	ErrScheduleNotFound = errors.New("排班表不存在")
	ErrInvalidWeekStart = errors.New("周起始日期不合法，应为 YYYY-MM-DD 格式")
	// 指派 ID 在每次重新求解后都会被整体回收，按 ID 钉选查不到时提示调用方刷新
	ErrAssignmentNotFound = errors.New("指派不存在，可能已被重新求解回收，请刷新后按 (shiftID, employeeID) 重试")
	ErrSolveInProgress    = errors.New("该排班表已有一个进行中的求解")
)

// UpstreamError 表示求解器不可达、超时或返回了非成功响应，
// Detail 保留上游的错误信息用于诊断
type UpstreamError struct {
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("求解失败: %s", e.Detail)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
