package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shiftsense-dev/shiftsense/backend/internal/cache"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// PinByID 按指派 ID 翻转钉选标记。
// 指派 ID 在每次重新求解后都会被回收，所以这是脆弱的寻址方式，
// 查不到时返回带刷新提示的 ErrAssignmentNotFound
func (s *Service) PinByID(ctx context.Context, id int64, isPinned bool) (*domain.Assignment, error) {
	assignment, err := s.store.SetAssignmentPinByID(id, isPinned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	return s.finishPin(ctx, assignment, isPinned)
}

// PinByPair 按稳定的 (shiftID, employeeID) 对翻转钉选标记，不受 ID 回收影响
func (s *Service) PinByPair(ctx context.Context, shiftID, employeeID int64, isPinned bool) (*domain.Assignment, error) {
	assignment, err := s.store.SetAssignmentPinByPair(shiftID, employeeID, isPinned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	return s.finishPin(ctx, assignment, isPinned)
}

func (s *Service) finishPin(ctx context.Context, assignment *domain.Assignment, isPinned bool) (*domain.Assignment, error) {
	scheduleID, orgID, err := s.store.GetShiftScheduleInfo(assignment.ShiftID)
	if err != nil {
		return nil, err
	}

	action := domain.AuditActionUnpin
	if isPinned {
		action = domain.AuditActionPin
	}

	// 钉选是会影响后续求解结果的人工决策，它的溯源必须可靠，审计失败要向上抛
	if err := s.audit.Record(&domain.AuditLog{
		OrgID:    orgID,
		Entity:   "Assignment",
		EntityID: assignment.ID,
		Action:   action,
		Meta: map[string]any{
			"shiftId":    assignment.ShiftID,
			"employeeId": assignment.EmployeeID,
			"isPinned":   isPinned,
		},
	}); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.MutationPinChanged, cache.Scope{OrgID: orgID, ScheduleID: scheduleID})

	return assignment, nil
}
