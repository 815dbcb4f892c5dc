package repository

import (
	"context"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// GetPinnedPairs 返回该排班表当前被钉选的 (shiftID, employeeID) 集合，
// 求解前取出，求解后用它在本地重新打上钉选标记
func (r *Repository) GetPinnedPairs(scheduleID int64) ([]domain.PinnedPair, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT a.shift_id, a.employee_id
		FROM assignments a
		JOIN shifts s ON a.shift_id = s.id
		WHERE s.schedule_id = $1 AND a.is_pinned = TRUE
	`

	rows, err := r.dbpool.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := make([]domain.PinnedPair, 0)
	for rows.Next() {
		var p domain.PinnedPair
		if err := rows.Scan(&p.ShiftID, &p.EmployeeID); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pairs, nil
}

// ReplaceAssignments 在一个事务中整体替换排班表的指派集合，
// 保证读者不会观察到删了一半或者插了一半的状态
func (r *Repository) ReplaceAssignments(scheduleID int64, assignments []*domain.Assignment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		DELETE FROM assignments
		WHERE shift_id IN (SELECT id FROM shifts WHERE schedule_id = $1)
	`
	if _, err := tx.ExecContext(ctx, query, scheduleID); err != nil {
		return err
	}

	for _, a := range assignments {
		query = `
			INSERT INTO assignments (shift_id, employee_id, cost, is_pinned)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, a.ShiftID, a.EmployeeID, a.Cost, a.IsPinned).Scan(&a.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SetAssignmentPinByID 按指派 ID 设置钉选标记。
// 指派 ID 在每次求解后都会被回收，查不到时返回 sql.ErrNoRows
func (r *Repository) SetAssignmentPinByID(id int64, isPinned bool) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE assignments
		SET is_pinned = $1
		WHERE id = $2
		RETURNING id, shift_id, employee_id, cost, is_pinned
	`

	a := &domain.Assignment{}
	dst := []any{&a.ID, &a.ShiftID, &a.EmployeeID, &a.Cost, &a.IsPinned}
	if err := r.dbpool.QueryRowContext(ctx, query, isPinned, id).Scan(dst...); err != nil {
		return nil, err
	}

	return a, nil
}

// SetAssignmentPinByPair 按稳定的 (shiftID, employeeID) 对设置钉选标记，
// 不受求解导致的指派 ID 回收的影响
func (r *Repository) SetAssignmentPinByPair(shiftID, employeeID int64, isPinned bool) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE assignments
		SET is_pinned = $1
		WHERE shift_id = $2 AND employee_id = $3
		RETURNING id, shift_id, employee_id, cost, is_pinned
	`

	a := &domain.Assignment{}
	dst := []any{&a.ID, &a.ShiftID, &a.EmployeeID, &a.Cost, &a.IsPinned}
	if err := r.dbpool.QueryRowContext(ctx, query, isPinned, shiftID, employeeID).Scan(dst...); err != nil {
		return nil, err
	}

	return a, nil
}

// GetShiftScheduleInfo 根据班次反查归属的排班表和 org，用于审计和缓存失效
func (r *Repository) GetShiftScheduleInfo(shiftID int64) (scheduleID int64, orgID int64, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT sh.schedule_id, sc.org_id
		FROM shifts sh
		JOIN schedules sc ON sh.schedule_id = sc.id
		WHERE sh.id = $1
	`

	if err := r.dbpool.QueryRowContext(ctx, query, shiftID).Scan(&scheduleID, &orgID); err != nil {
		return 0, 0, err
	}

	return scheduleID, orgID, nil
}
