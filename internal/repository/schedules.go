package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// CreateSchedule 在一个事务中插入 schedule 和它展开出来的所有班次。
// 生成永远不是幂等的：即使该周已经存在排班表，也会创建一个新的
func (r *Repository) CreateSchedule(schedule *domain.Schedule) error {
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
		INSERT INTO schedules (org_id, week_start, week_end, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	params := []any{schedule.OrgID, schedule.WeekStart, schedule.WeekEnd, schedule.Status}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&schedule.ID, &schedule.CreatedAt); err != nil {
		return err
	}

	for i := range schedule.Shifts {
		query = `
			INSERT INTO shifts (schedule_id, location_id, role_id, start_at, end_at, required)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		shift := &schedule.Shifts[i]
		shift.ScheduleID = schedule.ID
		params := []any{schedule.ID, shift.LocationID, shift.RoleID, shift.Start, shift.End, shift.Required}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&shift.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetScheduleByID 返回完整水合的排班表：班次、各班次的指派以及所有求解记录
func (r *Repository) GetScheduleByID(id int64) (*domain.Schedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			sc.org_id,
			sc.week_start,
			sc.week_end,
			sc.status,
			sc.created_at,
			sh.id,
			sh.location_id,
			sh.role_id,
			sh.start_at,
			sh.end_at,
			sh.required,
			a.id,
			a.employee_id,
			a.cost,
			a.is_pinned
		FROM schedules sc
		LEFT JOIN shifts sh ON sc.id = sh.schedule_id
		LEFT JOIN assignments a ON sh.id = a.shift_id
		WHERE sc.id = $1
		ORDER BY sh.start_at, sh.id, a.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedule *domain.Schedule
	shiftsMap := make(map[int64]*domain.Shift)
	shiftOrder := make([]int64, 0)

	for rows.Next() {
		var row struct {
			OrgID     int64
			WeekStart time.Time
			WeekEnd   time.Time
			Status    string
			CreatedAt time.Time

			ShiftID    sql.NullInt64
			LocationID sql.NullInt64
			RoleID     sql.NullInt64
			StartAt    sql.NullTime
			EndAt      sql.NullTime
			Required   sql.NullInt32

			AssignmentID sql.NullInt64
			EmployeeID   sql.NullInt64
			Cost         sql.NullFloat64
			IsPinned     sql.NullBool
		}

		dst := []any{
			&row.OrgID,
			&row.WeekStart,
			&row.WeekEnd,
			&row.Status,
			&row.CreatedAt,
			&row.ShiftID,
			&row.LocationID,
			&row.RoleID,
			&row.StartAt,
			&row.EndAt,
			&row.Required,
			&row.AssignmentID,
			&row.EmployeeID,
			&row.Cost,
			&row.IsPinned,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if schedule == nil {
			schedule = &domain.Schedule{
				ID:        id,
				OrgID:     row.OrgID,
				WeekStart: row.WeekStart,
				WeekEnd:   row.WeekEnd,
				Status:    domain.ScheduleStatus(row.Status),
				CreatedAt: row.CreatedAt,
			}
		}

		// 如果 shiftID 为空，说明这个排班表还没有任何班次
		if !row.ShiftID.Valid {
			continue
		}

		shift, exists := shiftsMap[row.ShiftID.Int64]
		if !exists {
			shift = &domain.Shift{
				ID:          row.ShiftID.Int64,
				ScheduleID:  id,
				LocationID:  row.LocationID.Int64,
				RoleID:      row.RoleID.Int64,
				Start:       row.StartAt.Time,
				End:         row.EndAt.Time,
				Required:    row.Required.Int32,
				Assignments: make([]domain.Assignment, 0),
			}
			shiftsMap[row.ShiftID.Int64] = shift
			shiftOrder = append(shiftOrder, row.ShiftID.Int64)
		}

		// 如果 assignmentID 为空，说明这个班次还没有任何指派
		if !row.AssignmentID.Valid {
			continue
		}

		shift.Assignments = append(shift.Assignments, domain.Assignment{
			ID:         row.AssignmentID.Int64,
			ShiftID:    row.ShiftID.Int64,
			EmployeeID: row.EmployeeID.Int64,
			Cost:       row.Cost.Float64,
			IsPinned:   row.IsPinned.Bool,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if schedule == nil {
		return nil, sql.ErrNoRows
	}

	schedule.Shifts = make([]domain.Shift, 0, len(shiftOrder))
	for _, shiftID := range shiftOrder {
		schedule.Shifts = append(schedule.Shifts, *shiftsMap[shiftID])
	}

	runs, err := r.GetRunsByScheduleID(id)
	if err != nil {
		return nil, err
	}
	schedule.Runs = runs

	return schedule, nil
}

func (r *Repository) GetSchedulesByOrgID(orgID int64) ([]*domain.Schedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, org_id, week_start, week_end, status, created_at
		FROM schedules
		WHERE org_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.Schedule, 0)
	for rows.Next() {
		s := &domain.Schedule{}
		if err := rows.Scan(&s.ID, &s.OrgID, &s.WeekStart, &s.WeekEnd, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// ClaimScheduleForSolve 尝试把排班表状态置为 SOLVING，作为该排班表上的求解租约。
// 返回 false 表示已经有一个进行中的求解持有租约
func (r *Repository) ClaimScheduleForSolve(id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE schedules
		SET status = $1
		WHERE id = $2 AND status <> $1
	`

	result, err := r.dbpool.ExecContext(ctx, query, domain.ScheduleStatusSolving, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

// SetScheduleStatus 释放租约，把排班表转移到终态（SOLVED 或 FAILED）
func (r *Repository) SetScheduleStatus(id int64, status domain.ScheduleStatus) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `UPDATE schedules SET status = $1 WHERE id = $2`

	_, err := r.dbpool.ExecContext(ctx, query, status, id)
	return err
}
