package repository

import (
	"context"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// CreateScheduleRun 以 RUNNING 状态插入一条求解记录，开始时间由数据库打点
func (r *Repository) CreateScheduleRun(run *domain.ScheduleRun) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO schedule_runs (schedule_id, status, solver, started_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, started_at
	`

	run.Status = domain.RunStatusRunning
	return r.dbpool.QueryRowContext(ctx, query, run.ScheduleID, run.Status, run.Solver).Scan(&run.ID, &run.StartedAt)
}

// FinishScheduleRun 把求解记录从 RUNNING 转移到终态。
// WHERE 条件保证这个转移只会发生一次
func (r *Repository) FinishScheduleRun(run *domain.ScheduleRun, status domain.ScheduleRunStatus, objective *float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE schedule_runs
		SET status = $1, objective = $2, finished_at = now()
		WHERE id = $3 AND status = $4
		RETURNING finished_at
	`

	params := []any{status, objective, run.ID, domain.RunStatusRunning}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&run.FinishedAt); err != nil {
		return err
	}

	run.Status = status
	run.Objective = objective
	return nil
}

func (r *Repository) GetRunsByScheduleID(scheduleID int64) ([]domain.ScheduleRun, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, schedule_id, status, solver, objective, started_at, finished_at
		FROM schedule_runs
		WHERE schedule_id = $1
		ORDER BY started_at
	`

	rows, err := r.dbpool.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]domain.ScheduleRun, 0)
	for rows.Next() {
		var run domain.ScheduleRun
		dst := []any{&run.ID, &run.ScheduleID, &run.Status, &run.Solver, &run.Objective, &run.StartedAt, &run.FinishedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
