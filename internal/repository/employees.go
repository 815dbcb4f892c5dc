package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// GetEmployeesByOrgID 返回该 org 的员工花名册，包含可用时间窗口和请假区间
func (r *Repository) GetEmployeesByOrgID(orgID int64) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			e.id,
			e.org_id,
			e.role_id,
			e.code,
			e.first_name,
			e.last_name,
			e.employment_type,
			e.hourly_cost,
			e.max_weekly_hours,
			a.id,
			a.weekday,
			a.start_time,
			a.end_time,
			t.id,
			t.start_at,
			t.end_at,
			t.reason
		FROM employees e
		LEFT JOIN availabilities a ON e.id = a.employee_id
		LEFT JOIN time_offs t ON e.id = t.employee_id
		WHERE e.org_id = $1
		ORDER BY e.id, a.id, t.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employeesMap := make(map[int64]*domain.Employee)
	order := make([]int64, 0)
	availSeen := make(map[int64]map[int64]bool)   // employeeID -> availabilityID
	timeOffSeen := make(map[int64]map[int64]bool) // employeeID -> timeOffID

	for rows.Next() {
		var row struct {
			ID             int64
			OrgID          int64
			RoleID         int64
			Code           string
			FirstName      string
			LastName       string
			EmploymentType string
			HourlyCost     float64
			MaxWeeklyHours int32

			AvailID      sql.NullInt64
			Weekday      sql.NullInt32
			StartTime    sql.NullString
			EndTime      sql.NullString
			TimeOffID    sql.NullInt64
			TimeOffStart sql.NullTime
			TimeOffEnd   sql.NullTime
			Reason       sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.OrgID,
			&row.RoleID,
			&row.Code,
			&row.FirstName,
			&row.LastName,
			&row.EmploymentType,
			&row.HourlyCost,
			&row.MaxWeeklyHours,
			&row.AvailID,
			&row.Weekday,
			&row.StartTime,
			&row.EndTime,
			&row.TimeOffID,
			&row.TimeOffStart,
			&row.TimeOffEnd,
			&row.Reason,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if _, exists := employeesMap[row.ID]; !exists {
			// 说明此时是第一次查到这个员工，需要在 map 中初始化
			employeesMap[row.ID] = &domain.Employee{
				ID:             row.ID,
				OrgID:          row.OrgID,
				RoleID:         row.RoleID,
				Code:           row.Code,
				FirstName:      row.FirstName,
				LastName:       row.LastName,
				EmploymentType: domain.EmploymentType(row.EmploymentType),
				HourlyCost:     row.HourlyCost,
				MaxWeeklyHours: row.MaxWeeklyHours,
				Availabilities: make([]domain.Availability, 0),
				TimeOffs:       make([]domain.TimeOff, 0),
			}
			order = append(order, row.ID)
			availSeen[row.ID] = make(map[int64]bool)
			timeOffSeen[row.ID] = make(map[int64]bool)
		}
		employee := employeesMap[row.ID]

		// 两个 LEFT JOIN 会产生笛卡尔积，需要按 ID 去重
		if row.AvailID.Valid && !availSeen[row.ID][row.AvailID.Int64] {
			availSeen[row.ID][row.AvailID.Int64] = true
			employee.Availabilities = append(employee.Availabilities, domain.Availability{
				ID:        row.AvailID.Int64,
				Weekday:   row.Weekday.Int32,
				StartTime: row.StartTime.String,
				EndTime:   row.EndTime.String,
			})
		}

		if row.TimeOffID.Valid && !timeOffSeen[row.ID][row.TimeOffID.Int64] {
			timeOffSeen[row.ID][row.TimeOffID.Int64] = true
			employee.TimeOffs = append(employee.TimeOffs, domain.TimeOff{
				ID:     row.TimeOffID.Int64,
				Start:  row.TimeOffStart.Time,
				End:    row.TimeOffEnd.Time,
				Reason: row.Reason.String,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	employees := make([]*domain.Employee, 0, len(order))
	for _, id := range order {
		employees = append(employees, employeesMap[id])
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO employees (org_id, role_id, code, first_name, last_name, employment_type, hourly_cost, max_weekly_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	params := []any{e.OrgID, e.RoleID, e.Code, e.FirstName, e.LastName, e.EmploymentType, e.HourlyCost, e.MaxWeeklyHours}
	return r.dbpool.QueryRowContext(ctx, query, params...).Scan(&e.ID)
}

func (r *Repository) CreateAvailability(employeeID int64, a *domain.Availability) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO availabilities (employee_id, weekday, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.dbpool.QueryRowContext(ctx, query, employeeID, a.Weekday, a.StartTime, a.EndTime).Scan(&a.ID)
}

func (r *Repository) CreateTimeOff(employeeID int64, t *domain.TimeOff) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO time_offs (employee_id, start_at, end_at, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.dbpool.QueryRowContext(ctx, query, employeeID, t.Start, t.End, t.Reason).Scan(&t.ID)
}

// GetEmployeeOrgID 用于钉选路径上根据员工反查归属的 org
func (r *Repository) GetEmployeeOrgID(employeeID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT org_id FROM employees WHERE id = $1`

	var orgID int64
	if err := r.dbpool.QueryRowContext(ctx, query, employeeID).Scan(&orgID); err != nil {
		return 0, err
	}

	return orgID, nil
}
