package repository

import (
	"context"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// GetDemandTemplatesByOrgID 返回该 org 所有门店下的需求模板，
// locationID 不为 nil 时额外按门店过滤
func (r *Repository) GetDemandTemplatesByOrgID(orgID int64, locationID *int64) ([]*domain.ShiftDemandTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT t.id, t.location_id, t.role_id, t.weekday, t.start_time, t.end_time, t.required
		FROM shift_demand_templates t
		JOIN locations l ON t.location_id = l.id
		WHERE l.org_id = $1 AND ($2::bigint IS NULL OR t.location_id = $2)
		ORDER BY t.location_id, t.weekday, t.start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, orgID, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]*domain.ShiftDemandTemplate, 0)
	for rows.Next() {
		t := &domain.ShiftDemandTemplate{}
		dst := []any{&t.ID, &t.LocationID, &t.RoleID, &t.Weekday, &t.StartTime, &t.EndTime, &t.Required}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) CreateDemandTemplate(t *domain.ShiftDemandTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO shift_demand_templates (location_id, role_id, weekday, start_time, end_time, required)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	params := []any{t.LocationID, t.RoleID, t.Weekday, t.StartTime, t.EndTime, t.Required}
	return r.dbpool.QueryRowContext(ctx, query, params...).Scan(&t.ID)
}

func (r *Repository) UpdateDemandTemplate(t *domain.ShiftDemandTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE shift_demand_templates
		SET location_id = $1, role_id = $2, weekday = $3, start_time = $4, end_time = $5, required = $6
		WHERE id = $7
		RETURNING id
	`

	params := []any{t.LocationID, t.RoleID, t.Weekday, t.StartTime, t.EndTime, t.Required, t.ID}
	return r.dbpool.QueryRowContext(ctx, query, params...).Scan(&t.ID)
}

func (r *Repository) DeleteDemandTemplate(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `DELETE FROM shift_demand_templates WHERE id = $1`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}
