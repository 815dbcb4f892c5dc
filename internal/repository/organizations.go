package repository

import (
	"context"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// ResolveOrgRef 把一个 org 引用（数字 ID 或 slug）解析成规范的 org ID，
// 查不到时返回 sql.ErrNoRows
func (r *Repository) ResolveOrgRef(ref string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT id FROM organizations WHERE id::text = $1 OR slug = $1`

	var id int64
	if err := r.dbpool.QueryRowContext(ctx, query, ref).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *Repository) GetAllOrganizations() ([]*domain.Organization, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, slug, timezone, created_at
		FROM organizations
		ORDER BY created_at DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := make([]*domain.Organization, 0)
	for rows.Next() {
		org := &domain.Organization{}
		if err := rows.Scan(&org.ID, &org.Name, &org.Slug, &org.Timezone, &org.CreatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orgs, nil
}

func (r *Repository) GetOrganizationByID(id int64) (*domain.Organization, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT id, name, slug, timezone, created_at FROM organizations WHERE id = $1`

	org := &domain.Organization{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&org.ID, &org.Name, &org.Slug, &org.Timezone, &org.CreatedAt); err != nil {
		return nil, err
	}

	return org, nil
}

func (r *Repository) CreateOrganization(org *domain.Organization) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO organizations (name, slug, timezone)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	return r.dbpool.QueryRowContext(ctx, query, org.Name, org.Slug, org.Timezone).Scan(&org.ID, &org.CreatedAt)
}

func (r *Repository) CreateLocation(loc *domain.Location) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO locations (org_id, name)
		VALUES ($1, $2)
		RETURNING id
	`

	return r.dbpool.QueryRowContext(ctx, query, loc.OrgID, loc.Name).Scan(&loc.ID)
}

func (r *Repository) CreateRole(role *domain.Role) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO roles (org_id, name)
		VALUES ($1, $2)
		RETURNING id
	`

	return r.dbpool.QueryRowContext(ctx, query, role.OrgID, role.Name).Scan(&role.ID)
}

func (r *Repository) GetLocationsByOrgID(orgID int64) ([]*domain.Location, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT id, org_id, name FROM locations WHERE org_id = $1 ORDER BY id`

	rows, err := r.dbpool.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locs := make([]*domain.Location, 0)
	for rows.Next() {
		loc := &domain.Location{}
		if err := rows.Scan(&loc.ID, &loc.OrgID, &loc.Name); err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return locs, nil
}
