package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// GetPresetByOrgID 查不到时返回 sql.ErrNoRows，由上层决定是否退回默认权重
func (r *Repository) GetPresetByOrgID(orgID int64) (*domain.ConstraintPreset, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT id, org_id, name, config FROM constraint_presets WHERE org_id = $1`

	preset := &domain.ConstraintPreset{}
	var rawConfig []byte
	if err := r.dbpool.QueryRowContext(ctx, query, orgID).Scan(&preset.ID, &preset.OrgID, &preset.Name, &rawConfig); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rawConfig, &preset.Config); err != nil {
		return nil, err
	}

	return preset, nil
}

// UpsertPreset 依赖 org_id 上的唯一约束来保证每个 org 至多一个 preset
func (r *Repository) UpsertPreset(preset *domain.ConstraintPreset) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rawConfig, err := json.Marshal(preset.Config)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO constraint_presets (org_id, name, config)
		VALUES ($1, $2, $3)
		ON CONFLICT (org_id) DO UPDATE SET name = EXCLUDED.name, config = EXCLUDED.config
		RETURNING id
	`

	return r.dbpool.QueryRowContext(ctx, query, preset.OrgID, preset.Name, rawConfig).Scan(&preset.ID)
}
