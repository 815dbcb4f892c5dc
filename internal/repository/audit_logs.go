package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// InsertAuditLog 由 audit worker 调用，把队列里收到的审计事件落库
func (r *Repository) InsertAuditLog(l *domain.AuditLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	meta := l.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO audit_logs (org_id, user_id, entity, entity_id, action, meta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	params := []any{l.OrgID, l.UserID, l.Entity, l.EntityID, l.Action, rawMeta, l.CreatedAt}
	return r.dbpool.QueryRowContext(ctx, query, params...).Scan(&l.ID)
}

func (r *Repository) GetAuditLogsByOrgID(orgID int64, limit int) ([]*domain.AuditLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, org_id, user_id, entity, entity_id, action, meta, created_at
		FROM audit_logs
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.dbpool.QueryContext(ctx, query, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		l := &domain.AuditLog{}
		var rawMeta []byte
		dst := []any{&l.ID, &l.OrgID, &l.UserID, &l.Entity, &l.EntityID, &l.Action, &rawMeta, &l.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawMeta, &l.Meta); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
