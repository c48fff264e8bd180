package media

import (
	"context"
	"database/sql"
)

type PostgresOrphanLog struct {
	db *sql.DB
}

const (
	recordOrphanQuery = `
		INSERT INTO media_orphans (storage_id, resource_type, reason, last_error, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 1, now(), now())
		ON CONFLICT (storage_id, resource_type) DO UPDATE
		SET attempts = media_orphans.attempts + 1,
			last_error = EXCLUDED.last_error,
			updated_at = now()
	`
	listOrphansQuery = `
		SELECT storage_id, resource_type, reason, last_error, attempts, created_at, updated_at
		FROM media_orphans
		ORDER BY created_at, storage_id
		LIMIT $1
	`
	removeOrphanQuery = `DELETE FROM media_orphans WHERE storage_id = $1 AND resource_type = $2`
)

func NewPostgresOrphanLog(db *sql.DB) *PostgresOrphanLog {
	return &PostgresOrphanLog{db: db}
}

func (l *PostgresOrphanLog) Record(ctx context.Context, o Orphan) error {
	_, err := l.db.ExecContext(ctx, recordOrphanQuery, o.StorageID, string(o.ResourceType), o.Reason, o.LastError)
	return err
}

func (l *PostgresOrphanLog) List(ctx context.Context, limit int) ([]Orphan, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx, listOrphansQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Orphan, 0)
	for rows.Next() {
		var (
			o  Orphan
			rt string
		)
		if err := rows.Scan(&o.StorageID, &rt, &o.Reason, &o.LastError, &o.Attempts, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.ResourceType = ResourceType(rt)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (l *PostgresOrphanLog) Remove(ctx context.Context, storageID string, rt ResourceType) error {
	_, err := l.db.ExecContext(ctx, removeOrphanQuery, storageID, string(rt))
	return err
}
