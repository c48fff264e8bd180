package quickshopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PostgresRepository keeps arrangements in quick_shopping_orders, one row per admin.
type PostgresRepository struct {
	db *sql.DB
}

const (
	getOrderQuery = `
		SELECT admin_id, branch, category_order, created_at, updated_at
		FROM quick_shopping_orders
		WHERE admin_id = $1
	`
	// xmax is 0 only for a freshly inserted row
	upsertOrderQuery = `
		INSERT INTO quick_shopping_orders (admin_id, branch, category_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (admin_id) DO UPDATE
		SET branch = EXCLUDED.branch,
			category_order = EXCLUDED.category_order,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at, (xmax = 0) AS inserted
	`
	deleteOrderQuery = `DELETE FROM quick_shopping_orders WHERE admin_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, adminID uuid.UUID) (Record, bool, error) {
	var (
		rec Record
		raw []byte
	)
	err := r.db.QueryRowContext(ctx, getOrderQuery, adminID).
		Scan(&rec.AdminID, &rec.Branch, &raw, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	if err := json.Unmarshal(raw, &rec.CategoryOrder); err != nil {
		return Record{}, false, fmt.Errorf("quick shopping order %s: %w", adminID, err)
	}
	return rec, true, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, rec Record) (Record, bool, error) {
	raw, err := json.Marshal(rec.CategoryOrder)
	if err != nil {
		return Record{}, false, err
	}
	var inserted bool
	err = r.db.QueryRowContext(ctx, upsertOrderQuery, rec.AdminID, rec.Branch, string(raw), rec.UpdatedAt).
		Scan(&rec.CreatedAt, &rec.UpdatedAt, &inserted)
	if err != nil {
		return Record{}, false, err
	}
	return rec, !inserted, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, adminID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteOrderQuery, adminID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
