package banner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	bannerColumns = `id, image_url, storage_id, type, created_at, updated_at`

	listBannersQuery   = `SELECT ` + bannerColumns + ` FROM banners ORDER BY created_at DESC, id`
	listByTypeQuery    = `SELECT ` + bannerColumns + ` FROM banners WHERE type = $1 ORDER BY created_at DESC, id`
	getBannerByIDQuery = `SELECT ` + bannerColumns + ` FROM banners WHERE id = $1`
	insertBannerQuery  = `INSERT INTO banners (` + bannerColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	updateBannerQuery  = `UPDATE banners SET image_url = $1, storage_id = $2, type = $3, updated_at = $4 WHERE id = $5`
	deleteBannerQuery  = `DELETE FROM banners WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, t Type) ([]Banner, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if t == "" {
		rows, err = r.db.QueryContext(ctx, listBannersQuery)
	} else {
		rows, err = r.db.QueryContext(ctx, listByTypeQuery, string(t))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Banner, 0)
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (Banner, error) {
	b, err := scanBanner(r.db.QueryRowContext(ctx, getBannerByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Banner{}, ErrNotFound
	}
	return b, err
}

func (r *PostgresRepository) CreateMany(ctx context.Context, banners []Banner) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertBannerQuery)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range banners {
		if _, err := stmt.ExecContext(ctx, b.ID, b.ImageURL, b.StorageID, string(b.Type), b.CreatedAt, b.UpdatedAt); err != nil {
			return fmt.Errorf("insert banner %s: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

func (r *PostgresRepository) Update(ctx context.Context, b Banner) error {
	res, err := r.db.ExecContext(ctx, updateBannerQuery, b.ImageURL, b.StorageID, string(b.Type), b.UpdatedAt, b.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteBannerQuery, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBanner(row rowScanner) (Banner, error) {
	var (
		b Banner
		t string
	)
	if err := row.Scan(&b.ID, &b.ImageURL, &b.StorageID, &t, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return Banner{}, err
	}
	b.Type = Type(t)
	return b, nil
}
