package admin

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/database"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	adminColumns = `id, name, email, password, branch, is_active, created_at, updated_at`

	listAdminsQuery      = `SELECT ` + adminColumns + ` FROM admins ORDER BY created_at`
	getAdminByIDQuery    = `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	getAdminByEmailQuery = `SELECT ` + adminColumns + ` FROM admins WHERE lower(email) = lower($1)`
	insertAdminQuery     = `
		INSERT INTO admins (id, name, email, password, branch, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Admin, error) {
	rows, err := r.db.QueryContext(ctx, listAdminsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Admin, 0)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (Admin, error) {
	return r.getOne(ctx, getAdminByIDQuery, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (Admin, error) {
	return r.getOne(ctx, getAdminByEmailQuery, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (Admin, error) {
	a, err := scanAdmin(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepository) Create(ctx context.Context, a Admin) (Admin, error) {
	_, err := r.db.ExecContext(ctx, insertAdminQuery,
		a.ID, a.Name, a.Email, a.Password, a.Branch, a.IsActive, a.CreatedAt, a.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return Admin{}, ErrEmailExists
	}
	if err != nil {
		return Admin{}, err
	}
	return a, nil
}

func scanAdmin(row rowScanner) (Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Password, &a.Branch, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
