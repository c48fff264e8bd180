package category

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wichananm65/catalog-admin-backend/internal/database"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	listCategoriesQuery     = `SELECT id, name, created_at, updated_at FROM categories ORDER BY name, id`
	getCategoryByIDQuery    = `SELECT id, name, created_at, updated_at FROM categories WHERE id = $1`
	getCategoriesByIDsQuery = `SELECT id, name, created_at, updated_at FROM categories WHERE id = ANY($1::uuid[]) ORDER BY name, id`
	insertCategoryQuery     = `INSERT INTO categories (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`
	updateCategoryQuery     = `
		UPDATE categories
		SET name = $1,
			updated_at = $2
		WHERE id = $3
		RETURNING created_at
	`
	deleteCategoryQuery = `DELETE FROM categories WHERE id = $1`

	subcategoryColumns      = `id, name, category_id, created_at, updated_at`
	listSubcategoriesQuery  = `SELECT ` + subcategoryColumns + ` FROM subcategories WHERE ($1::uuid IS NULL OR category_id = $1) ORDER BY name, id`
	getSubcategoryByIDQuery = `SELECT ` + subcategoryColumns + ` FROM subcategories WHERE id = $1`
	insertSubcategoryQuery  = `INSERT INTO subcategories (id, name, category_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	updateSubcategoryQuery  = `
		UPDATE subcategories
		SET name = $1,
			category_id = $2,
			updated_at = $3
		WHERE id = $4
		RETURNING created_at
	`
	deleteSubcategoryQuery = `DELETE FROM subcategories WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Category, error) {
	return r.queryCategories(ctx, listCategoriesQuery)
}

func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Category, error) {
	if len(ids) == 0 {
		return []Category{}, nil
	}
	return r.queryCategories(ctx, getCategoriesByIDsQuery, pq.Array(uuidStrings(ids)))
}

func (r *PostgresRepository) queryCategories(ctx context.Context, query string, args ...any) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx, getCategoryByIDQuery, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepository) Create(ctx context.Context, c Category) (Category, error) {
	if _, err := r.db.ExecContext(ctx, insertCategoryQuery, c.ID, c.Name, c.CreatedAt, c.UpdatedAt); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c Category) (Category, error) {
	err := r.db.QueryRowContext(ctx, updateCategoryQuery, c.Name, c.UpdatedAt, c.ID).Scan(&c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return execDelete(ctx, r.db, deleteCategoryQuery, id, ErrNotFound, ErrInUse)
}

func (r *PostgresRepository) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]Subcategory, error) {
	var arg any
	if categoryID != nil {
		arg = *categoryID
	}
	rows, err := r.db.QueryContext(ctx, listSubcategoriesQuery, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Subcategory, 0)
	for rows.Next() {
		s, err := scanSubcategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetSubcategory(ctx context.Context, id uuid.UUID) (Subcategory, error) {
	s, err := scanSubcategory(r.db.QueryRowContext(ctx, getSubcategoryByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Subcategory{}, ErrSubcategoryNotFound
	}
	return s, err
}

func (r *PostgresRepository) CreateSubcategory(ctx context.Context, s Subcategory) (Subcategory, error) {
	_, err := r.db.ExecContext(ctx, insertSubcategoryQuery, s.ID, s.Name, s.CategoryID, s.CreatedAt, s.UpdatedAt)
	if database.IsForeignKeyViolation(err) {
		return Subcategory{}, ErrNotFound
	}
	if err != nil {
		return Subcategory{}, err
	}
	return s, nil
}

func (r *PostgresRepository) UpdateSubcategory(ctx context.Context, s Subcategory) (Subcategory, error) {
	err := r.db.QueryRowContext(ctx, updateSubcategoryQuery, s.Name, s.CategoryID, s.UpdatedAt, s.ID).Scan(&s.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Subcategory{}, ErrSubcategoryNotFound
	case database.IsForeignKeyViolation(err):
		return Subcategory{}, ErrNotFound
	case err != nil:
		return Subcategory{}, err
	}
	return s, nil
}

func (r *PostgresRepository) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	return execDelete(ctx, r.db, deleteSubcategoryQuery, id, ErrSubcategoryNotFound, ErrSubcategoryInUse)
}

func execDelete(ctx context.Context, db *sql.DB, query string, id uuid.UUID, notFound, inUse error) error {
	res, err := db.ExecContext(ctx, query, id)
	if database.IsForeignKeyViolation(err) {
		return inUse
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func scanSubcategory(row rowScanner) (Subcategory, error) {
	var s Subcategory
	err := row.Scan(&s.ID, &s.Name, &s.CategoryID, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
