package pricelist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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
	selectPriceListQuery = `
		SELECT p.id, p.document_name, p.pdf_url, p.storage_id, p.file_size_bytes, p.is_active,
			p.uploaded_by, a.name, a.email, p.created_at, p.updated_at
		FROM price_lists p
		LEFT JOIN admins a ON a.id = p.uploaded_by`
	insertPriceListQuery = `
		INSERT INTO price_lists (id, document_name, pdf_url, storage_id, file_size_bytes, is_active, uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	updatePriceListQuery = `
		UPDATE price_lists
		SET document_name = $1,
			pdf_url = $2,
			storage_id = $3,
			file_size_bytes = $4,
			is_active = $5,
			updated_at = $6
		WHERE id = $7
	`
	deletePriceListQuery = `DELETE FROM price_lists WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func where(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		conds = append(conds, fmt.Sprintf("p.is_active = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		conds = append(conds, fmt.Sprintf(`p.document_name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]PriceList, error) {
	clause, args := where(f)
	q := selectPriceListQuery + clause + ` ORDER BY p.created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.offset())
		q += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PriceList, 0)
	for rows.Next() {
		p, err := scanPriceList(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Count(ctx context.Context, f Filter) (int, error) {
	clause, args := where(f)
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM price_lists p`+clause, args...).Scan(&n)
	return n, err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (PriceList, error) {
	p, err := scanPriceList(r.db.QueryRowContext(ctx, selectPriceListQuery+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return PriceList{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) Create(ctx context.Context, p PriceList) error {
	var uploadedBy uuid.NullUUID
	if p.UploadedBy != nil {
		uploadedBy = uuid.NullUUID{UUID: p.UploadedBy.ID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, insertPriceListQuery,
		p.ID, p.DocumentName, p.PDFURL, p.StorageID, p.FileSizeBytes, p.IsActive, uploadedBy, p.CreatedAt, p.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return ErrExists
	}
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, p PriceList) error {
	res, err := r.db.ExecContext(ctx, updatePriceListQuery,
		p.DocumentName, p.PDFURL, p.StorageID, p.FileSizeBytes, p.IsActive, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deletePriceListQuery, id)
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

func scanPriceList(row rowScanner) (PriceList, error) {
	var (
		p           PriceList
		uploadedBy  uuid.NullUUID
		name, email sql.NullString
	)
	err := row.Scan(&p.ID, &p.DocumentName, &p.PDFURL, &p.StorageID, &p.FileSizeBytes, &p.IsActive,
		&uploadedBy, &name, &email, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return PriceList{}, err
	}
	if uploadedBy.Valid {
		p.UploadedBy = &Uploader{ID: uploadedBy.UUID, Name: name.String, Email: email.String}
	}
	return p, nil
}
