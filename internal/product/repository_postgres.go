package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
	"github.com/wichananm65/catalog-admin-backend/internal/database"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	productColumns = `id, product_code, name, description, tags,
		base_price, profit_margin_percentage, discount_percentage,
		profit_margin_price, calculated_original_price, offer_price, price,
		received_date, case_quantity, received_case, total_available_quantity, stock_quantity, max_quantity_per_customer,
		category_id, subcategory_id, images,
		in_stock, is_active, best_seller, featured,
		created_at, updated_at`

	getProductByIDQuery   = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	getProductsByIDsQuery = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])`
	codeExistsQuery       = `SELECT EXISTS (SELECT 1 FROM products WHERE product_code = $1 AND id <> $2)`
	insertProductQuery    = `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
	`
	updateProductQuery = `
		UPDATE products
		SET product_code = $1,
			name = $2,
			description = $3,
			tags = $4,
			base_price = $5,
			profit_margin_percentage = $6,
			discount_percentage = $7,
			profit_margin_price = $8,
			calculated_original_price = $9,
			offer_price = $10,
			price = $11,
			received_date = $12,
			case_quantity = $13,
			received_case = $14,
			total_available_quantity = $15,
			stock_quantity = $16,
			max_quantity_per_customer = $17,
			category_id = $18,
			subcategory_id = $19,
			images = $20,
			in_stock = $21,
			is_active = $22,
			best_seller = $23,
			featured = $24,
			updated_at = $25
		WHERE id = $26
		RETURNING created_at
	`
	setFlagsQuery = `
		UPDATE products
		SET featured = $1,
			best_seller = $2,
			updated_at = $3
		WHERE id = $4
		RETURNING ` + productColumns
	deleteProductQuery    = `DELETE FROM products WHERE id = $1`
	countByCategoryQuery  = `SELECT category_id, count(*) FROM products GROUP BY category_id`
	backfillFeaturedQuery = `UPDATE products SET featured = FALSE WHERE featured IS NULL`

	likeEscape            = `\`
	productCodeConstraint = "products_product_code_key"
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// where builds the WHERE clause for f. Arguments start at $1.
func where(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.CategoryID != nil {
		add("category_id = $%d", *f.CategoryID)
	}
	if f.SubcategoryID != nil {
		add("subcategory_id = $%d", *f.SubcategoryID)
	}
	if f.BestSeller != nil {
		add("best_seller = $%d", *f.BestSeller)
	}
	if f.Featured != nil {
		add("COALESCE(featured, FALSE) = $%d", *f.Featured)
	}
	if f.IsActive != nil {
		add("is_active = $%d", *f.IsActive)
	}
	if f.InStock != nil {
		add("in_stock = $%d", *f.InStock)
	}
	if f.Tag != "" {
		add("$%d = ANY(tags)", f.Tag)
	}
	if f.Search != "" {
		add(`name ILIKE $%d ESCAPE '\'`, "%"+escapeLike(f.Search)+"%")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	clause, args := where(f)
	q := `SELECT ` + productColumns + ` FROM products` + clause
	if f.SortByName {
		q += ` ORDER BY name, id`
	} else {
		q += ` ORDER BY created_at DESC, id`
	}
	if f.Limit > 0 {
		args = append(args, f.Limit, f.offset())
		q += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}
	return r.query(ctx, q, args...)
}

func (r *PostgresRepository) Count(ctx context.Context, f Filter) (int, error) {
	clause, args := where(f)
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM products`+clause, args...).Scan(&n)
	return n, err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return r.query(ctx, getProductsByIDsQuery, pq.Array(strs))
}

func (r *PostgresRepository) query(ctx context.Context, q string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CodeExists(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, codeExistsQuery, code, excludeID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return Product{}, err
	}
	_, err = r.db.ExecContext(ctx, insertProductQuery,
		p.ID, p.ProductCode, p.Name, p.Description, pq.Array(p.Tags),
		money(p.BasePrice), money(p.ProfitMarginPercentage), money(p.DiscountPercentage),
		money(p.ProfitMarginPrice), money(p.CalculatedOriginalPrice), money(p.OfferPrice), money(p.Price),
		nullTime(p.ReceivedDate), p.CaseQuantity, p.ReceivedCase, p.TotalAvailableQuantity, p.StockQuantity, nullInt(p.MaxQuantityPerCustomer),
		p.CategoryID, p.SubcategoryID, string(images),
		p.InStock, p.IsActive, p.BestSeller, p.Featured,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return Product{}, mapWriteError(err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p Product) (Product, error) {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return Product{}, err
	}
	err = r.db.QueryRowContext(ctx, updateProductQuery,
		p.ProductCode, p.Name, p.Description, pq.Array(p.Tags),
		money(p.BasePrice), money(p.ProfitMarginPercentage), money(p.DiscountPercentage),
		money(p.ProfitMarginPrice), money(p.CalculatedOriginalPrice), money(p.OfferPrice), money(p.Price),
		nullTime(p.ReceivedDate), p.CaseQuantity, p.ReceivedCase, p.TotalAvailableQuantity, p.StockQuantity, nullInt(p.MaxQuantityPerCustomer),
		p.CategoryID, p.SubcategoryID, string(images),
		p.InStock, p.IsActive, p.BestSeller, p.Featured,
		p.UpdatedAt, p.ID,
	).Scan(&p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, mapWriteError(err)
	}
	return p, nil
}

func (r *PostgresRepository) SetFlags(ctx context.Context, id uuid.UUID, featured, bestSeller bool, at time.Time) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, setFlagsQuery, featured, bestSeller, at, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CountByCategory(ctx context.Context) (map[uuid.UUID]int, error) {
	rows, err := r.db.QueryContext(ctx, countByCategoryQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			id uuid.UUID
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

func (r *PostgresRepository) BackfillFeatured(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, backfillFeaturedQuery)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func mapWriteError(err error) error {
	switch {
	case database.IsUniqueViolation(err) && database.ConstraintName(err) == productCodeConstraint:
		return ErrCodeExists
	case database.IsUniqueViolation(err):
		return apperr.Conflict("Product already exists")
	case database.IsForeignKeyViolation(err):
		return apperr.NotFound("Category or subcategory not found")
	}
	return err
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p                               Product
		base, margin, discount          decimal.Decimal
		pmPrice, original, offer, price decimal.Decimal
		receivedDate                    sql.NullTime
		maxQty                          sql.NullInt64
		featured                        sql.NullBool
		images                          []byte
	)
	err := row.Scan(
		&p.ID, &p.ProductCode, &p.Name, &p.Description, pq.Array(&p.Tags),
		&base, &margin, &discount,
		&pmPrice, &original, &offer, &price,
		&receivedDate, &p.CaseQuantity, &p.ReceivedCase, &p.TotalAvailableQuantity, &p.StockQuantity, &maxQty,
		&p.CategoryID, &p.SubcategoryID, &images,
		&p.InStock, &p.IsActive, &p.BestSeller, &featured,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Product{}, err
	}

	p.BasePrice = base.InexactFloat64()
	p.ProfitMarginPercentage = margin.InexactFloat64()
	p.DiscountPercentage = discount.InexactFloat64()
	p.ProfitMarginPrice = pmPrice.InexactFloat64()
	p.CalculatedOriginalPrice = original.InexactFloat64()
	p.OfferPrice = offer.InexactFloat64()
	p.Price = price.InexactFloat64()
	if receivedDate.Valid {
		t := receivedDate.Time
		p.ReceivedDate = &t
	}
	if maxQty.Valid {
		v := int(maxQty.Int64)
		p.MaxQuantityPerCustomer = &v
	}
	p.Featured = featured.Valid && featured.Bool
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Images = []Image{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return Product{}, fmt.Errorf("product %s: images: %w", p.ID, err)
		}
	}
	return p, nil
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
