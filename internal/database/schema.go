package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order on every start; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		branch TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS subcategories (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		category_id UUID NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		product_code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		tags TEXT[] NOT NULL DEFAULT '{}',
		base_price NUMERIC(14,2) NOT NULL,
		profit_margin_percentage NUMERIC(8,2) NOT NULL DEFAULT 0,
		discount_percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
		profit_margin_price NUMERIC(14,2) NOT NULL,
		calculated_original_price NUMERIC(14,2) NOT NULL,
		offer_price NUMERIC(14,2) NOT NULL,
		price NUMERIC(14,2) NOT NULL,
		received_date TIMESTAMPTZ,
		case_quantity TEXT NOT NULL DEFAULT '',
		received_case INT NOT NULL DEFAULT 0,
		total_available_quantity INT NOT NULL DEFAULT 0,
		stock_quantity INT NOT NULL DEFAULT 0,
		max_quantity_per_customer INT,
		category_id UUID NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
		subcategory_id UUID NOT NULL REFERENCES subcategories(id) ON DELETE RESTRICT,
		images JSONB NOT NULL DEFAULT '[]',
		in_stock BOOLEAN NOT NULL DEFAULT TRUE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		best_seller BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// featured was added after the first release; rows created before it
	// are backfilled by `admintool migrate-featured`.
	`ALTER TABLE products ADD COLUMN IF NOT EXISTS featured BOOLEAN DEFAULT FALSE`,
	`CREATE INDEX IF NOT EXISTS products_category_idx ON products (category_id, is_active, name)`,
	`CREATE TABLE IF NOT EXISTS banners (
		id UUID PRIMARY KEY,
		image_url TEXT NOT NULL,
		storage_id TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'landscape',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS price_lists (
		id UUID PRIMARY KEY,
		document_name VARCHAR(100) NOT NULL,
		pdf_url TEXT NOT NULL,
		storage_id TEXT NOT NULL,
		file_size_bytes BIGINT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		uploaded_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// at most one price list row may exist
	`CREATE UNIQUE INDEX IF NOT EXISTS price_lists_singleton ON price_lists ((true))`,
	`CREATE TABLE IF NOT EXISTS quick_shopping_orders (
		admin_id UUID PRIMARY KEY,
		branch TEXT NOT NULL DEFAULT '',
		category_order JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS media_orphans (
		storage_id TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		last_error TEXT NOT NULL DEFAULT '',
		attempts INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (storage_id, resource_type)
	)`,
}

// EnsureSchema creates every table the service needs.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("database: schema statement %d: %w", i, err)
		}
	}
	return nil
}
