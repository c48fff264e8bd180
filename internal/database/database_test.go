package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestEnsureSchema_RunsEveryStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.MatchExpectationsInOrder(true)
	for range schema {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEnsureSchema_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS admins").WillReturnError(errors.New("permission denied"))

	if err := EnsureSchema(context.Background(), db); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPgErrorHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: PgErrUniqueViolation, ConstraintName: "products_product_code_key"})
	if !IsUniqueViolation(unique) {
		t.Fatalf("expected unique violation")
	}
	if ConstraintName(unique) != "products_product_code_key" {
		t.Fatalf("unexpected constraint %q", ConstraintName(unique))
	}
	fk := &pgconn.PgError{Code: PgErrForeignKeyViolation}
	if !IsForeignKeyViolation(fk) || IsUniqueViolation(fk) {
		t.Fatalf("unexpected classification for fk violation")
	}
	if IsUniqueViolation(errors.New("plain")) {
		t.Fatalf("plain error is not a pg error")
	}
}
