package banner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestPostgresRepository_CreateManyRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	banners := []Banner{
		{ID: uuid.New(), ImageURL: "u1", StorageID: "banners/1", Type: Landscape, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), ImageURL: "u2", StorageID: "banners/2", Type: Landscape, CreatedAt: now, UpdatedAt: now},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO banners")
	prep.ExpectExec().WithArgs(banners[0].ID, "u1", "banners/1", "landscape", now, now).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := repo.CreateMany(context.Background(), banners); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_ListByType(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "image_url", "storage_id", "type", "created_at", "updated_at"}).
		AddRow(uuid.NewString(), "u1", "banners/1", "portrait", now, now)
	mock.ExpectQuery("FROM banners WHERE type = \\$1").WithArgs("portrait").WillReturnRows(rows)

	got, err := repo.List(context.Background(), Portrait)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Type != Portrait {
		t.Fatalf("unexpected banners %+v", got)
	}
}

func TestPostgresRepository_DeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	id := uuid.New()
	mock.ExpectExec("DELETE FROM banners").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), id); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
