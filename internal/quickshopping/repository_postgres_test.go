package quickshopping

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestPostgresRepository_UpsertReportsUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	adminID, catID := uuid.New(), uuid.New()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rec := Record{AdminID: adminID, Branch: "Bangkok", CategoryOrder: Arrangement{{CategoryID: catID, Products: []ProductRef{}}}, UpdatedAt: now}

	mock.ExpectQuery("ON CONFLICT \\(admin_id\\) DO UPDATE").
		WithArgs(adminID, "Bangkok", `[{"categoryId":"`+catID.String()+`","products":[]}]`, now).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at", "inserted"}).AddRow(created, now, false))

	got, isUpdate, err := repo.Upsert(context.Background(), rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isUpdate || !got.CreatedAt.Equal(created) {
		t.Fatalf("expected update keeping created_at, got %v %+v", isUpdate, got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_GetMissingAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	adminID := uuid.New()
	mock.ExpectQuery("FROM quick_shopping_orders").WithArgs(adminID).
		WillReturnRows(sqlmock.NewRows([]string{"admin_id", "branch", "category_order", "created_at", "updated_at"}))
	mock.ExpectExec("DELETE FROM quick_shopping_orders").WithArgs(adminID).WillReturnResult(sqlmock.NewResult(0, 0))

	if _, ok, err := repo.Get(context.Background(), adminID); ok || err != nil {
		t.Fatalf("expected no arrangement, got ok=%v err=%v", ok, err)
	}
	if deleted, err := repo.Delete(context.Background(), adminID); deleted || err != nil {
		t.Fatalf("expected nothing deleted, got %v %v", deleted, err)
	}
}

func TestPostgresRepository_GetDecodesOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	adminID, catID, prodID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	raw := `[{"categoryId":"` + catID.String() + `","products":[{"productId":"` + prodID.String() + `"}]}]`
	mock.ExpectQuery("FROM quick_shopping_orders").WithArgs(adminID).
		WillReturnRows(sqlmock.NewRows([]string{"admin_id", "branch", "category_order", "created_at", "updated_at"}).
			AddRow(adminID.String(), "Bangkok", []byte(raw), now, now))

	rec, ok, err := repo.Get(context.Background(), adminID)
	if err != nil || !ok {
		t.Fatalf("expected arrangement, got ok=%v err=%v", ok, err)
	}
	if len(rec.CategoryOrder) != 1 || rec.CategoryOrder[0].Products[0].ProductID != prodID {
		t.Fatalf("unexpected order %+v", rec.CategoryOrder)
	}
}
