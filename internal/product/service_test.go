package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
	"github.com/wichananm65/catalog-admin-backend/internal/category"
	"github.com/wichananm65/catalog-admin-backend/internal/media"
	"github.com/wichananm65/catalog-admin-backend/internal/pricing"
)

type fixture struct {
	svc   *Service
	repo  Repository
	store *media.MemoryStore
	food  category.Category
	dry   category.Subcategory
	bath  category.Category
}

func newFixture(t *testing.T, repo Repository) *fixture {
	t.Helper()
	now := time.Now()
	food := category.Category{ID: uuid.New(), Name: "Food", CreatedAt: now}
	bath := category.Category{ID: uuid.New(), Name: "Bath", CreatedAt: now}
	dry := category.Subcategory{ID: uuid.New(), Name: "Dry food", CategoryID: food.ID}
	sand := category.Subcategory{ID: uuid.New(), Name: "Sand", CategoryID: bath.ID}
	cats := category.NewService(category.NewInMemoryRepository([]category.Category{food, bath}, []category.Subcategory{dry, sand}))

	if repo == nil {
		repo = NewInMemoryRepository(nil)
	}
	store := media.NewMemoryStore()
	janitor := media.NewJanitor(store, media.NewMemoryOrphanLog(), zap.NewNop())
	return &fixture{
		svc:   NewService(repo, cats, janitor, zap.NewNop()),
		repo:  repo,
		store: store,
		food:  food,
		dry:   dry,
		bath:  bath,
	}
}

func (f *fixture) input(code string) Input {
	return Input{
		ProductCode:            code,
		Name:                   "Salmon kibble",
		Tags:                   []string{"cat", " dry ", "cat"},
		BasePrice:              100,
		ProfitMarginPercentage: 65,
		DiscountPercentage:     81,
		CaseQuantity:           "12 x 500g",
		ReceivedCase:           3,
		CategoryID:             f.food.ID.String(),
		SubcategoryID:          f.dry.ID.String(),
	}
}

func pngs(n int) []media.File {
	out := make([]media.File, n)
	for i := range out {
		out[i] = media.BytesFile("photo.png", "image/png", []byte("\x89PNG"))
	}
	return out
}

func TestCreate_DerivesPricingAndInventory(t *testing.T) {
	f := newFixture(t, nil)

	p, err := f.svc.Create(context.Background(), f.input(" sk01 "), pngs(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ProductCode != "SK01" {
		t.Fatalf("expected upper-cased code, got %q", p.ProductCode)
	}
	if p.ProfitMarginPrice != 165 || p.CalculatedOriginalPrice != 868.42 || p.OfferPrice != 165 {
		t.Fatalf("unexpected prices %+v", p.PricingResult())
	}
	if p.Price != p.CalculatedOriginalPrice {
		t.Fatalf("price should mirror the calculated original price")
	}
	if p.TotalAvailableQuantity != 36 || p.StockQuantity != 36 {
		t.Fatalf("expected 36 units, got total=%d stock=%d", p.TotalAvailableQuantity, p.StockQuantity)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "cat" || p.Tags[1] != "dry" {
		t.Fatalf("unexpected tags %v", p.Tags)
	}
	if len(p.Images) != 2 || !f.store.Has(p.Images[0].StorageID) {
		t.Fatalf("expected 2 stored images, got %+v", p.Images)
	}
	if !p.InStock || !p.IsActive {
		t.Fatalf("new products default to in stock and active")
	}
}

func TestCreate_StoresPricesAtCentPrecision(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	in := f.input("SK02")
	in.BasePrice, in.ProfitMarginPercentage, in.DiscountPercentage = 1000, 33.335, 10.005
	p, err := f.svc.Create(ctx, in, pngs(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ProfitMarginPercentage != 33.34 || p.DiscountPercentage != 10.01 {
		t.Fatalf("expected inputs rounded to cents, got margin=%v discount=%v", p.ProfitMarginPercentage, p.DiscountPercentage)
	}
	if p.ProfitMarginPrice != 1333.4 || p.CalculatedOriginalPrice != 1481.72 {
		t.Fatalf("unexpected prices %+v", p.PricingResult())
	}
	if err := pricing.Verify(p.PricingInput(), p.PricingResult()); err != nil {
		t.Fatalf("stored tuple must verify: %v", err)
	}

	edge := f.input("SK03")
	edge.BasePrice, edge.ProfitMarginPercentage, edge.DiscountPercentage = 1000, 33.335, 99.999
	if _, err := f.svc.Create(ctx, edge, pngs(1)); !apperr.IsDomain(err) {
		t.Fatalf("expected domain error for discount rounding to 100, got %v", err)
	}
	tiny := f.input("SK04")
	tiny.BasePrice = 0.004
	if _, err := f.svc.Create(ctx, tiny, pngs(1)); !apperr.IsDomain(err) {
		t.Fatalf("expected domain error for base rounding to 0, got %v", err)
	}
	if f.store.Len() != 1 {
		t.Fatalf("rejected products must not leave images behind, store has %d", f.store.Len())
	}
}

func TestCreate_DuplicateCodeIsConflict(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.input("SK01"), pngs(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := f.svc.Create(ctx, f.input("sk01"), pngs(1))
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if f.store.Len() != 1 {
		t.Fatalf("rejected product must not leave images behind, store has %d", f.store.Len())
	}
}

func TestCreate_RejectsBadInput(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	bad := f.input("SK-01")
	if _, err := f.svc.Create(ctx, bad, pngs(1)); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for non alphanumeric code, got %v", err)
	}

	if _, err := f.svc.Create(ctx, f.input("SK01"), nil); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error without images, got %v", err)
	}
	if _, err := f.svc.Create(ctx, f.input("SK01"), pngs(4)); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for 4 images, got %v", err)
	}

	both := f.input("SK01")
	both.Featured, both.BestSeller = true, true
	if _, err := f.svc.Create(ctx, both, pngs(1)); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for featured best seller, got %v", err)
	}

	full := f.input("SK01")
	full.DiscountPercentage = 100
	if _, err := f.svc.Create(ctx, full, pngs(1)); !apperr.IsDomain(err) {
		t.Fatalf("expected domain error for 100%% discount, got %v", err)
	}

	wrongSub := f.input("SK01")
	wrongSub.CategoryID = f.bath.ID.String()
	if _, err := f.svc.Create(ctx, wrongSub, pngs(1)); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for mismatched subcategory, got %v", err)
	}

	missing := f.input("SK01")
	missing.CategoryID = uuid.NewString()
	if _, err := f.svc.Create(ctx, missing, pngs(1)); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for unknown category, got %v", err)
	}

	if f.store.Len() != 0 {
		t.Fatalf("no image should be uploaded for rejected input")
	}
}

func TestCreate_PartialUploadFailureDiscardsImages(t *testing.T) {
	f := newFixture(t, nil)
	f.store.FailUploadsAfter(2, errors.New("quota"))

	_, err := f.svc.Create(context.Background(), f.input("SK01"), pngs(3))
	if !apperr.IsDependency(err) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if f.store.Len() != 0 {
		t.Fatalf("uploaded images should be discarded, %d remain", f.store.Len())
	}
	if n, _ := f.repo.Count(context.Background(), Filter{}); n != 0 {
		t.Fatalf("no product should be saved")
	}
}

type failingCreateRepo struct {
	*InMemoryRepository
}

func (failingCreateRepo) Create(ctx context.Context, p Product) (Product, error) {
	return Product{}, errors.New("connection reset")
}

func TestCreate_PersistFailureDiscardsImages(t *testing.T) {
	f := newFixture(t, failingCreateRepo{NewInMemoryRepository(nil)})

	if _, err := f.svc.Create(context.Background(), f.input("SK01"), pngs(2)); err == nil {
		t.Fatalf("expected error")
	}
	if f.store.Len() != 0 {
		t.Fatalf("images of an unsaved product should be discarded")
	}
	if len(f.store.Deleted()) != 2 {
		t.Fatalf("expected 2 deletes, got %v", f.store.Deleted())
	}
}

func TestUpdate_RecomputesAndReplacesImages(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.input("SK01"), pngs(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	old := p.Images[0].StorageID

	in := f.input("SK02")
	in.BasePrice = 200
	in.ReceivedCase = 0
	stock := 5
	in.StockQuantity = &stock
	updated, err := f.svc.Update(ctx, p.ID, in, pngs(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ProfitMarginPrice != 330 || updated.CalculatedOriginalPrice != 1736.84 {
		t.Fatalf("pricing not recomputed: %+v", updated.PricingResult())
	}
	if updated.TotalAvailableQuantity != 0 || updated.StockQuantity != 5 {
		t.Fatalf("unexpected inventory total=%d stock=%d", updated.TotalAvailableQuantity, updated.StockQuantity)
	}
	if updated.ProductCode != "SK02" || !updated.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if f.store.Has(old) || len(updated.Images) != 2 {
		t.Fatalf("old image should be replaced")
	}
}

func TestUpdate_KeepsImagesAndOwnCode(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	p, _ := f.svc.Create(ctx, f.input("SK01"), pngs(1))
	other, _ := f.svc.Create(ctx, f.input("SK02"), pngs(1))

	updated, err := f.svc.Update(ctx, p.ID, f.input("sk01"), nil)
	if err != nil {
		t.Fatalf("keeping the same code must be allowed: %v", err)
	}
	if len(updated.Images) != 1 || updated.Images[0] != p.Images[0] {
		t.Fatalf("images should be kept when none are sent")
	}

	if _, err := f.svc.Update(ctx, other.ID, f.input("SK01"), nil); !apperr.IsConflict(err) {
		t.Fatalf("expected conflict when taking another product's code, got %v", err)
	}
	if _, err := f.svc.Update(ctx, uuid.New(), f.input("SK09"), nil); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestToggleFlagsAreExclusive(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	in := f.input("SK01")
	in.BestSeller = true
	p, err := f.svc.Create(ctx, in, pngs(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err = f.svc.ToggleFeatured(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Featured || p.BestSeller {
		t.Fatalf("featuring should clear best seller: %+v", p)
	}

	p, _ = f.svc.ToggleBestSeller(ctx, p.ID)
	if p.Featured || !p.BestSeller {
		t.Fatalf("best seller should clear featured: %+v", p)
	}

	p, _ = f.svc.ToggleBestSeller(ctx, p.ID)
	if p.Featured || p.BestSeller {
		t.Fatalf("toggling off should leave both false: %+v", p)
	}
}

func TestDelete_DiscardsImages(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	p, _ := f.svc.Create(ctx, f.input("SK01"), pngs(2))
	if err := f.svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.store.Len() != 0 {
		t.Fatalf("images should be deleted with the product")
	}
	if _, err := f.svc.GetByID(ctx, p.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := f.svc.Delete(ctx, p.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestStatsAndCounts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a := f.input("A1")
	a.Featured = true
	b := f.input("B1")
	b.BestSeller = true
	c := f.input("C1")
	no := false
	c.InStock = &no
	for _, in := range []Input{a, b, c} {
		if _, err := f.svc.Create(ctx, in, pngs(1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	stats, err := f.svc.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := DashboardStats{TotalProducts: 3, BestSellers: 1, Featured: 1, OutOfStock: 1}
	if stats != want {
		t.Fatalf("expected %+v got %+v", want, stats)
	}

	counts, err := f.svc.CountsByCategory(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counts) != 2 || counts[0].CategoryName != "Bath" || counts[0].Count != 0 || counts[1].Count != 3 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func TestListFiltersAndPages(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, code := range []string{"A1", "B1", "C1"} {
		at := base.Add(time.Duration(i) * time.Hour)
		f.svc.now = func() time.Time { return at }
		in := f.input(code)
		in.Name = code + " kibble"
		if code == "B1" {
			in.Tags = []string{"dog"}
		}
		if _, err := f.svc.Create(ctx, in, pngs(1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page, err := f.svc.List(ctx, Filter{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 3 || page.Pages != 2 || len(page.Products) != 2 || page.Products[0].ProductCode != "C1" {
		t.Fatalf("unexpected page %+v", page)
	}

	page, _ = f.svc.List(ctx, Filter{Tag: "dog"})
	if page.Total != 1 || page.Products[0].ProductCode != "B1" {
		t.Fatalf("unexpected tag filter result %+v", page)
	}

	page, _ = f.svc.List(ctx, Filter{Search: "A1 KIB"})
	if page.Total != 1 || page.Products[0].ProductCode != "A1" {
		t.Fatalf("unexpected search result %+v", page)
	}

	active, _ := f.svc.ListActiveByCategory(ctx, f.food.ID)
	if len(active) != 3 || active[0].Name != "A1 kibble" {
		t.Fatalf("expected name order, got %+v", active)
	}
}

func TestCodeAvailable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	if _, err := f.svc.Create(ctx, f.input("SK01"), pngs(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	code, ok, err := f.svc.CodeAvailable(ctx, "sk01")
	if err != nil || ok || code != "SK01" {
		t.Fatalf("expected SK01 taken, got %q %v %v", code, ok, err)
	}
	if _, ok, _ := f.svc.CodeAvailable(ctx, "SK02"); !ok {
		t.Fatalf("expected SK02 available")
	}
	if _, _, err := f.svc.CodeAvailable(ctx, "SK 02"); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
