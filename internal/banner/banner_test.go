package banner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
	"github.com/wichananm65/catalog-admin-backend/internal/logger"
	"github.com/wichananm65/catalog-admin-backend/internal/media"
)

func newService(repo Repository) (*Service, *media.MemoryStore) {
	store := media.NewMemoryStore()
	janitor := media.NewJanitor(store, media.NewMemoryOrphanLog(), zap.NewNop())
	return NewService(repo, janitor, zap.NewNop()), store
}

func images(n int) []media.File {
	out := make([]media.File, n)
	for i := range out {
		out[i] = media.BytesFile("banner.jpg", "image/jpeg", []byte("jpeg"))
	}
	return out
}

func TestUpload_SavesEveryBanner(t *testing.T) {
	svc, store := newService(NewInMemoryRepository(nil))
	ctx := context.Background()

	got, err := svc.Upload(ctx, Portrait, images(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0].Type != Portrait || !store.Has(got[2].StorageID) {
		t.Fatalf("unexpected banners %+v", got)
	}

	portrait, _ := svc.List(ctx, Portrait)
	landscape, _ := svc.List(ctx, Landscape)
	if len(portrait) != 3 || len(landscape) != 0 {
		t.Fatalf("unexpected filter result %d/%d", len(portrait), len(landscape))
	}
}

func TestUpload_Limits(t *testing.T) {
	svc, store := newService(NewInMemoryRepository(nil))
	ctx := context.Background()

	if _, err := svc.Upload(ctx, Landscape, nil); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for no files, got %v", err)
	}
	if _, err := svc.Upload(ctx, Landscape, images(6)); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for 6 files, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("nothing should be uploaded")
	}
}

func TestUpload_PartialFailureLeavesNothing(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc, store := newService(repo)
	store.FailUploadsAfter(3, errors.New("rate limited"))

	_, err := svc.Upload(context.Background(), Landscape, images(5))
	if !apperr.IsDependency(err) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if store.Len() != 0 || len(store.Deleted()) != 3 {
		t.Fatalf("expected the 3 uploaded images to be discarded, store=%d deleted=%v", store.Len(), store.Deleted())
	}
	if all, _ := repo.List(context.Background(), ""); len(all) != 0 {
		t.Fatalf("no banner should be saved")
	}
}

type failingRepo struct {
	*InMemoryRepository
}

func (failingRepo) CreateMany(ctx context.Context, banners []Banner) error {
	return errors.New("tx aborted")
}

func TestUpload_PersistFailureDiscards(t *testing.T) {
	svc, store := newService(failingRepo{NewInMemoryRepository(nil)})

	if _, err := svc.Upload(context.Background(), Landscape, images(2)); err == nil {
		t.Fatalf("expected error")
	}
	if store.Len() != 0 {
		t.Fatalf("uploaded images should be discarded")
	}
}

func TestReplaceAndDelete(t *testing.T) {
	svc, store := newService(NewInMemoryRepository(nil))
	ctx := context.Background()

	created, _ := svc.Upload(ctx, Landscape, images(1))
	old := created[0]

	replaced, err := svc.Replace(ctx, old.ID, images(1)[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replaced.StorageID == old.StorageID || store.Has(old.StorageID) || !store.Has(replaced.StorageID) {
		t.Fatalf("old image should be replaced")
	}

	if _, err := svc.Replace(ctx, uuid.New(), images(1)[0]); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := svc.Delete(ctx, old.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("image should be deleted with the banner")
	}
}

func TestParseType(t *testing.T) {
	if got, _ := ParseType("", Landscape); got != Landscape {
		t.Fatalf("expected default, got %q", got)
	}
	if got, _ := ParseType(" Portrait ", Landscape); got != Portrait {
		t.Fatalf("expected portrait, got %q", got)
	}
	if _, err := ParseType("square", Landscape); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandler_UploadAndList(t *testing.T) {
	svc, _ := newService(NewInMemoryRepository(nil))
	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler(logger.Nop())})
	h := NewHandler(svc)
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	_ = w.WriteField("type", "portrait")
	for i := 0; i < 2; i++ {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="banners"; filename="b.png"`)
		hdr.Set("Content-Type", "image/png")
		part, _ := w.CreatePart(hdr)
		_, _ = part.Write([]byte("png"))
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/banners", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 got %d", res.StatusCode)
	}

	res, _ = app.Test(httptest.NewRequest(http.MethodGet, "/api/banners?type=portrait", nil))
	b, _ := io.ReadAll(res.Body)
	var list []Banner
	if err := json.Unmarshal(b, &list); err != nil {
		t.Fatalf("invalid json %s", b)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 banners, got %s", b)
	}

	res, _ = app.Test(httptest.NewRequest(http.MethodGet, "/api/banners?type=round", nil))
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", res.StatusCode)
	}

	res, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/api/banners/"+uuid.NewString(), nil))
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}
