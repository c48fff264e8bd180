package product

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
	"github.com/wichananm65/catalog-admin-backend/internal/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *fixture) {
	t.Helper()
	f := newFixture(t, nil)
	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler(logger.Nop())})
	h := NewHandler(f.svc)
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app)
	return app, f
}

func productForm(t *testing.T, fields map[string]string, images int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for i := 0; i < images; i++ {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="images"; filename="photo.png"`)
		hdr.Set("Content-Type", "image/png")
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write([]byte("\x89PNG"))
	}
	_ = w.Close()
	return body, w.FormDataContentType()
}

func decode(t *testing.T, res *http.Response, v any) {
	t.Helper()
	b, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("invalid json %s: %v", b, err)
	}
}

func TestCreateProduct_Multipart(t *testing.T) {
	app, f := newTestApp(t)

	body, ct := productForm(t, map[string]string{
		"productCode":            "sk01",
		"name":                   "Salmon kibble",
		"tags":                   "cat, dry",
		"basePrice":              "100",
		"profitMarginPercentage": "65",
		"discountPercentage":     "81",
		"caseQuantity":           "12 x 500g",
		"receivedCase":           "2",
		"receivedDate":           "2026-03-01",
		"categoryId":             f.food.ID.String(),
		"subcategoryId":          f.dry.ID.String(),
		"isActive":               "true",
	}, 2)
	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", ct)

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 201 got %d: %s", res.StatusCode, b)
	}

	var p Product
	decode(t, res, &p)
	if p.ProductCode != "SK01" || p.CalculatedOriginalPrice != 868.42 || p.TotalAvailableQuantity != 24 {
		t.Fatalf("unexpected product %+v", p)
	}
	if len(p.Tags) != 2 || len(p.Images) != 2 || p.ReceivedDate == nil {
		t.Fatalf("unexpected product %+v", p)
	}
}

func TestCreateProduct_BadNumberIsValidation(t *testing.T) {
	app, f := newTestApp(t)

	body, ct := productForm(t, map[string]string{
		"productCode":   "SK01",
		"name":          "Salmon kibble",
		"basePrice":     "a lot",
		"categoryId":    f.food.ID.String(),
		"subcategoryId": f.dry.ID.String(),
	}, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", ct)

	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.StatusCode)
	}
	var out struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, res, &out)
	if out.Errors["basePrice"] == "" {
		t.Fatalf("expected basePrice error, got %+v", out.Errors)
	}
}

func TestProductRoutes(t *testing.T) {
	app, f := newTestApp(t)
	ctx := t.Context()

	in := f.input("SK01")
	in.Featured = true
	p, err := f.svc.Create(ctx, in, pngs(1))
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	cases := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/api/products", 200},
		{http.MethodGet, "/api/products/featured", 200},
		{http.MethodGet, "/api/products/best-sellers", 200},
		{http.MethodGet, "/api/products/stats/categories", 200},
		{http.MethodGet, "/api/products/dashboard/stats", 200},
		{http.MethodGet, "/api/products/check-code/sk01", 200},
		{http.MethodGet, "/api/products/" + p.ID.String(), 200},
		{http.MethodGet, "/api/products/" + uuid.NewString(), 404},
		{http.MethodGet, "/api/products/not-an-id", 400},
		{http.MethodGet, "/api/products?categoryId=nope", 400},
		{http.MethodPatch, "/api/products/" + p.ID.String() + "/toggle-bestseller", 200},
		{http.MethodDelete, "/api/products/" + p.ID.String(), 200},
		{http.MethodDelete, "/api/products/" + p.ID.String(), 404},
	}
	for _, tc := range cases {
		res, err := app.Test(httptest.NewRequest(tc.method, tc.path, nil))
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		if res.StatusCode != tc.status {
			t.Fatalf("%s %s: expected %d got %d", tc.method, tc.path, tc.status, res.StatusCode)
		}
	}
}

func TestFeaturedListAndCheckCode(t *testing.T) {
	app, f := newTestApp(t)
	ctx := t.Context()

	in := f.input("SK01")
	in.Featured = true
	if _, err := f.svc.Create(ctx, in, pngs(1)); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := f.svc.Create(ctx, f.input("SK02"), pngs(1)); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	res, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/products/featured", nil))
	var featured []Product
	decode(t, res, &featured)
	if len(featured) != 1 || featured[0].ProductCode != "SK01" {
		t.Fatalf("unexpected featured list %+v", featured)
	}

	res, _ = app.Test(httptest.NewRequest(http.MethodGet, "/api/products/check-code/sk03", nil))
	var check struct {
		ProductCode string `json:"productCode"`
		Available   bool   `json:"available"`
	}
	decode(t, res, &check)
	if check.ProductCode != "SK03" || !check.Available {
		t.Fatalf("unexpected check result %+v", check)
	}
}
