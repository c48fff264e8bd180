package product

import (
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
	"github.com/wichananm65/catalog-admin-backend/internal/httpx"
	"github.com/wichananm65/catalog-admin-backend/internal/media"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes registers the read endpoints. Fixed paths go before
// /:id so they are not captured as ids.
func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/api/products", h.getProducts)
	r.Get("/api/products/featured", h.getFeatured)
	r.Get("/api/products/best-sellers", h.getBestSellers)
	r.Get("/api/products/stats/categories", h.getCategoryCounts)
	r.Get("/api/products/check-code/:productCode", h.checkCode)
	r.Get("/api/products/:id", h.getProduct)
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/products/dashboard/stats", h.getDashboardStats)
	r.Post("/api/products", h.createProduct)
	r.Put("/api/products/:id", h.updateProduct)
	r.Patch("/api/products/:id/toggle-featured", h.toggleFeatured)
	r.Patch("/api/products/:id/toggle-bestseller", h.toggleBestSeller)
	r.Delete("/api/products/:id", h.deleteProduct)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *Handler) getFeatured(c *fiber.Ctx) error {
	return h.listFlagged(c, func(f *Filter, yes *bool) { f.Featured = yes })
}

func (h *Handler) getBestSellers(c *fiber.Ctx) error {
	return h.listFlagged(c, func(f *Filter, yes *bool) { f.BestSeller = yes })
}

func (h *Handler) listFlagged(c *fiber.Ctx, set func(*Filter, *bool)) error {
	yes := true
	f := Filter{IsActive: &yes, Page: 1, Limit: httpx.QueryInt(c, "limit", 20)}
	set(&f, &yes)
	page, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.JSON(page.Products)
}

func (h *Handler) getCategoryCounts(c *fiber.Ctx) error {
	counts, err := h.service.CountsByCategory(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(counts)
}

func (h *Handler) getDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.DashboardStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *Handler) checkCode(c *fiber.Ctx) error {
	code, available, err := h.service.CodeAvailable(c.UserContext(), c.Params("productCode"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"productCode": code, "available": available})
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	in, images, err := parseInput(c)
	if err != nil {
		return err
	}
	p, err := h.service.Create(c.UserContext(), in, images)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	in, images, err := parseInput(c)
	if err != nil {
		return err
	}
	p, err := h.service.Update(c.UserContext(), id, in, images)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) toggleFeatured(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.service.ToggleFeatured(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) toggleBestSeller(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.service.ToggleBestSeller(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

func parseFilter(c *fiber.Ctx) (Filter, error) {
	categoryID, err := httpx.QueryUUID(c, "categoryId")
	if err != nil {
		return Filter{}, err
	}
	subcategoryID, err := httpx.QueryUUID(c, "subcategoryId")
	if err != nil {
		return Filter{}, err
	}
	return Filter{
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Tag:           strings.TrimSpace(c.Query("tag")),
		BestSeller:    httpx.QueryBool(c, "bestSeller"),
		Featured:      httpx.QueryBool(c, "featured"),
		IsActive:      httpx.QueryBool(c, "isActive"),
		InStock:       httpx.QueryBool(c, "inStock"),
		Search:        strings.TrimSpace(c.Query("search")),
		Page:          httpx.QueryInt(c, "page", 1),
		Limit:         httpx.QueryInt(c, "limit", 10),
	}, nil
}

// parseInput reads a product from a multipart form (with its images) or,
// for image-less updates, from a JSON body.
func parseInput(c *fiber.Ctx) (Input, []media.File, error) {
	if !httpx.IsMultipart(c) {
		var in Input
		if err := c.BodyParser(&in); err != nil {
			return Input{}, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return in, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return Input{}, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	in, err := inputFromForm(form)
	if err != nil {
		return Input{}, nil, err
	}
	return in, media.FromMultipartAll(form.File["images"]), nil
}

func inputFromForm(form *multipart.Form) (Input, error) {
	fp := formParser{values: form.Value, errs: map[string]string{}}

	in := Input{
		ProductCode:   fp.str("productCode"),
		Name:          fp.str("name"),
		Description:   fp.str("description"),
		Tags:          fp.tags("tags"),
		CaseQuantity:  fp.str("caseQuantity"),
		CategoryID:    fp.str("categoryId"),
		SubcategoryID: fp.str("subcategoryId"),
	}
	in.BasePrice = fp.number("basePrice")
	in.ProfitMarginPercentage = fp.number("profitMarginPercentage")
	in.DiscountPercentage = fp.number("discountPercentage")
	in.ReceivedCase = fp.integer("receivedCase")
	in.StockQuantity = fp.optInteger("stockQuantity")
	in.MaxQuantityPerCustomer = fp.optInteger("maxQuantityPerCustomer")
	in.ReceivedDate = fp.date("receivedDate")
	in.InStock = fp.optBool("inStock")
	in.IsActive = fp.optBool("isActive")
	if b := fp.optBool("bestSeller"); b != nil {
		in.BestSeller = *b
	}
	if b := fp.optBool("featured"); b != nil {
		in.Featured = *b
	}

	if len(fp.errs) > 0 {
		return Input{}, apperr.Validation("Validation error.", fp.errs)
	}
	return in, nil
}

type formParser struct {
	values map[string][]string
	errs   map[string]string
}

func (p formParser) str(name string) string {
	if v := p.values[name]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// tags accepts repeated fields and comma separated values.
func (p formParser) tags(name string) []string {
	var out []string
	for _, raw := range p.values[name] {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

func (p formParser) number(name string) float64 {
	raw := p.str(name)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs[name] = name + " must be a number"
	}
	return f
}

func (p formParser) integer(name string) int {
	raw := p.str(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.errs[name] = name + " must be an integer"
	}
	return n
}

func (p formParser) optInteger(name string) *int {
	if p.str(name) == "" {
		return nil
	}
	n := p.integer(name)
	return &n
}

func (p formParser) optBool(name string) *bool {
	raw := p.str(name)
	if raw == "" {
		return nil
	}
	b, ok := httpx.FormBool(raw)
	if !ok {
		p.errs[name] = name + " must be true or false"
		return nil
	}
	return &b
}

func (p formParser) date(name string) *time.Time {
	raw := p.str(name)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	p.errs[name] = name + " must be a date (YYYY-MM-DD)"
	return nil
}
