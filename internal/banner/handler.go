package banner

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
	"github.com/wichananm65/catalog-admin-backend/internal/httpx"
	"github.com/wichananm65/catalog-admin-backend/internal/media"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/api/banners", h.getBanners)
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Post("/api/banners", h.uploadBanners)
	r.Put("/api/banners/:id", h.replaceBanner)
	r.Delete("/api/banners/:id", h.deleteBanner)
}

func (h *Handler) getBanners(c *fiber.Ctx) error {
	t, err := ParseType(c.Query("type"), "")
	if err != nil {
		return err
	}
	items, err := h.service.List(c.UserContext(), t)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *Handler) uploadBanners(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperr.Validation("No images uploaded", map[string]string{"banners": "required"})
	}
	var raw string
	if v := form.Value["type"]; len(v) > 0 {
		raw = v[0]
	}
	t, err := ParseType(raw, Landscape)
	if err != nil {
		return err
	}

	banners, err := h.service.Upload(c.UserContext(), t, media.FromMultipartAll(form.File["banners"]))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(banners)
}

func (h *Handler) replaceBanner(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("banner")
	if err != nil {
		return apperr.Validation("No image uploaded", map[string]string{"banner": "required"})
	}
	b, err := h.service.Replace(c.UserContext(), id, media.FromMultipart(fh))
	if err != nil {
		return err
	}
	return c.JSON(b)
}

func (h *Handler) deleteBanner(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Banner deleted successfully"})
}
