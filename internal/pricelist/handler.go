package pricelist

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/catalog-admin-backend/internal/admin"
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

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Post("/api/price-lists/upload", h.upload)
	r.Get("/api/price-lists", h.list)
	r.Get("/api/price-lists/:id", h.get)
	r.Put("/api/price-lists/:id", h.update)
	r.Delete("/api/price-lists/:id", h.delete)
	r.Patch("/api/price-lists/:id/toggle-status", h.toggleStatus)
}

func (h *Handler) upload(c *fiber.Ctx) error {
	a, err := admin.MustFromCtx(c)
	if err != nil {
		return err
	}
	p, err := h.service.Upload(c.UserContext(), c.FormValue("documentName"), pdfFile(c), a.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Price list uploaded successfully",
		"data":    p,
	})
}

func (h *Handler) list(c *fiber.Ctx) error {
	f := Filter{
		IsActive: httpx.QueryBool(c, "isActive"),
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     httpx.QueryInt(c, "page", 1),
		Limit:    httpx.QueryInt(c, "limit", defaultPageLimit),
	}
	items, page, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": items, "pagination": page})
}

func (h *Handler) get(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": p})
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	var (
		in   Update
		file *media.File
	)
	if httpx.IsMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if v, ok := form.Value["documentName"]; ok && len(v) > 0 {
			in.DocumentName = &v[0]
		}
		if v, ok := form.Value["isActive"]; ok && len(v) > 0 {
			b, ok := httpx.FormBool(v[0])
			if !ok {
				return apperr.Validation("Validation error.", map[string]string{"isActive": "isActive must be true or false"})
			}
			in.IsActive = &b
		}
		file = pdfFile(c)
	} else if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	p, err := h.service.Update(c.UserContext(), id, in, file)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Price list updated successfully",
		"data":    p,
	})
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Price list deleted successfully"})
}

func (h *Handler) toggleStatus(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.service.ToggleStatus(c.UserContext(), id)
	if err != nil {
		return err
	}
	state := "deactivated"
	if p.IsActive {
		state = "activated"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Price list " + state + " successfully",
		"data":    p,
	})
}

// pdfFile returns the uploaded "pdf" part, or nil when none was sent.
func pdfFile(c *fiber.Ctx) *media.File {
	fh, err := c.FormFile("pdf")
	if err != nil {
		return nil
	}
	f := media.FromMultipart(fh)
	return &f
}
