package category

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/catalog-admin-backend/internal/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/api/categories", h.getCategories)
	r.Get("/api/categories/:id", h.getCategory)
	r.Get("/api/subcategories", h.getSubcategories)
	r.Get("/api/subcategories/:id", h.getSubcategory)
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Post("/api/categories", h.createCategory)
	r.Put("/api/categories/:id", h.updateCategory)
	r.Delete("/api/categories/:id", h.deleteCategory)
	r.Post("/api/subcategories", h.createSubcategory)
	r.Put("/api/subcategories/:id", h.updateSubcategory)
	r.Delete("/api/subcategories/:id", h.deleteSubcategory)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *Handler) getCategory(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (h *Handler) createCategory(c *fiber.Ctx) error {
	var in CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	created, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateCategory(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var in CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	updated, err := h.service.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func (h *Handler) deleteCategory(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}

func (h *Handler) getSubcategories(c *fiber.Ctx) error {
	categoryID, err := httpx.QueryUUID(c, "categoryId")
	if err != nil {
		return err
	}
	items, err := h.service.ListSubcategories(c.UserContext(), categoryID)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *Handler) getSubcategory(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.service.GetSubcategory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (h *Handler) createSubcategory(c *fiber.Ctx) error {
	var in SubcategoryInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	created, err := h.service.CreateSubcategory(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateSubcategory(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var in SubcategoryInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	updated, err := h.service.UpdateSubcategory(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func (h *Handler) deleteSubcategory(c *fiber.Ctx) error {
	id, err := httpx.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteSubcategory(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Subcategory deleted successfully"})
}
