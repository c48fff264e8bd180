package quickshopping

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/catalog-admin-backend/internal/admin"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler { return &Handler{service: s} }

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/quick-shopping/categories-products", h.getCategoriesWithProducts)
	r.Get("/api/quick-shopping/order", h.getOrder)
	r.Post("/api/quick-shopping/order", h.saveOrder)
	r.Delete("/api/quick-shopping/order", h.resetOrder)
}

func (h *Handler) getCategoriesWithProducts(c *fiber.Ctx) error {
	views, err := h.service.DefaultArrangement(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    views,
		"message": "Categories and products fetched in default order",
	})
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	a, err := admin.MustFromCtx(c)
	if err != nil {
		return err
	}
	rec, ok, err := h.service.SavedArrangement(c.UserContext(), a.ID)
	if err != nil {
		return err
	}
	if !ok {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    nil,
			"message": "No custom order found - using default arrangement",
		})
	}

	resolved, err := h.service.Resolve(c.UserContext(), rec.CategoryOrder)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":           true,
		"data":              resolved.Categories,
		"categoryOrder":     rec.CategoryOrder,
		"droppedCategories": resolved.DroppedCategories,
		"droppedProducts":   resolved.DroppedProducts,
		"message":           "Custom order retrieved successfully",
	})
}

func (h *Handler) saveOrder(c *fiber.Ctx) error {
	a, err := admin.MustFromCtx(c)
	if err != nil {
		return err
	}
	var req SaveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Category order is required and must be an array")
	}

	rec, isUpdate, err := h.service.SaveArrangement(c.UserContext(), a.ID, a.Branch, req)
	if err != nil {
		return err
	}
	message := "Custom arrangement saved successfully - now active as permanent order"
	if isUpdate {
		message = "Custom arrangement updated successfully - now active as permanent order"
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"data":     rec,
		"message":  message,
		"isUpdate": isUpdate,
	})
}

func (h *Handler) resetOrder(c *fiber.Ctx) error {
	a, err := admin.MustFromCtx(c)
	if err != nil {
		return err
	}
	reset, err := h.service.ResetArrangement(c.UserContext(), a.ID)
	if err != nil {
		return err
	}
	message := "No custom order found - already using default arrangement"
	if reset {
		message = "Custom order reset successfully - now using default arrangement"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    fiber.Map{"resetToDefault": reset},
	})
}
