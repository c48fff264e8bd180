package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Post("/api/auth/login", h.login)
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/auth/me", h.me)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if payload.Email == "" || payload.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	res, err := h.service.Login(c.UserContext(), payload.Email, payload.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrDisabled):
		return fiber.NewError(fiber.StatusForbidden, "Admin is disabled")
	case err != nil:
		return err
	}
	return c.JSON(res)
}

func (h *Handler) me(c *fiber.Ctx) error {
	a, err := MustFromCtx(c)
	if err != nil {
		return err
	}
	return c.JSON(a)
}
