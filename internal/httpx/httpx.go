// Package httpx holds small request helpers shared by the fiber handlers.
package httpx

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
)

// ParamUUID parses the named route parameter as a UUID.
func ParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid id.", map[string]string{name: name + " must be a valid id"})
	}
	return id, nil
}

// QueryUUID returns nil when the query value is absent.
func QueryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation("Invalid query.", map[string]string{name: name + " must be a valid id"})
	}
	return &id, nil
}

// QueryInt returns def for absent or non-positive values.
func QueryInt(c *fiber.Ctx, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// QueryBool accepts "true"/"false" (any case); anything else is treated as absent.
func QueryBool(c *fiber.Ctx, name string) *bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}

// FormBool parses multipart/urlencoded boolean fields the way browsers send them.
func FormBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes":
		return true, true
	case "false", "0", "off", "no":
		return false, true
	}
	return false, false
}

// IsMultipart reports whether the request carries a multipart body.
func IsMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// Pages returns the number of pages needed for total items.
func Pages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
