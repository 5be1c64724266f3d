package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/goldennest/internal/auth"
	"github.com/spec-kit/goldennest/internal/domain"
	"github.com/spec-kit/goldennest/internal/service"
	apperrors "github.com/spec-kit/goldennest/pkg/util/errorutil"
)

// caller returns the authenticated identity. The route policy guarantees one on
// protected routes; reaching here without it is a wiring fault.
func caller(c *fiber.Ctx) (domain.Identity, error) {
	id, ok := auth.IdentityFromContext(c)
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthorized("authentication required")
	}
	return id, nil
}

// viewer returns the identity when present and the zero Identity for guests.
func viewer(c *fiber.Ctx) domain.Identity {
	id, _ := auth.IdentityFromContext(c)
	return id
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}

func pageRequest(c *fiber.Ctx) (service.PageRequest, error) {
	page, err := intQuery(c, "page", 0)
	if err != nil {
		return service.PageRequest{}, err
	}
	if page > service.MaxPage {
		return service.PageRequest{}, apperrors.NewValidationError(
			fmt.Sprintf("page must not exceed %d", service.MaxPage), map[string]any{"field": "page"})
	}
	size, err := intQuery(c, "size", 0)
	if err != nil {
		return service.PageRequest{}, err
	}
	return service.PageRequest{Page: page, Size: size}.Normalize(), nil
}

func intQuery(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(key+" must be an integer", map[string]any{"field": key})
	}
	return v, nil
}

func floatQuery(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewValidationError(key+" must be a number", map[string]any{"field": key})
	}
	return &v, nil
}
