package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/goldennest/internal/api/dto"
	"github.com/spec-kit/goldennest/internal/service"
)

// FavoritesHandler exposes saved listings.
type FavoritesHandler struct {
	favorites *service.FavoriteService
}

// NewFavoritesHandler constructs handler.
func NewFavoritesHandler(favorites *service.FavoriteService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

// List handles GET /api/favorites.
func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	items, err := h.favorites.List(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCardList(items, false))
}

// Add handles PUT /api/favorites/:propertyId.
func (h *FavoritesHandler) Add(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.favorites.Add(c.UserContext(), id, c.Params("propertyId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Remove handles DELETE /api/favorites/:propertyId.
func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.favorites.Remove(c.UserContext(), id, c.Params("propertyId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
