package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/goldennest/internal/api/dto"
	"github.com/spec-kit/goldennest/internal/service"
)

// ImagesHandler exposes listing gallery endpoints.
type ImagesHandler struct {
	images *service.ImageService
}

// NewImagesHandler constructs handler.
func NewImagesHandler(images *service.ImageService) *ImagesHandler {
	return &ImagesHandler{images: images}
}

// List handles GET /api/properties/:id/images.
func (h *ImagesHandler) List(c *fiber.Ctx) error {
	images, err := h.images.List(c.UserContext(), viewer(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewImageList(images))
}

// UploadURL handles POST /api/properties/:id/images/upload-url.
func (h *ImagesHandler) UploadURL(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.UploadURLRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.images.PresignUpload(c.UserContext(), id, c.Params("id"), req.FileName, req.ContentType)
	if err != nil {
		return err
	}
	return c.JSON(dto.UploadURLResponse{
		UploadURL:  ticket.UploadURL,
		StorageKey: ticket.StorageKey,
		PublicURL:  ticket.PublicURL,
		ExpiresAt:  ticket.ExpiresAt,
	})
}

// Register handles POST /api/properties/:id/images.
func (h *ImagesHandler) Register(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ImageRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	image, err := h.images.Register(c.UserContext(), id, c.Params("id"), service.ImageInput{
		URL:        req.URL,
		StorageKey: req.StorageKey,
		Sort:       req.Sort,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.ImageResponse{
		ID:         image.ID,
		URL:        image.URL,
		StorageKey: image.StorageKey,
		Sort:       image.Sort,
	})
}

// Delete handles DELETE /api/properties/:id/images/:imageId.
func (h *ImagesHandler) Delete(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.images.Delete(c.UserContext(), id, c.Params("id"), c.Params("imageId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
