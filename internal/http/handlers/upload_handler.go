package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/http/dto"
	"github.com/head-marketing/backend/internal/storage"
)

type UploadHandler struct {
	store *storage.DiskStore
	log   *zap.Logger
}

func NewUploadHandler(store *storage.DiskStore, log *zap.Logger) *UploadHandler {
	return &UploadHandler{store: store, log: log}
}

func (h *UploadHandler) readFile(c *fiber.Ctx) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, errors.New("file is required")
	}
	if fh.Size > storage.MaxUploadSize {
		return "", nil, storage.ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, storage.MaxUploadSize+1))
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}

// UploadPhoto accepts a product photo (JPG/PNG, up to 5MB).
func (h *UploadHandler) UploadPhoto(c *fiber.Ctx) error {
	name, data, err := h.readFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	url, err := h.store.SavePhoto(name, data)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) || errors.Is(err, storage.ErrUnsupportedType) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		h.log.Error("photo upload failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.UploadResponse{URL: url})
}

// UploadLogo accepts a business logo (JPG/PNG/SVG, up to 5MB).
func (h *UploadHandler) UploadLogo(c *fiber.Ctx) error {
	name, data, err := h.readFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	url, err := h.store.SaveLogo(name, data)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) || errors.Is(err, storage.ErrUnsupportedType) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		h.log.Error("logo upload failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.UploadResponse{URL: url})
}
