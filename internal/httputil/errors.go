package httputil

import (
	"errors"

	"sawitku-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler merender semua error sebagai {"error": msg}.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": fe.Message,
			})
		}
		log.Error("unexpected error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Terjadi kesalahan pada server",
		})
	}
}

// StoreError menerjemahkan error dari lapisan store ke status HTTP.
// fallback dipakai untuk error yang tidak dikenali (500).
func StoreError(err error, fallback string) error {
	var fe *fiber.Error
	var ve *store.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &fe):
		return fe
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Message)
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Data tidak ditemukan")
	case errors.Is(err, store.ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, "Status data sudah tidak dapat diubah")
	case errors.Is(err, store.ErrInsufficientStock):
		return fiber.NewError(fiber.StatusConflict, "Stok tidak mencukupi")
	case store.IsInUse(err):
		return fiber.NewError(fiber.StatusConflict, "Data masih dipakai oleh data lain")
	case store.IsDuplicate(err, ""):
		return fiber.NewError(fiber.StatusConflict, "Data dengan nilai yang sama sudah ada")
	}
	return fiber.NewError(fiber.StatusInternalServerError, fallback)
}
