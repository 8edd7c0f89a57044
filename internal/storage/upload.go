package storage

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const maxPhotoSize = 5 << 20

// UploadPhoto membaca file multipart "foto" dan menyimpannya di bawah
// prefix. Store nil berarti fitur upload tidak aktif (503).
func UploadPhoto(c *fiber.Ctx, objects ObjectStore, prefix string) (string, error) {
	if objects == nil {
		return "", fiber.NewError(fiber.StatusServiceUnavailable, "Penyimpanan foto belum dikonfigurasi")
	}

	fh, err := c.FormFile("foto")
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File foto wajib diunggah (field: foto)")
	}
	if fh.Size > maxPhotoSize {
		return "", fiber.NewError(fiber.StatusBadRequest, "Ukuran foto maksimal 5 MB")
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fiber.NewError(fiber.StatusBadRequest, "File harus berupa gambar")
	}

	f, err := fh.Open()
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File foto tidak dapat dibaca")
	}
	defer f.Close()

	url, err := objects.Put(c.UserContext(), ObjectKey(prefix, fh.Filename, time.Now()), f, fh.Size, contentType)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadGateway, "Foto gagal diunggah")
	}
	return url, nil
}
