package dashboard

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GET /api/dashboard
func StatsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext(), time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ringkasan dashboard tidak dapat dimuat")
		}
		return c.JSON(stats)
	}
}

// GET /api/keuangan/prediksi?bulan=5
func ForecastHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n := DefaultForecastMonths
		if v := c.Query("bulan"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 || parsed > MaxForecastMonths {
				return fiber.NewError(fiber.StatusBadRequest, "Jumlah bulan prediksi harus 1 sampai 12")
			}
			n = parsed
		}

		f, err := svc.Forecast(c.UserContext(), time.Now(), n)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Prediksi panen tidak dapat dimuat")
		}
		return c.JSON(f)
	}
}
