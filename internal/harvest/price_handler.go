package harvest

import (
	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/httputil"

	"github.com/gofiber/fiber/v2"
)

// GET /api/panen/harga
func ListPricesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		prices := svc.Prices()
		if err := prices.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Harga TBS tidak dapat dimuat")
		}
		return httputil.Listed(c, prices.View, SummarizePrices(prices.Data()))
	}
}

// PUT /api/panen/harga (upsert per tanggal)
func UpdatePriceHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body PriceInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		prices := svc.Prices()
		row, err := prices.UpdatePrice(c.UserContext(), body)
		if err != nil {
			return httputil.StoreError(err, "Harga TBS tidak dapat disimpan")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionUpdate, Table: "harga_tbs", RecordID: httputil.FormatDate(row.Date), After: body})
		return httputil.Synced(c, fiber.StatusOK, row, prices.View)
	}
}
