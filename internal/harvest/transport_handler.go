package harvest

import (
	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const transportTable = "transportasi"

type ArriveRequest struct {
	MillWeightKg float64 `json:"berat_timbangan_pks"`
}

// GET /api/panen/transportasi?status=
func ListTransportsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list := svc.Transports(models.TransportStatus(c.Query("status")))
		if err := list.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Data transportasi tidak dapat dimuat")
		}
		return httputil.Listed(c, list.View, SummarizeTransports(list.Data()))
	}
}

// POST /api/panen/transportasi
func DispatchHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body TransportInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		list := svc.Transports("")
		row, err := list.Dispatch(c.UserContext(), body)
		if err != nil {
			return httputil.StoreError(err, "Data transportasi tidak dapat disimpan")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: transportTable, RecordID: row.ID, After: row})
		return httputil.Synced(c, fiber.StatusCreated, row, list.View)
	}
}

// POST /api/panen/transportasi/:id/sampai
func ArriveHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var body ArriveRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		list := svc.Transports("")
		if err := list.Arrive(c.UserContext(), id, body.MillWeightKg); err != nil {
			return httputil.StoreError(err, "Status transportasi tidak dapat diubah")
		}

		after, _ := svc.GetTransport(c.UserContext(), id)
		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionUpdate, Table: transportTable, RecordID: id, After: after})
		return httputil.Synced(c, fiber.StatusOK, after, list.View)
	}
}

// POST /api/panen/transportasi/:id/selesai
func FinishHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		list := svc.Transports("")
		if err := list.Finish(c.UserContext(), id); err != nil {
			return httputil.StoreError(err, "Status transportasi tidak dapat diubah")
		}

		after, _ := svc.GetTransport(c.UserContext(), id)
		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionUpdate, Table: transportTable, RecordID: id, After: after})
		return httputil.Synced(c, fiber.StatusOK, after, list.View)
	}
}
