package operations

import (
	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maintenanceTable = "perawatan"

type JobStatusRequest struct {
	Status models.MaintenanceStatus `json:"status"`
}

// GET /api/operasional/perawatan?blok_id=&status=
func ListJobsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list := svc.Jobs(Filter{BlockID: c.Query("blok_id"), Status: c.Query("status")})
		if err := list.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Data perawatan tidak dapat dimuat")
		}
		return httputil.Listed(c, list.View, SummarizeJobs(list.Data()))
	}
}

// POST /api/operasional/perawatan
func CreateJobHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body JobInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		list := svc.Jobs(Filter{})
		row, err := list.Add(c.UserContext(), userID, body)
		if err != nil {
			return httputil.StoreError(err, "Gagal menyimpan data. Silakan coba lagi.")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: maintenanceTable, RecordID: row.ID, After: row})
		return httputil.Synced(c, fiber.StatusCreated, row, list.View)
	}
}

// PUT /api/operasional/perawatan/:id/status
func UpdateJobStatusHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var body JobStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		list := svc.Jobs(Filter{})
		if err := list.SetStatus(c.UserContext(), id, body.Status); err != nil {
			return httputil.StoreError(err, "Status perawatan tidak dapat diubah")
		}

		after, _ := svc.GetJob(c.UserContext(), id)
		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionUpdate, Table: maintenanceTable, RecordID: id, After: after})
		return httputil.Synced(c, fiber.StatusOK, after, list.View)
	}
}

// DELETE /api/operasional/perawatan/:id
func DeleteJobHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		list := svc.Jobs(Filter{})
		if err := list.Remove(c.UserContext(), id); err != nil {
			return httputil.StoreError(err, "Data perawatan tidak dapat dihapus")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionDelete, Table: maintenanceTable, RecordID: id})
		return httputil.Synced(c, fiber.StatusOK, nil, list.View)
	}
}
