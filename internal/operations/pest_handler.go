package operations

import (
	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

const pestTable = "hama_penyakit"

type PestStatusRequest struct {
	Status models.PestStatus `json:"status"`
	Action *string           `json:"tindakan"`
}

// GET /api/operasional/hama?blok_id=&status=
func ListPestReportsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list := svc.PestReports(Filter{BlockID: c.Query("blok_id"), Status: c.Query("status")})
		if err := list.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Laporan hama tidak dapat dimuat")
		}
		return httputil.Listed(c, list.View, SummarizePests(list.Data()))
	}
}

// POST /api/operasional/hama
func CreatePestReportHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body PestInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		list := svc.PestReports(Filter{})
		row, err := list.Report(c.UserContext(), userID, body)
		if err != nil {
			return httputil.StoreError(err, "Gagal menyimpan data. Silakan coba lagi.")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: pestTable, RecordID: row.ID, After: row})
		return httputil.Synced(c, fiber.StatusCreated, row, list.View)
	}
}

func pestMutation(svc *Service, logs *audit.Logger, fallback string, apply func(c *fiber.Ctx, list *PestReports, id string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		before, err := svc.GetPestReport(c.UserContext(), id)
		if err != nil {
			return httputil.StoreError(err, "Laporan hama tidak dapat dimuat")
		}

		list := svc.PestReports(Filter{})
		if err := apply(c, list, id); err != nil {
			return httputil.StoreError(err, fallback)
		}

		after, _ := svc.GetPestReport(c.UserContext(), id)
		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionUpdate, Table: pestTable, RecordID: id, Before: before, After: after})
		return httputil.Synced(c, fiber.StatusOK, after, list.View)
	}
}

// PUT /api/operasional/hama/:id/status
func UpdatePestStatusHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return pestMutation(svc, logs, "Status laporan tidak dapat diubah", func(c *fiber.Ctx, list *PestReports, id string) error {
		var body PestStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		return list.SetStatus(c.UserContext(), id, body.Status, body.Action)
	})
}

// POST /api/operasional/hama/:id/foto
func UploadPestPhotoHandler(svc *Service, objects storage.ObjectStore, logs *audit.Logger) fiber.Handler {
	return pestMutation(svc, logs, "Foto tidak dapat disimpan", func(c *fiber.Ctx, list *PestReports, id string) error {
		url, err := storage.UploadPhoto(c, objects, "hama/"+id)
		if err != nil {
			return err
		}
		return list.AttachPhoto(c.UserContext(), id, url)
	})
}

// DELETE /api/operasional/hama/:id
func DeletePestReportHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		before, err := svc.GetPestReport(c.UserContext(), id)
		if err != nil {
			return httputil.StoreError(err, "Laporan hama tidak dapat dimuat")
		}

		list := svc.PestReports(Filter{})
		if err := list.Remove(c.UserContext(), id); err != nil {
			return httputil.StoreError(err, "Laporan hama tidak dapat dihapus")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionDelete, Table: pestTable, RecordID: id, Before: before})
		return httputil.Synced(c, fiber.StatusOK, nil, list.View)
	}
}
