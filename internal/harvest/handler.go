package harvest

import (
	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

const table = "panen"

type RejectRequest struct {
	Reason *string `json:"alasan"`
}

func filterFromQuery(c *fiber.Ctx) (RecordFilter, error) {
	f := RecordFilter{
		BlockID: c.Query("blok_id"),
		Status:  models.HarvestStatus(c.Query("status")),
		Search:  c.Query("q"),
	}
	var err error
	if f.From, err = httputil.ParseOptionalDate(c.Query("dari")); err != nil {
		return f, err
	}
	if f.To, err = httputil.ParseOptionalDate(c.Query("sampai")); err != nil {
		return f, err
	}
	return f, nil
}

// GET /api/panen?blok_id=&status=&q=&dari=&sampai=
func ListHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := filterFromQuery(c)
		if err != nil {
			return httputil.StoreError(err, "")
		}
		records := svc.Records(f)
		if err := records.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Data panen tidak dapat dimuat")
		}
		return httputil.Listed(c, records.View, Summarize(records.Data()))
	}
}

// GET /api/panen/:id
func GetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return httputil.StoreError(err, "Data panen tidak dapat dimuat")
		}
		return c.JSON(h)
	}
}

// POST /api/panen
func CreateHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body RecordInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		records := svc.Records(RecordFilter{})
		row, err := records.Add(c.UserContext(), userID, body)
		if err != nil {
			return httputil.StoreError(err, "Gagal menyimpan data. Silakan coba lagi.")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: table, RecordID: row.ID, After: row})
		return httputil.Synced(c, fiber.StatusCreated, row, records.View)
	}
}

// POST /api/panen/:id/approve (admin, owner)
func ApproveHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		records := svc.Records(RecordFilter{})
		if err := records.Approve(c.UserContext(), id, userID); err != nil {
			return httputil.StoreError(err, "Panen tidak dapat disetujui")
		}

		after, _ := svc.Get(c.UserContext(), id)
		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionApprove, Table: table, RecordID: id, After: after})
		return httputil.Synced(c, fiber.StatusOK, after, records.View)
	}
}

// POST /api/panen/:id/reject (admin, owner)
func RejectHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var body RejectRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
			}
		}

		records := svc.Records(RecordFilter{})
		if err := records.Reject(c.UserContext(), id, body.Reason); err != nil {
			return httputil.StoreError(err, "Panen tidak dapat ditolak")
		}

		after, _ := svc.Get(c.UserContext(), id)
		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionReject, Table: table, RecordID: id, After: after})
		return httputil.Synced(c, fiber.StatusOK, after, records.View)
	}
}

// POST /api/panen/:id/foto (multipart, field "foto")
func UploadPhotoHandler(svc *Service, objects storage.ObjectStore, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		if _, err := svc.Get(c.UserContext(), id); err != nil {
			return httputil.StoreError(err, "Data panen tidak dapat dimuat")
		}

		url, err := storage.UploadPhoto(c, objects, "panen/"+id)
		if err != nil {
			return err
		}

		records := svc.Records(RecordFilter{})
		if err := records.AttachPhoto(c.UserContext(), id, url); err != nil {
			return httputil.StoreError(err, "Foto tidak dapat disimpan")
		}

		after, _ := svc.Get(c.UserContext(), id)
		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionUpdate, Table: table, RecordID: id, After: after})
		return httputil.Synced(c, fiber.StatusOK, after, records.View)
	}
}
