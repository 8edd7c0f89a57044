package operations

import (
	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

const fertilizationTable = "pemupukan"

type DelayRequest struct {
	Reason *string `json:"alasan"`
}

// GET /api/operasional/pemupukan?blok_id=&status=
func ListSchedulesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list := svc.Schedules(Filter{BlockID: c.Query("blok_id"), Status: c.Query("status")})
		if err := list.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Jadwal pemupukan tidak dapat dimuat")
		}
		return httputil.Listed(c, list.View, SummarizeSchedules(list.Data()))
	}
}

// POST /api/operasional/pemupukan
func CreateScheduleHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body ScheduleInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		list := svc.Schedules(Filter{})
		row, err := list.Schedule(c.UserContext(), userID, body)
		if err != nil {
			return httputil.StoreError(err, "Gagal menyimpan data. Silakan coba lagi.")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: fertilizationTable, RecordID: row.ID, After: row})
		return httputil.Synced(c, fiber.StatusCreated, row, list.View)
	}
}

// scheduleMutation: kerangka bersama untuk update jadwal berdasarkan :id.
func scheduleMutation(svc *Service, logs *audit.Logger, fallback string, apply func(c *fiber.Ctx, list *Schedules, id string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		before, err := svc.GetSchedule(c.UserContext(), id)
		if err != nil {
			return httputil.StoreError(err, "Jadwal pemupukan tidak dapat dimuat")
		}

		list := svc.Schedules(Filter{})
		if err := apply(c, list, id); err != nil {
			return httputil.StoreError(err, fallback)
		}

		after, _ := svc.GetSchedule(c.UserContext(), id)
		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionUpdate, Table: fertilizationTable, RecordID: id, Before: before, After: after})
		return httputil.Synced(c, fiber.StatusOK, after, list.View)
	}
}

// PUT /api/operasional/pemupukan/:id
func UpdateScheduleHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return scheduleMutation(svc, logs, "Gagal menyimpan data. Silakan coba lagi.", func(c *fiber.Ctx, list *Schedules, id string) error {
		var body ScheduleInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		return list.Edit(c.UserContext(), id, body)
	})
}

// POST /api/operasional/pemupukan/:id/selesai
func CompleteScheduleHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return scheduleMutation(svc, logs, "Status pemupukan tidak dapat diubah", func(c *fiber.Ctx, list *Schedules, id string) error {
		var body CompleteInput
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
			}
		}
		return list.Complete(c.UserContext(), id, body)
	})
}

// POST /api/operasional/pemupukan/:id/tunda
func DelayScheduleHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return scheduleMutation(svc, logs, "Status pemupukan tidak dapat diubah", func(c *fiber.Ctx, list *Schedules, id string) error {
		var body DelayRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
			}
		}
		return list.Delay(c.UserContext(), id, body.Reason)
	})
}

// POST /api/operasional/pemupukan/:id/foto
func UploadSchedulePhotoHandler(svc *Service, objects storage.ObjectStore, logs *audit.Logger) fiber.Handler {
	return scheduleMutation(svc, logs, "Foto tidak dapat disimpan", func(c *fiber.Ctx, list *Schedules, id string) error {
		url, err := storage.UploadPhoto(c, objects, "pemupukan/"+id)
		if err != nil {
			return err
		}
		return list.AttachPhoto(c.UserContext(), id, url)
	})
}

// DELETE /api/operasional/pemupukan/:id
func DeleteScheduleHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		before, err := svc.GetSchedule(c.UserContext(), id)
		if err != nil {
			return httputil.StoreError(err, "Jadwal pemupukan tidak dapat dimuat")
		}

		list := svc.Schedules(Filter{})
		if err := list.Remove(c.UserContext(), id); err != nil {
			return httputil.StoreError(err, "Jadwal pemupukan tidak dapat dihapus")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionDelete, Table: fertilizationTable, RecordID: id, Before: before})
		return httputil.Synced(c, fiber.StatusOK, nil, list.View)
	}
}
