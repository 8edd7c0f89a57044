package payroll

import (
	"errors"

	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

const workerTable = "pekerja"

// GET /api/pekerja?status=&q=
func ListWorkersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		workers := svc.Workers(models.WorkerStatus(c.Query("status")), c.Query("q"))
		if err := workers.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Data pekerja tidak dapat dimuat")
		}
		return httputil.Listed(c, workers.View, SummarizeWorkers(workers.Data()))
	}
}

// GET /api/pekerja/:id
func GetWorkerHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		w, err := svc.GetWorker(c.UserContext(), c.Params("id"))
		if err != nil {
			return httputil.StoreError(err, "Data pekerja tidak dapat dimuat")
		}
		return c.JSON(w)
	}
}

// POST /api/pekerja
func CreateWorkerHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		var body WorkerInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		workers := svc.Workers("", "")
		row, err := workers.Add(c.UserContext(), body)
		if err != nil {
			if store.IsDuplicate(err, "nik") {
				return fiber.NewError(fiber.StatusConflict, "NIK sudah terdaftar")
			}
			return httputil.StoreError(err, "Data pekerja tidak dapat disimpan")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: workerTable, RecordID: row.ID, After: row})
		return httputil.Synced(c, fiber.StatusCreated, row, workers.View)
	}
}

// PUT /api/pekerja/:id
func UpdateWorkerHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		var body WorkerInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		before, err := svc.GetWorker(c.UserContext(), id)
		if err != nil {
			return httputil.StoreError(err, "Data pekerja tidak dapat dimuat")
		}
		workers := svc.Workers("", "")
		if err := workers.Edit(c.UserContext(), id, body); err != nil {
			return httputil.StoreError(err, "Data pekerja tidak dapat diperbarui")
		}
		after, _ := svc.GetWorker(c.UserContext(), id)

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionUpdate, Table: workerTable, RecordID: id, Before: before, After: after})
		return httputil.Synced(c, fiber.StatusOK, after, workers.View)
	}
}

// DELETE /api/pekerja/:id (admin, owner)
func DeleteWorkerHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		before, err := svc.GetWorker(c.UserContext(), id)
		if err != nil {
			return httputil.StoreError(err, "Data pekerja tidak dapat dimuat")
		}

		workers := svc.Workers("", "")
		if err := workers.Remove(c.UserContext(), id); err != nil {
			if store.IsInUse(err) {
				return fiber.NewError(fiber.StatusConflict, "Pekerja masih memiliki data penggajian")
			}
			return httputil.StoreError(err, "Data pekerja tidak dapat dihapus")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionDelete, Table: workerTable, RecordID: id, Before: before})
		return httputil.Synced(c, fiber.StatusOK, nil, workers.View)
	}
}

// GET /api/keuangan/gaji?status=&pekerja_id=
func ListPayslipsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slips := svc.Payslips(models.PayslipStatus(c.Query("status")), c.Query("pekerja_id"))
		if err := slips.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Data penggajian tidak dapat dimuat")
		}
		return httputil.Listed(c, slips.View, SummarizePayslips(slips.Data()))
	}
}

// POST /api/keuangan/gaji
func CreatePayslipHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		var body PayslipInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		slips := svc.Payslips("", "")
		row, err := slips.Create(c.UserContext(), body)
		if err != nil {
			return httputil.StoreError(err, "Slip gaji tidak dapat disimpan")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: payslipTable, RecordID: row.ID, After: row})
		return httputil.Synced(c, fiber.StatusCreated, row, slips.View)
	}
}

type PayRequest struct {
	Date string `json:"tanggal_bayar"`
}

// POST /api/keuangan/gaji/:id/bayar (admin, owner)
func PayHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		var body PayRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
			}
		}

		slips := svc.Payslips("", "")
		if err := slips.Pay(c.UserContext(), id, body.Date); err != nil {
			if errors.Is(err, store.ErrInvalidTransition) {
				return fiber.NewError(fiber.StatusConflict, "Gaji sudah dibayar")
			}
			return httputil.StoreError(err, "Pembayaran gaji gagal diproses")
		}
		after, _ := svc.GetPayslip(c.UserContext(), id)

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionApprove, Table: payslipTable, RecordID: id, After: after})
		return httputil.Synced(c, fiber.StatusOK, after, slips.View)
	}
}

// DELETE /api/keuangan/gaji/:id (admin, owner)
func DeletePayslipHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		before, err := svc.GetPayslip(c.UserContext(), id)
		if err != nil {
			return httputil.StoreError(err, "Slip gaji tidak dapat dimuat")
		}

		slips := svc.Payslips("", "")
		if err := slips.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, store.ErrInvalidTransition) {
				return fiber.NewError(fiber.StatusConflict, "Gaji yang sudah dibayar tidak dapat dihapus")
			}
			return httputil.StoreError(err, "Slip gaji tidak dapat dihapus")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionDelete, Table: payslipTable, RecordID: id, Before: before})
		return httputil.Synced(c, fiber.StatusOK, nil, slips.View)
	}
}
