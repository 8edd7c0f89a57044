package finance

import (
	"errors"
	"time"

	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const table = "transaksi_keuangan"

type Display struct {
	Income  string `json:"pendapatan"`
	Expense string `json:"pengeluaran"`
	Profit  string `json:"laba"`
}

type LedgerReport struct {
	Summary
	Display Display `json:"tampilan"`
	Daily   []Point `json:"harian"`
}

func display(s Summary) Display {
	return Display{Income: FormatRupiah(s.Income), Expense: FormatRupiah(s.Expense), Profit: FormatRupiah(s.Profit)}
}

func report(rows []models.FinanceTransaction) LedgerReport {
	s := Summarize(rows)
	return LedgerReport{Summary: s, Display: display(s), Daily: DailySeries(rows)}
}

// GET /api/keuangan?bulan=2024-06&jenis=&kategori_id=
func ListHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ledger, err := svc.Ledger(LedgerFilter{
			Month:      c.Query("bulan"),
			Kind:       models.FinanceKind(c.Query("jenis")),
			CategoryID: c.Query("kategori_id"),
		})
		if err != nil {
			return httputil.StoreError(err, "")
		}
		if err := ledger.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Data keuangan tidak dapat dimuat")
		}
		return httputil.Listed(c, ledger.View, report(ledger.Data()))
	}
}

// POST /api/keuangan
func CreateHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body TransactionInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		ledger, _ := svc.Ledger(LedgerFilter{})
		row, err := ledger.Record(c.UserContext(), body)
		if err != nil {
			return httputil.StoreError(err, "Gagal menyimpan transaksi. Silakan coba lagi.")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: table, RecordID: row.ID, After: row})
		return httputil.Synced(c, fiber.StatusCreated, row, ledger.View)
	}
}

// DELETE /api/keuangan/:id (admin, owner)
func DeleteHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		before, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return httputil.StoreError(err, "Transaksi tidak dapat dimuat")
		}

		ledger, _ := svc.Ledger(LedgerFilter{})
		if err := ledger.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, ErrManaged) {
				return fiber.NewError(fiber.StatusConflict, "Transaksi otomatis hanya dapat diubah dari modul asalnya")
			}
			return httputil.StoreError(err, "Transaksi tidak dapat dihapus")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionDelete, Table: table, RecordID: id, Before: before})
		return httputil.Synced(c, fiber.StatusOK, nil, ledger.View)
	}
}

// GET /api/keuangan/kategori?jenis=
func ListCategoriesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats := svc.Categories(models.FinanceKind(c.Query("jenis")))
		if err := cats.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Kategori keuangan tidak dapat dimuat")
		}
		return httputil.Listed(c, cats, nil)
	}
}

// POST /api/keuangan/kategori (admin, owner)
func CreateCategoryHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CategoryInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		cats := svc.Categories("")
		row, err := AddCategory(c.UserContext(), cats, body)
		if err != nil {
			return httputil.StoreError(err, "Kategori tidak dapat disimpan")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: "kategori_keuangan", RecordID: row.ID, After: row})
		return httputil.Synced(c, fiber.StatusCreated, row, cats)
	}
}

type MonthlyReport struct {
	Month      string          `json:"bulan"`
	Summary    Summary         `json:"ringkasan"`
	Display    Display         `json:"tampilan"`
	Categories []CategoryTotal `json:"per_kategori"`
	Series     []Point         `json:"bulanan"`
}

// GET /api/keuangan/laporan?bulan=2024-06 (default bulan berjalan)
func MonthlyReportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		month := c.Query("bulan", httputil.MonthKey(time.Now().UTC()))
		from, to, err := httputil.MonthRange(month)
		if err != nil {
			return httputil.StoreError(err, "")
		}

		yearRows, err := svc.Between(c.UserContext(), from.AddDate(0, -11, 0), to)
		if err != nil {
			return httputil.StoreError(err, "Laporan keuangan tidak dapat dimuat")
		}
		cats, err := svc.ByCategory(c.UserContext(), from, to)
		if err != nil {
			return httputil.StoreError(err, "Laporan keuangan tidak dapat dimuat")
		}

		monthRows := make([]models.FinanceTransaction, 0)
		for _, t := range yearRows {
			if !t.Date.Before(from) {
				monthRows = append(monthRows, t)
			}
		}
		s := Summarize(monthRows)
		return c.JSON(MonthlyReport{
			Month:      month,
			Summary:    s,
			Display:    display(s),
			Categories: cats,
			Series:     MonthlySeries(yearRows, from),
		})
	}
}

