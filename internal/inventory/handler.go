package inventory

import (
	"strings"

	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

const (
	table      = "inventaris"
	stockTable = "transaksi_stok"
)

// GET /api/inventaris?jenis=&q=
func ListHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items := svc.Items(ItemFilter{Kind: models.InventoryKind(c.Query("jenis")), Search: c.Query("q")})
		if err := items.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Data inventaris tidak dapat dimuat")
		}
		return httputil.Listed(c, items.View, Summarize(items.Data()))
	}
}

// GET /api/inventaris/kategori?jenis=
func ListCategoriesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats := svc.Categories(models.InventoryKind(c.Query("jenis")))
		if err := cats.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Kategori inventaris tidak dapat dimuat")
		}
		return httputil.Listed(c, cats, nil)
	}
}

// GET /api/inventaris/:id
func GetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return httputil.StoreError(err, "Data inventaris tidak dapat dimuat")
		}
		return c.JSON(item)
	}
}

// POST /api/inventaris
func CreateHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body ItemInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		items := svc.Items(ItemFilter{})
		row, err := items.Add(c.UserContext(), userID, body)
		if err != nil {
			return httputil.StoreError(err, "Gagal menyimpan data. Silakan coba lagi.")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: table, RecordID: row.ID, After: row})
		return httputil.Synced(c, fiber.StatusCreated, row, items.View)
	}
}

// PUT /api/inventaris/:id
func UpdateHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		before, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return httputil.StoreError(err, "Data inventaris tidak dapat dimuat")
		}

		var body ItemInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		items := svc.Items(ItemFilter{})
		if err := items.Edit(c.UserContext(), id, body); err != nil {
			return httputil.StoreError(err, "Gagal menyimpan data. Silakan coba lagi.")
		}

		after, _ := svc.Get(c.UserContext(), id)
		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionUpdate, Table: table, RecordID: id, Before: before, After: after})
		return httputil.Synced(c, fiber.StatusOK, after, items.View)
	}
}

// DELETE /api/inventaris/:id (admin, owner)
func DeleteHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		before, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return httputil.StoreError(err, "Data inventaris tidak dapat dimuat")
		}

		items := svc.Items(ItemFilter{})
		if err := items.Delete(c.UserContext(), id); err != nil {
			if store.IsInUse(err) {
				return fiber.NewError(fiber.StatusConflict, "Barang masih dipakai pada jadwal pemupukan")
			}
			return httputil.StoreError(err, "Data inventaris tidak dapat dihapus")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionDelete, Table: table, RecordID: id, Before: before})
		return httputil.Synced(c, fiber.StatusOK, nil, items.View)
	}
}

// GET /api/inventaris/:id/stok
func ListTransactionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := svc.Get(c.UserContext(), id); err != nil {
			return httputil.StoreError(err, "Data inventaris tidak dapat dimuat")
		}
		txs := svc.Transactions(id)
		if err := txs.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Riwayat stok tidak dapat dimuat")
		}
		return httputil.Listed(c, txs, SummarizeMovements(txs.Data()))
	}
}

type MovementRequest struct {
	Direction models.StockDirection `json:"jenis"` // masuk | keluar
	StockInput
}

// POST /api/inventaris/:id/stok
func MoveStockHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var body MovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		items := svc.Items(ItemFilter{})
		var row *models.StockTransaction
		switch body.Direction {
		case models.StockIn:
			row, err = items.AddStock(c.UserContext(), id, userID, body.StockInput)
		case models.StockOut:
			row, err = items.RemoveStock(c.UserContext(), id, userID, body.StockInput)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Jenis transaksi harus masuk atau keluar")
		}
		if err != nil {
			return httputil.StoreError(err, "Transaksi stok tidak dapat disimpan")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: stockTable, RecordID: row.ID, After: row})
		return httputil.Synced(c, fiber.StatusCreated, row, items.View)
	}
}

// POST /api/inventaris/import (multipart, field "file", .xlsx)
func ImportHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File wajib diunggah (field: file)")
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Hanya file .xlsx yang dapat diimpor")
		}
		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File tidak dapat dibuka")
		}
		defer f.Close()

		rows, err := ParseWorkbook(f)
		if err != nil {
			return httputil.StoreError(err, "")
		}

		items := svc.Items(ItemFilter{})
		res, err := items.Import(c.UserContext(), userID, rows)
		if err != nil {
			return httputil.StoreError(err, "Import inventaris gagal")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: table, RecordID: "import", After: res})
		return httputil.Synced(c, fiber.StatusOK, res, items.View)
	}
}
