package landblock

import (
	"strings"

	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

const table = "blok_lahan"

// GET /api/lahan?q=
func ListHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		blocks := svc.Blocks(c.Query("q"))
		if err := blocks.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Blok lahan tidak dapat dimuat")
		}
		return httputil.Listed(c, blocks.View, Summarize(blocks.Data()))
	}
}

// GET /api/lahan/peta
func MapHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		blocks := svc.Blocks("")
		if err := blocks.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Peta lahan tidak dapat dimuat")
		}
		return c.JSON(BuildMap(blocks.Data()))
	}
}

// GET /api/lahan/:id
func GetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return httputil.StoreError(err, "Blok lahan tidak dapat dimuat")
		}
		return c.JSON(b)
	}
}

func writeError(err error, in BlockInput) error {
	if store.IsDuplicate(err, "kode") {
		code := ""
		if in.Code != nil {
			code = strings.TrimSpace(*in.Code)
		}
		return fiber.NewError(fiber.StatusConflict, DuplicateCodeMessage(code))
	}
	return httputil.StoreError(err, "Blok lahan tidak dapat disimpan")
}

// POST /api/lahan
func CreateHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body BlockInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		blocks := svc.Blocks("")
		row, err := blocks.Add(c.UserContext(), body)
		if err != nil {
			return writeError(err, body)
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionCreate, Table: table, RecordID: row.ID, After: row})
		return httputil.Synced(c, fiber.StatusCreated, row, blocks.View)
	}
}

// PUT /api/lahan/:id
func UpdateHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		before, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return httputil.StoreError(err, "Blok lahan tidak dapat dimuat")
		}

		var body BlockInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		blocks := svc.Blocks("")
		if err := blocks.Edit(c.UserContext(), id, body); err != nil {
			return writeError(err, body)
		}

		after, _ := svc.Get(c.UserContext(), id)
		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionUpdate, Table: table, RecordID: id, Before: before, After: after})
		return httputil.Synced(c, fiber.StatusOK, after, blocks.View)
	}
}

// DELETE /api/lahan/:id (admin, owner)
func DeleteHandler(svc *Service, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		before, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return httputil.StoreError(err, "Blok lahan tidak dapat dimuat")
		}

		blocks := svc.Blocks("")
		if err := blocks.Remove(c.UserContext(), id); err != nil {
			if store.IsInUse(err) {
				return fiber.NewError(fiber.StatusConflict, "Blok masih dipakai oleh data panen, pemupukan atau hama")
			}
			return httputil.StoreError(err, "Blok lahan tidak dapat dihapus")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionDelete, Table: table, RecordID: id, Before: before})
		return httputil.Synced(c, fiber.StatusOK, nil, blocks.View)
	}
}
