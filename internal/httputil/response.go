package httputil

import (
	"sawitku-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// SyncedResponse: hasil mutasi beserta isi view sesudah refetch.
type SyncedResponse[T any] struct {
	Item  any    `json:"item,omitempty"`
	Data  []T    `json:"data"`
	Error string `json:"error,omitempty"`
}

func Synced[T any](c *fiber.Ctx, status int, item any, v *store.View[T]) error {
	snap := v.Snapshot()
	return c.Status(status).JSON(SyncedResponse[T]{
		Item:  item,
		Data:  snap.Data,
		Error: snap.Error,
	})
}

// Listed: respons list biasa dengan ringkasan opsional.
func Listed[T any](c *fiber.Ctx, v *store.View[T], summary any) error {
	snap := v.Snapshot()
	body := fiber.Map{"data": snap.Data}
	if snap.Error != "" {
		body["error"] = snap.Error
	}
	if summary != nil {
		body["summary"] = summary
	}
	return c.JSON(body)
}
