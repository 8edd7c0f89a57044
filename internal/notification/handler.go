package notification

import (
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type InboxResponse struct {
	Data        []models.Notification `json:"data"`
	UnreadCount int                   `json:"unread_count"`
	Error       string                `json:"error,omitempty"`
}

func inboxResponse(in *Inbox) InboxResponse {
	snap := in.Snapshot()
	return InboxResponse{Data: snap.Data, UnreadCount: in.UnreadCount(), Error: snap.Error}
}

// GET /api/notifikasi
func ListHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		in := svc.Inbox(userID)
		if err := in.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Notifikasi tidak dapat dimuat")
		}
		return c.JSON(inboxResponse(in))
	}
}

// POST /api/notifikasi/:id/baca
func MarkAsReadHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		in := svc.Inbox(userID)
		if err := in.MarkAsRead(c.UserContext(), c.Params("id")); err != nil {
			return httputil.StoreError(err, "Notifikasi tidak dapat ditandai")
		}
		return c.JSON(inboxResponse(in))
	}
}

// POST /api/notifikasi/baca-semua
func MarkAllAsReadHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		in := svc.Inbox(userID)
		if err := in.MarkAllAsRead(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Notifikasi tidak dapat ditandai")
		}
		return c.JSON(inboxResponse(in))
	}
}
