package notification

import (
	"context"
	"errors"
	"time"

	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const inboxLimit = 20

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// visibleTo: notifikasi milik user atau broadcast (user_id NULL).
func visibleTo(userID string) store.Filter {
	return store.Where("user_id = ? OR user_id IS NULL", userID)
}

// readBy: status dibaca dari sudut pandang satu user. Broadcast dianggap
// dibaca bila user punya penanda di notifikasi_dibaca.
func readBy(userID string) store.Filter {
	return store.Where(`notifikasi.id, notifikasi.user_id, notifikasi.judul, notifikasi.pesan,
		notifikasi.jenis, notifikasi.link, notifikasi.created_at,
		CASE WHEN notifikasi.user_id IS NULL THEN EXISTS (
			SELECT 1 FROM notifikasi_dibaca r
			WHERE r.notifikasi_id = notifikasi.id AND r.user_id = ?
		) ELSE notifikasi.dibaca END AS dibaca`, userID)
}

// Inbox 20 notifikasi terbaru yang terlihat oleh user.
type Inbox struct {
	*store.View[models.Notification]
	userID string
}

func (s *Service) Inbox(userID string) *Inbox {
	c := store.NewCollection[models.Notification](s.db, store.Query{
		Select:  readBy(userID),
		Order:   "created_at DESC",
		Limit:   inboxLimit,
		Filters: []store.Filter{visibleTo(userID)},
	})
	return &Inbox{View: store.NewView(c), userID: userID}
}

// UnreadCount dihitung dari baris yang sudah dimuat.
func (i *Inbox) UnreadCount() int {
	n := 0
	for _, row := range i.Data() {
		if !row.Read {
			n++
		}
	}
	return n
}

func (i *Inbox) markBroadcasts(ctx context.Context, tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC()
	marks := make([]models.NotificationRead, 0, len(ids))
	for _, id := range ids {
		marks = append(marks, models.NotificationRead{NotificationID: id, UserID: i.userID, ReadAt: now})
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&marks).Error
}

// MarkAsRead: notifikasi pribadi mengubah kolom dibaca, broadcast hanya
// menambah penanda untuk user ini.
func (i *Inbox) MarkAsRead(ctx context.Context, id string) error {
	return i.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.Notification]) error {
		return c.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var row models.Notification
			err := tx.Where("id = ? AND (user_id = ? OR user_id IS NULL)", id, i.userID).First(&row).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrNotFound
			}
			if err != nil {
				return err
			}
			if row.UserID == nil {
				return i.markBroadcasts(ctx, tx, []string{row.ID})
			}
			return tx.Model(&models.Notification{}).Where("id = ?", row.ID).Update("dibaca", true).Error
		})
	})
}

// MarkAllAsRead menandai semua notifikasi pribadi dan broadcast yang belum
// dibaca oleh user ini. User lain tidak terpengaruh.
func (i *Inbox) MarkAllAsRead(ctx context.Context) error {
	return i.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.Notification]) error {
		return c.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Notification{}).
				Where("user_id = ? AND dibaca = ?", i.userID, false).
				Update("dibaca", true).Error; err != nil {
				return err
			}

			var ids []string
			if err := tx.Model(&models.Notification{}).
				Where("user_id IS NULL").
				Where("NOT EXISTS (SELECT 1 FROM notifikasi_dibaca r WHERE r.notifikasi_id = notifikasi.id AND r.user_id = ?)", i.userID).
				Pluck("id", &ids).Error; err != nil {
				return err
			}
			return i.markBroadcasts(ctx, tx, ids)
		})
	})
}

// Notify menyimpan notifikasi baru. tx boleh nil.
func (s *Service) Notify(ctx context.Context, tx *gorm.DB, n *models.Notification) error {
	db := s.db
	if tx != nil {
		db = tx
	}
	if n.Kind == "" {
		n.Kind = models.NotifyInfo
	}
	return db.WithContext(ctx).Create(n).Error
}
