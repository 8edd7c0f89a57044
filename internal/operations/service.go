// Package operations: jadwal pemupukan, laporan hama/penyakit dan
// pekerjaan perawatan per blok.
package operations

import (
	"context"
	"strings"
	"time"

	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/notification"
	"sawitku-backend/internal/store"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	notify *notification.Service
}

func NewService(db *gorm.DB, notify *notification.Service) *Service {
	return &Service{db: db, notify: notify}
}

// Filter dipakai ketiga daftar. Semua field opsional.
type Filter struct {
	BlockID string
	Status  string
}

func filtered[T any](c *store.Collection[T], f Filter) *store.Collection[T] {
	if f.BlockID != "" {
		c = c.With(store.Eq("blok_id", f.BlockID))
	}
	if f.Status != "" {
		c = c.With(store.Eq("status", f.Status))
	}
	return c
}

// attachPhoto menambahkan URL ke kolom foto_bukti.
func attachPhoto[T any](ctx context.Context, v *store.View[T], id, url string, photos func(*T) []string) error {
	return v.Mutate(ctx, func(ctx context.Context, c *store.Collection[T]) error {
		row, err := c.Get(ctx, id)
		if err != nil {
			return err
		}
		list := append(photos(row), url)
		return c.Patch(ctx, id, map[string]any{"foto_bukti": datatypes.JSONSlice[string](list)})
	})
}

func requireBlock(id string) error {
	if strings.TrimSpace(id) == "" {
		return store.Invalid("Blok lahan wajib dipilih")
	}
	return nil
}

func dateOrToday(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	return httputil.ParseDate(s)
}

func optionalUser(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
