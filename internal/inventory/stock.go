package inventory

import (
	"context"
	"fmt"
	"time"

	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"github.com/dustin/go-humanize"
	"gorm.io/gorm"
)

type StockInput struct {
	Quantity float64 `json:"jumlah"`
	Note     *string `json:"keterangan"`
	Date     string  `json:"tanggal"` // kosong = hari ini
}

// applyMovement mencatat satu transaksi stok dan menyesuaikan
// stok_saat_ini dalam tx yang sama. Pengurangan bersyarat sehingga stok
// tidak pernah negatif.
func applyMovement(ctx context.Context, tx *gorm.DB, itemID, userID string, dir models.StockDirection, in StockInput) (*models.StockTransaction, error) {
	if in.Quantity <= 0 {
		return nil, store.Invalid("Jumlah harus lebih dari 0")
	}
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if in.Date != "" {
		d, err := httputil.ParseDate(in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}

	expr, cond := "stok_saat_ini + ?", tx.WithContext(ctx).Model(&models.InventoryItem{}).Where("id = ?", itemID)
	if dir == models.StockOut {
		expr = "stok_saat_ini - ?"
		cond = cond.Where("stok_saat_ini >= ?", in.Quantity)
	}
	res := cond.Update("stok_saat_ini", gorm.Expr(expr, in.Quantity))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := tx.WithContext(ctx).Model(&models.InventoryItem{}).Where("id = ?", itemID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, store.ErrNotFound
		}
		return nil, store.ErrInsufficientStock
	}

	row := &models.StockTransaction{ItemID: itemID, Direction: dir, Quantity: in.Quantity, Date: date, Note: in.Note}
	if userID != "" {
		row.UserID = &userID
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// AddStock mencatat barang masuk.
func (i *Items) AddStock(ctx context.Context, id, userID string, in StockInput) (*models.StockTransaction, error) {
	return i.move(ctx, id, userID, models.StockIn, in)
}

// RemoveStock mencatat barang keluar. Gagal dengan ErrInsufficientStock
// bila stok tidak cukup.
func (i *Items) RemoveStock(ctx context.Context, id, userID string, in StockInput) (*models.StockTransaction, error) {
	return i.move(ctx, id, userID, models.StockOut, in)
}

func (i *Items) move(ctx context.Context, id, userID string, dir models.StockDirection, in StockInput) (*models.StockTransaction, error) {
	var row *models.StockTransaction
	err := i.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.InventoryItem]) error {
		return c.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			if row, err = applyMovement(ctx, tx, id, userID, dir, in); err != nil {
				return err
			}
			if dir != models.StockOut {
				return nil
			}
			// dibaca sesudah update: stok sebelum = stok sesudah + jumlah
			after, err := c.WithTx(tx).Get(ctx, id)
			if err != nil {
				return err
			}
			if !after.IsLowStock() || after.CurrentStock+in.Quantity <= after.MinimumStock {
				return nil
			}
			return i.notifyLowStock(ctx, tx, after, after.CurrentStock)
		})
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// notifyLowStock: notifikasi broadcast saat stok baru turun ke/di bawah
// minimum.
func (i *Items) notifyLowStock(ctx context.Context, tx *gorm.DB, item *models.InventoryItem, stock float64) error {
	if i.svc.notify == nil {
		return nil
	}
	link := "/inventaris"
	return i.svc.notify.Notify(ctx, tx, &models.Notification{
		Title: "Stok menipis",
		Message: fmt.Sprintf("Stok %s tinggal %s %s (minimum %s %s)",
			item.Name, humanize.Ftoa(stock), item.Unit, humanize.Ftoa(item.MinimumStock), item.Unit),
		Kind: models.NotifyWarning,
		Link: &link,
	})
}

// Transactions riwayat transaksi stok satu barang, urut tanggal.
func (s *Service) Transactions(itemID string) *store.View[models.StockTransaction] {
	c := store.NewCollection[models.StockTransaction](s.db, store.Query{Order: "tanggal, created_at"}).
		With(store.Eq("inventaris_id", itemID))
	return store.NewView(c)
}

type MovementSummary struct {
	In  float64 `json:"total_masuk"`
	Out float64 `json:"total_keluar"`
	Net float64 `json:"selisih"`
}

func SummarizeMovements(rows []models.StockTransaction) MovementSummary {
	var s MovementSummary
	for _, t := range rows {
		if t.Direction == models.StockIn {
			s.In += t.Quantity
		} else {
			s.Out += t.Quantity
		}
	}
	s.Net = s.In - s.Out
	return s
}
