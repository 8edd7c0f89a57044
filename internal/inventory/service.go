package inventory

import (
	"context"
	"errors"
	"strings"

	"sawitku-backend/internal/models"
	"sawitku-backend/internal/notification"
	"sawitku-backend/internal/store"

	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	notify *notification.Service
}

func NewService(db *gorm.DB, notify *notification.Service) *Service {
	return &Service{db: db, notify: notify}
}

type ItemFilter struct {
	Kind   models.InventoryKind
	Search string
}

// Items daftar inventaris beserta kategorinya, urut nama.
type Items struct {
	*store.View[models.InventoryItem]
	svc *Service
}

func (s *Service) items() *store.Collection[models.InventoryItem] {
	return store.NewCollection[models.InventoryItem](s.db, store.Query{
		Preload: []string{"Category"},
		Order:   "nama",
	})
}

func (s *Service) Items(f ItemFilter) *Items {
	c := s.items()
	if f.Kind != "" {
		c = c.With(store.Where("kategori_id IN (SELECT id FROM kategori_inventaris WHERE jenis = ?)", f.Kind))
	}
	if strings.TrimSpace(f.Search) != "" {
		c = c.With(store.Search(f.Search, "nama"))
	}
	return &Items{View: store.NewView(c), svc: s}
}

func (s *Service) Get(ctx context.Context, id string) (*models.InventoryItem, error) {
	return s.items().Get(ctx, id)
}

// Categories kategori inventaris, opsional per jenis.
func (s *Service) Categories(kind models.InventoryKind) *store.View[models.InventoryCategory] {
	c := store.NewCollection[models.InventoryCategory](s.db, store.Query{Order: "jenis, nama"})
	if kind != "" {
		c = c.With(store.Eq("jenis", kind))
	}
	return store.NewView(c)
}

var kindNames = map[models.InventoryKind]string{
	models.KindFertilizer: "Pupuk",
	models.KindPesticide:  "Pestisida",
	models.KindTool:       "Alat",
	models.KindOther:      "Lainnya",
}

// ensureCategory mengembalikan id kategori pertama untuk jenis tersebut,
// membuatnya bila belum ada.
func ensureCategory(ctx context.Context, tx *gorm.DB, kind models.InventoryKind) (string, error) {
	var cat models.InventoryCategory
	err := tx.WithContext(ctx).Where("jenis = ?", kind).Order("created_at").First(&cat).Error
	if err == nil {
		return cat.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	cat = models.InventoryCategory{Name: kindNames[kind], Kind: kind}
	if err := tx.WithContext(ctx).Create(&cat).Error; err != nil {
		return "", err
	}
	return cat.ID, nil
}

// ItemInput dipakai untuk create dan update. Stok tidak bisa diubah lewat
// sini, hanya lewat transaksi stok.
type ItemInput struct {
	Name            *string               `json:"nama"`
	Kind            *models.InventoryKind `json:"jenis"`
	CategoryID      *string               `json:"kategori_id"`
	Unit            *string               `json:"satuan"`
	InitialStock    *float64              `json:"stok_awal"`
	MinimumStock    *float64              `json:"stok_minimum"`
	UnitPrice       *float64              `json:"harga_per_satuan"`
	StorageLocation *string               `json:"lokasi_penyimpanan"`
	Notes           *string               `json:"catatan"`
}

func (in ItemInput) fields() (map[string]any, error) {
	f := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, store.Invalid("Nama barang wajib diisi")
		}
		f["nama"] = name
	}
	if in.Unit != nil {
		unit := strings.TrimSpace(*in.Unit)
		if unit == "" {
			return nil, store.Invalid("Satuan wajib diisi")
		}
		f["satuan"] = unit
	}
	if in.Kind != nil && !in.Kind.Valid() {
		return nil, store.Invalid("Jenis inventaris tidak valid")
	}
	if in.CategoryID != nil {
		f["kategori_id"] = *in.CategoryID
	}
	if in.MinimumStock != nil {
		if *in.MinimumStock < 0 {
			return nil, store.Invalid("Stok minimum tidak boleh negatif")
		}
		f["stok_minimum"] = *in.MinimumStock
	}
	if in.UnitPrice != nil {
		if *in.UnitPrice < 0 {
			return nil, store.Invalid("Harga tidak boleh negatif")
		}
		f["harga_per_satuan"] = *in.UnitPrice
	}
	if in.StorageLocation != nil {
		f["lokasi_penyimpanan"] = *in.StorageLocation
	}
	if in.Notes != nil {
		f["catatan"] = *in.Notes
	}
	return f, nil
}

// Add membuat barang baru. Kategori diambil dari kategori_id atau dari
// jenis (dibuat bila belum ada). Stok awal dicatat sebagai transaksi masuk.
func (i *Items) Add(ctx context.Context, userID string, in ItemInput) (*models.InventoryItem, error) {
	if in.Name == nil || in.Unit == nil {
		return nil, store.Invalid("Nama dan satuan wajib diisi")
	}
	if in.CategoryID == nil && in.Kind == nil {
		return nil, store.Invalid("Pilih kategori atau jenis inventaris")
	}
	if _, err := in.fields(); err != nil {
		return nil, err
	}
	if in.InitialStock != nil && *in.InitialStock < 0 {
		return nil, store.Invalid("Stok awal tidak boleh negatif")
	}

	row := &models.InventoryItem{
		CategoryID:      in.CategoryID,
		Name:            strings.TrimSpace(*in.Name),
		Unit:            strings.TrimSpace(*in.Unit),
		StorageLocation: in.StorageLocation,
		Notes:           in.Notes,
	}
	if in.MinimumStock != nil {
		row.MinimumStock = *in.MinimumStock
	}
	if in.UnitPrice != nil {
		row.UnitPrice = *in.UnitPrice
	}

	err := i.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.InventoryItem]) error {
		return c.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if row.CategoryID == nil {
				id, err := ensureCategory(ctx, tx, *in.Kind)
				if err != nil {
					return err
				}
				row.CategoryID = &id
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			if in.InitialStock == nil || *in.InitialStock == 0 {
				return nil
			}
			_, err := applyMovement(ctx, tx, row.ID, userID, models.StockIn, StockInput{Quantity: *in.InitialStock, Note: strPtr("Stok awal")})
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (i *Items) Edit(ctx context.Context, id string, in ItemInput) error {
	f, err := in.fields()
	if err != nil {
		return err
	}
	return i.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.InventoryItem]) error {
		return c.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if in.Kind != nil && in.CategoryID == nil {
				catID, err := ensureCategory(ctx, tx, *in.Kind)
				if err != nil {
					return err
				}
				f["kategori_id"] = catID
			}
			if len(f) == 0 {
				return nil
			}
			return c.WithTx(tx).Patch(ctx, id, f)
		})
	})
}

// Delete menghapus barang beserta riwayat transaksi stoknya. Barang yang
// masih dirujuk jadwal pemupukan gagal dengan error foreign key.
func (i *Items) Delete(ctx context.Context, id string) error {
	return i.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.InventoryItem]) error {
		return c.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("inventaris_id = ?", id).Delete(&models.StockTransaction{}).Error; err != nil {
				return err
			}
			return c.WithTx(tx).Delete(ctx, id)
		})
	})
}

type Summary struct {
	ItemCount  int     `json:"jumlah_item"`
	LowStock   int     `json:"stok_menipis"`
	StockValue float64 `json:"nilai_stok"`
}

func Summarize(rows []models.InventoryItem) Summary {
	s := Summary{ItemCount: len(rows)}
	for _, it := range rows {
		if it.IsLowStock() {
			s.LowStock++
		}
		s.StockValue += it.CurrentStock * it.UnitPrice
	}
	return s
}

func strPtr(s string) *string { return &s }
