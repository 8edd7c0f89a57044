// Package finance: buku kas pendapatan/pengeluaran kebun beserta
// ringkasan laba rugi.
package finance

import (
	"context"
	"errors"
	"strings"
	"time"

	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"gorm.io/gorm"
)

// ErrManaged: transaksi yang dibuat modul lain (mis. gaji) tidak dihapus
// langsung dari buku kas.
var ErrManaged = errors.New("finance: transaksi dikelola modul lain")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type LedgerFilter struct {
	Month      string // "2024-06"
	Kind       models.FinanceKind
	CategoryID string
}

// Ledger transaksi keuangan beserta kategorinya, terbaru lebih dulu.
type Ledger struct {
	*store.View[models.FinanceTransaction]
}

func (s *Service) transactions() *store.Collection[models.FinanceTransaction] {
	return store.NewCollection[models.FinanceTransaction](s.db, store.Query{
		Preload: []string{"Category"},
		Order:   "tanggal DESC, created_at DESC",
	})
}

func (s *Service) Ledger(f LedgerFilter) (*Ledger, error) {
	c := s.transactions()
	if f.Month != "" {
		from, to, err := httputil.MonthRange(f.Month)
		if err != nil {
			return nil, err
		}
		c = c.With(store.Gte("tanggal", from), store.Lt("tanggal", to))
	}
	if f.Kind != "" {
		c = c.With(store.Eq("jenis", f.Kind))
	}
	if f.CategoryID != "" {
		c = c.With(store.Eq("kategori_id", f.CategoryID))
	}
	return &Ledger{View: store.NewView(c)}, nil
}

// Between transaksi dengan tanggal di [from, to).
func (s *Service) Between(ctx context.Context, from, to time.Time) ([]models.FinanceTransaction, error) {
	return s.transactions().With(store.Gte("tanggal", from), store.Lt("tanggal", to)).Find(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*models.FinanceTransaction, error) {
	return s.transactions().Get(ctx, id)
}

type TransactionInput struct {
	CategoryID  *string            `json:"kategori_id"`
	Date        string             `json:"tanggal"`
	Kind        models.FinanceKind `json:"jenis"`
	Amount      float64            `json:"jumlah"`
	Description string             `json:"deskripsi"`
	Receipt     *string            `json:"bukti_transaksi"`
}

func (in TransactionInput) toModel(ctx context.Context, db *gorm.DB) (*models.FinanceTransaction, error) {
	if !in.Kind.Valid() {
		return nil, store.Invalid("Jenis transaksi harus pendapatan atau pengeluaran")
	}
	if in.Amount <= 0 {
		return nil, store.Invalid("Jumlah harus lebih dari 0")
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, store.Invalid("Deskripsi wajib diisi")
	}
	date, err := httputil.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}

	row := &models.FinanceTransaction{Date: date, Kind: in.Kind, Amount: in.Amount, Description: desc, Receipt: in.Receipt}
	if in.CategoryID != nil && *in.CategoryID != "" {
		var cat models.FinanceCategory
		if err := db.WithContext(ctx).First(&cat, "id = ?", *in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, store.Invalid("Kategori keuangan tidak ditemukan")
			}
			return nil, err
		}
		if cat.Kind != in.Kind {
			return nil, store.Invalid("Kategori %q bukan kategori %s", cat.Name, in.Kind)
		}
		row.CategoryID = &cat.ID
	}
	return row, nil
}

// Record mencatat transaksi manual.
func (l *Ledger) Record(ctx context.Context, in TransactionInput) (*models.FinanceTransaction, error) {
	row, err := in.toModel(ctx, l.Source().DB())
	if err != nil {
		return nil, err
	}
	if err := l.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// Delete menghapus transaksi manual. Transaksi dengan referensi ditolak
// dengan ErrManaged.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	return l.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.FinanceTransaction]) error {
		row, err := c.Get(ctx, id)
		if err != nil {
			return err
		}
		if row.ReferenceTable != nil {
			return ErrManaged
		}
		return c.Delete(ctx, id)
	})
}

// Categories kategori keuangan, opsional per jenis.
func (s *Service) Categories(kind models.FinanceKind) *store.View[models.FinanceCategory] {
	c := store.NewCollection[models.FinanceCategory](s.db, store.Query{Order: "jenis, nama"})
	if kind != "" {
		c = c.With(store.Eq("jenis", kind))
	}
	return store.NewView(c)
}

type CategoryInput struct {
	Name string             `json:"nama"`
	Kind models.FinanceKind `json:"jenis"`
}

func AddCategory(ctx context.Context, v *store.View[models.FinanceCategory], in CategoryInput) (*models.FinanceCategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, store.Invalid("Nama kategori wajib diisi")
	}
	if !in.Kind.Valid() {
		return nil, store.Invalid("Jenis kategori harus pendapatan atau pengeluaran")
	}
	row := &models.FinanceCategory{Name: name, Kind: in.Kind}
	if err := v.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// CategoryByName mencari kategori bawaan; dipakai modul lain dalam tx.
func CategoryByName(ctx context.Context, tx *gorm.DB, name string) (*models.FinanceCategory, error) {
	var cat models.FinanceCategory
	if err := tx.WithContext(ctx).Where("nama = ?", name).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

type CategoryTotal struct {
	CategoryID *string            `json:"kategori_id"`
	Name       string             `json:"nama"`
	Kind       models.FinanceKind `json:"jenis"`
	Total      float64            `json:"total"`
}

// ByCategory total per kategori untuk [from, to), dihitung di database.
func (s *Service) ByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error) {
	out := make([]CategoryTotal, 0)
	err := s.db.WithContext(ctx).
		Table("transaksi_keuangan AS t").
		Select("t.kategori_id AS category_id, COALESCE(k.nama, 'Tanpa kategori') AS name, t.jenis AS kind, SUM(t.jumlah) AS total").
		Joins("LEFT JOIN kategori_keuangan k ON k.id = t.kategori_id").
		Where("t.tanggal >= ? AND t.tanggal < ?", from, to).
		Group("t.kategori_id, k.nama, t.jenis").
		Order("total DESC").
		Scan(&out).Error
	return out, err
}
