package harvest

import (
	"context"
	"strings"
	"time"

	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RecordFilter: semua field opsional.
type RecordFilter struct {
	BlockID string
	Status  models.HarvestStatus
	Search  string
	From    *time.Time
	To      *time.Time
}

// Records catatan panen beserta blok lahannya, terbaru lebih dulu.
type Records struct {
	*store.View[models.Harvest]
}

func (s *Service) records() *store.Collection[models.Harvest] {
	return store.NewCollection[models.Harvest](s.db, store.Query{
		Preload: []string{"Block"},
		Order:   "tanggal DESC, created_at DESC",
	})
}

func (s *Service) Records(f RecordFilter) *Records {
	c := s.records()
	if f.BlockID != "" {
		c = c.With(store.Eq("blok_id", f.BlockID))
	}
	if f.Status != "" {
		c = c.With(store.Eq("status", f.Status))
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		c = c.With(store.Where("blok_id IN (SELECT id FROM blok_lahan WHERE LOWER(kode) LIKE ? OR LOWER(nama) LIKE ?)", pattern, pattern))
	}
	if f.From != nil {
		c = c.With(store.Gte("tanggal", *f.From))
	}
	if f.To != nil {
		c = c.With(store.Lt("tanggal", f.To.AddDate(0, 0, 1)))
	}
	return &Records{View: store.NewView(c)}
}

func (s *Service) Get(ctx context.Context, id string) (*models.Harvest, error) {
	return s.records().Get(ctx, id)
}

type RecordInput struct {
	BlockID    string  `json:"blok_id"`
	Date       string  `json:"tanggal"` // "2024-06-01"
	BunchCount int     `json:"jumlah_janjang"`
	WeightKg   float64 `json:"berat_kg"`
	Notes      *string `json:"catatan"`
}

func (in RecordInput) toModel(harvesterID string) (*models.Harvest, error) {
	if in.BlockID == "" {
		return nil, store.Invalid("Blok lahan wajib dipilih")
	}
	date, err := httputil.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if in.BunchCount < 0 {
		return nil, store.Invalid("Jumlah janjang tidak boleh negatif")
	}
	if in.WeightKg <= 0 {
		return nil, store.Invalid("Berat panen harus lebih dari 0 kg")
	}

	h := &models.Harvest{
		BlockID:    in.BlockID,
		Date:       date,
		BunchCount: in.BunchCount,
		WeightKg:   in.WeightKg,
		Status:     models.HarvestPending,
		Notes:      in.Notes,
	}
	if harvesterID != "" {
		h.HarvesterID = &harvesterID
	}
	return h, nil
}

// Add mencatat panen baru dengan status pending.
func (r *Records) Add(ctx context.Context, harvesterID string, in RecordInput) (*models.Harvest, error) {
	row, err := in.toModel(harvesterID)
	if err != nil {
		return nil, err
	}
	if err := r.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// transition: update bersyarat dari pending. Baris yang sudah approved /
// rejected tidak berubah dan menghasilkan ErrInvalidTransition.
func transition(ctx context.Context, c *store.Collection[models.Harvest], id string, fields map[string]any) error {
	n, err := c.PatchWhere(ctx, id, store.Eq("status", models.HarvestPending), fields)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := c.Get(ctx, id); err != nil {
		return err
	}
	return store.ErrInvalidTransition
}

// Approve: pending -> approved, mencatat siapa dan kapan.
func (r *Records) Approve(ctx context.Context, id, userID string) error {
	fields := map[string]any{
		"status":      models.HarvestApproved,
		"approved_at": time.Now().UTC(),
	}
	if userID != "" {
		fields["approved_by"] = userID
	}
	return r.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.Harvest]) error {
		return transition(ctx, c, id, fields)
	})
}

// Reject: pending -> rejected. Alasan (opsional) disimpan di catatan.
func (r *Records) Reject(ctx context.Context, id string, reason *string) error {
	fields := map[string]any{"status": models.HarvestRejected}
	if reason != nil && strings.TrimSpace(*reason) != "" {
		fields["catatan"] = strings.TrimSpace(*reason)
	}
	return r.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.Harvest]) error {
		return transition(ctx, c, id, fields)
	})
}

// AttachPhoto menambahkan URL foto bukti.
func (r *Records) AttachPhoto(ctx context.Context, id, url string) error {
	return r.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.Harvest]) error {
		row, err := c.Get(ctx, id)
		if err != nil {
			return err
		}
		photos := append(row.Photos, url)
		return c.Patch(ctx, id, map[string]any{"foto_bukti": photos})
	})
}

type RecordSummary struct {
	ApprovedWeightKg float64 `json:"total_berat_kg"`
	ApprovedBunches  int     `json:"total_janjang"`
	Pending          int     `json:"pending"`
	Approved         int     `json:"approved"`
	Rejected         int     `json:"rejected"`
}

// Summarize: hanya panen approved yang dihitung ke total produksi.
func Summarize(rows []models.Harvest) RecordSummary {
	var s RecordSummary
	for _, h := range rows {
		switch h.Status {
		case models.HarvestApproved:
			s.Approved++
			s.ApprovedWeightKg += h.WeightKg
			s.ApprovedBunches += h.BunchCount
		case models.HarvestPending:
			s.Pending++
		case models.HarvestRejected:
			s.Rejected++
		}
	}
	return s
}
