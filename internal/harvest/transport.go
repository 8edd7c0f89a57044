package harvest

import (
	"context"
	"strings"

	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"gorm.io/gorm"
)

// Transports pengiriman TBS ke PKS, terbaru lebih dulu.
type Transports struct {
	*store.View[models.Transport]
}

func (s *Service) transports() *store.Collection[models.Transport] {
	return store.NewCollection[models.Transport](s.db, store.Query{
		Preload: []string{"Harvests"},
		Order:   "tanggal DESC, created_at DESC",
	})
}

func (s *Service) Transports(status models.TransportStatus) *Transports {
	c := s.transports()
	if status != "" {
		c = c.With(store.Eq("status", status))
	}
	return &Transports{View: store.NewView(c)}
}

func (s *Service) GetTransport(ctx context.Context, id string) (*models.Transport, error) {
	return s.transports().Get(ctx, id)
}

type TransportInput struct {
	Date               string   `json:"tanggal"`
	VehicleNumber      *string  `json:"nomor_kendaraan"`
	DriverName         *string  `json:"nama_supir"`
	MillDestination    string   `json:"tujuan_pks"`
	TotalWeightKg      *float64 `json:"total_berat_kg"`
	DeliveryNoteNumber *string  `json:"nomor_surat_jalan"`
	Notes              *string  `json:"catatan"`
	HarvestIDs         []string `json:"panen_ids"`
}

// Dispatch mencatat pengiriman baru (status dikirim) beserta panen yang
// diangkut, dalam satu transaksi. Total berat diambil dari panen bila
// tidak diisi. Satu panen hanya boleh masuk satu transportasi.
func (t *Transports) Dispatch(ctx context.Context, in TransportInput) (*models.Transport, error) {
	date, err := httputil.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	mill := strings.TrimSpace(in.MillDestination)
	if mill == "" {
		return nil, store.Invalid("Tujuan PKS wajib diisi")
	}
	ids := uniqueIDs(in.HarvestIDs)
	if in.TotalWeightKg == nil && len(ids) == 0 {
		return nil, store.Invalid("Isi total berat atau pilih panen yang diangkut")
	}

	row := &models.Transport{
		Date:               date,
		VehicleNumber:      in.VehicleNumber,
		DriverName:         in.DriverName,
		MillDestination:    mill,
		DeliveryNoteNumber: in.DeliveryNoteNumber,
		Status:             models.TransportSent,
		Notes:              in.Notes,
	}

	err = t.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.Transport]) error {
		return c.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var harvests []models.Harvest
			if len(ids) > 0 {
				if err := tx.Where("id IN ?", ids).Order("tanggal, created_at").Find(&harvests).Error; err != nil {
					return err
				}
				if len(harvests) != len(ids) {
					return store.Invalid("Sebagian data panen tidak ditemukan")
				}
				var shipped int64
				if err := tx.Model(&models.TransportHarvest{}).Where("panen_id IN ?", ids).Count(&shipped).Error; err != nil {
					return err
				}
				if shipped > 0 {
					return store.Invalid("Panen sudah masuk transportasi lain")
				}
			}

			var sum float64
			for _, h := range harvests {
				if h.Status != models.HarvestApproved {
					return store.Invalid("Hanya panen yang sudah disetujui yang dapat diangkut")
				}
				sum += h.WeightKg
				row.Harvests = append(row.Harvests, models.TransportHarvest{HarvestID: h.ID, WeightKg: h.WeightKg})
			}
			row.TotalWeightKg = sum
			if in.TotalWeightKg != nil {
				row.TotalWeightKg = *in.TotalWeightKg
			}
			if row.TotalWeightKg <= 0 {
				return store.Invalid("Total berat harus lebih dari 0 kg")
			}

			return tx.Create(row).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// uniqueIDs membuang id kosong dan duplikat, urutan dipertahankan.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Arrive: dikirim -> sampai. Selisih = berat timbangan PKS - total berat.
func (t *Transports) Arrive(ctx context.Context, id string, millWeightKg float64) error {
	if millWeightKg <= 0 {
		return store.Invalid("Berat timbangan PKS harus lebih dari 0 kg")
	}
	return t.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.Transport]) error {
		row, err := c.Get(ctx, id)
		if err != nil {
			return err
		}
		n, err := c.PatchWhere(ctx, id, store.Eq("status", models.TransportSent), map[string]any{
			"status":              models.TransportArrived,
			"berat_timbangan_pks": millWeightKg,
			"selisih_kg":          millWeightKg - row.TotalWeightKg,
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrInvalidTransition
		}
		return nil
	})
}

// Finish: sampai -> selesai.
func (t *Transports) Finish(ctx context.Context, id string) error {
	return t.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.Transport]) error {
		n, err := c.PatchWhere(ctx, id, store.Eq("status", models.TransportArrived), map[string]any{
			"status": models.TransportFinished,
		})
		if err != nil {
			return err
		}
		if n == 0 {
			if _, err := c.Get(ctx, id); err != nil {
				return err
			}
			return store.ErrInvalidTransition
		}
		return nil
	})
}

type TransportSummary struct {
	Trips         int     `json:"jumlah_pengiriman"`
	TotalWeightKg float64 `json:"total_berat_kg"`
	MillWeightKg  float64 `json:"total_timbangan_pks"`
	DifferenceKg  float64 `json:"total_selisih_kg"`
	EnRoute       int     `json:"dalam_perjalanan"`
	Arrived       int     `json:"sampai"`
	Finished      int     `json:"selesai"`
}

func SummarizeTransports(rows []models.Transport) TransportSummary {
	var s TransportSummary
	for _, t := range rows {
		s.Trips++
		s.TotalWeightKg += t.TotalWeightKg
		if t.MillWeightKg != nil {
			s.MillWeightKg += *t.MillWeightKg
		}
		if t.DifferenceKg != nil {
			s.DifferenceKg += *t.DifferenceKg
		}
		switch t.Status {
		case models.TransportSent:
			s.EnRoute++
		case models.TransportArrived:
			s.Arrived++
		case models.TransportFinished:
			s.Finished++
		}
	}
	return s
}
