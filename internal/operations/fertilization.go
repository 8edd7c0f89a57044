package operations

import (
	"context"

	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"
)

// Schedules jadwal pemupukan, urut tanggal jadwal terdekat.
type Schedules struct {
	*store.View[models.Fertilization]
}

func (s *Service) fertilizations() *store.Collection[models.Fertilization] {
	return store.NewCollection[models.Fertilization](s.db, store.Query{
		Preload: []string{"Block", "Item"},
		Order:   "tanggal_jadwal ASC",
	})
}

func (s *Service) Schedules(f Filter) *Schedules {
	return &Schedules{View: store.NewView(filtered(s.fertilizations(), f))}
}

func (s *Service) GetSchedule(ctx context.Context, id string) (*models.Fertilization, error) {
	return s.fertilizations().Get(ctx, id)
}

type ScheduleInput struct {
	BlockID       *string  `json:"blok_id"`
	ScheduledDate *string  `json:"tanggal_jadwal"`
	ItemID        *string  `json:"inventaris_id"`
	DosePerTree   *float64 `json:"dosis_per_pohon"`
	Notes         *string  `json:"catatan"`
}

func (in ScheduleInput) fields() (map[string]any, error) {
	f := map[string]any{}
	if in.BlockID != nil {
		if err := requireBlock(*in.BlockID); err != nil {
			return nil, err
		}
		f["blok_id"] = *in.BlockID
	}
	if in.ScheduledDate != nil {
		d, err := httputil.ParseDate(*in.ScheduledDate)
		if err != nil {
			return nil, err
		}
		f["tanggal_jadwal"] = d
	}
	if in.ItemID != nil {
		if *in.ItemID == "" {
			f["inventaris_id"] = nil
		} else {
			f["inventaris_id"] = *in.ItemID
		}
	}
	if in.DosePerTree != nil {
		if *in.DosePerTree < 0 {
			return nil, store.Invalid("Dosis per pohon tidak boleh negatif")
		}
		f["dosis_per_pohon"] = *in.DosePerTree
	}
	if in.Notes != nil {
		f["catatan"] = *in.Notes
	}
	return f, nil
}

// Schedule membuat jadwal baru dengan status dijadwalkan.
func (s *Schedules) Schedule(ctx context.Context, officerID string, in ScheduleInput) (*models.Fertilization, error) {
	if in.BlockID == nil || in.ScheduledDate == nil {
		return nil, store.Invalid("Blok dan tanggal jadwal wajib diisi")
	}
	if _, err := in.fields(); err != nil {
		return nil, err
	}
	date, _ := httputil.ParseDate(*in.ScheduledDate)
	row := &models.Fertilization{
		BlockID:       *in.BlockID,
		ScheduledDate: date,
		DosePerTree:   in.DosePerTree,
		Status:        models.FertilizationScheduled,
		OfficerID:     optionalUser(officerID),
		Notes:         in.Notes,
	}
	if in.ItemID != nil && *in.ItemID != "" {
		row.ItemID = in.ItemID
	}
	if err := s.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Schedules) Edit(ctx context.Context, id string, in ScheduleInput) error {
	f, err := in.fields()
	if err != nil {
		return err
	}
	if len(f) == 0 {
		return store.Invalid("Tidak ada data yang diubah")
	}
	return s.Update(ctx, id, f)
}

type CompleteInput struct {
	RealizedDate string   `json:"tanggal_realisasi"` // kosong = hari ini
	TotalUsed    *float64 `json:"total_digunakan"`
}

// Complete menandai pemupukan selesai.
func (s *Schedules) Complete(ctx context.Context, id string, in CompleteInput) error {
	date, err := dateOrToday(in.RealizedDate)
	if err != nil {
		return err
	}
	f := map[string]any{
		"status":            models.FertilizationDone,
		"tanggal_realisasi": date,
	}
	if in.TotalUsed != nil {
		if *in.TotalUsed < 0 {
			return store.Invalid("Total digunakan tidak boleh negatif")
		}
		f["total_digunakan"] = *in.TotalUsed
	}
	return s.Update(ctx, id, f)
}

// Delay menandai jadwal tertunda; alasan opsional masuk ke catatan.
func (s *Schedules) Delay(ctx context.Context, id string, reason *string) error {
	f := map[string]any{"status": models.FertilizationDelayed}
	if reason != nil && *reason != "" {
		f["catatan"] = *reason
	}
	return s.Update(ctx, id, f)
}

func (s *Schedules) AttachPhoto(ctx context.Context, id, url string) error {
	return attachPhoto(ctx, s.View, id, url, func(r *models.Fertilization) []string { return r.Photos })
}

type ScheduleSummary struct {
	Scheduled int     `json:"dijadwalkan"`
	Done      int     `json:"selesai"`
	Delayed   int     `json:"tertunda"`
	TotalUsed float64 `json:"total_digunakan"`
}

func SummarizeSchedules(rows []models.Fertilization) ScheduleSummary {
	var s ScheduleSummary
	for _, r := range rows {
		switch r.Status {
		case models.FertilizationScheduled:
			s.Scheduled++
		case models.FertilizationDone:
			s.Done++
		case models.FertilizationDelayed:
			s.Delayed++
		}
		if r.TotalUsed != nil {
			s.TotalUsed += *r.TotalUsed
		}
	}
	return s
}
