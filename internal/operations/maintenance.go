package operations

import (
	"context"

	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"
)

// Jobs pekerjaan perawatan, terbaru lebih dulu.
type Jobs struct {
	*store.View[models.Maintenance]
}

func (s *Service) maintenance() *store.Collection[models.Maintenance] {
	return store.NewCollection[models.Maintenance](s.db, store.Query{
		Preload: []string{"Block"},
		Order:   "tanggal DESC, created_at DESC",
	})
}

func (s *Service) Jobs(f Filter) *Jobs {
	return &Jobs{View: store.NewView(filtered(s.maintenance(), f))}
}

func (s *Service) GetJob(ctx context.Context, id string) (*models.Maintenance, error) {
	return s.maintenance().Get(ctx, id)
}

type JobInput struct {
	BlockID     string                 `json:"blok_id"`
	Date        string                 `json:"tanggal"`
	Kind        models.MaintenanceKind `json:"jenis_perawatan"`
	Description *string                `json:"deskripsi"`
	WorkerCount *int                   `json:"jumlah_pekerja"`
	Cost        float64                `json:"biaya"`
}

func (j *Jobs) Add(ctx context.Context, officerID string, in JobInput) (*models.Maintenance, error) {
	if err := requireBlock(in.BlockID); err != nil {
		return nil, err
	}
	if !in.Kind.Valid() {
		return nil, store.Invalid("Jenis perawatan tidak valid")
	}
	if in.Cost < 0 {
		return nil, store.Invalid("Biaya tidak boleh negatif")
	}
	if in.WorkerCount != nil && *in.WorkerCount < 0 {
		return nil, store.Invalid("Jumlah pekerja tidak boleh negatif")
	}
	date, err := dateOrToday(in.Date)
	if err != nil {
		return nil, err
	}

	row := &models.Maintenance{
		BlockID:     in.BlockID,
		Date:        date,
		Kind:        in.Kind,
		Description: in.Description,
		OfficerID:   optionalUser(officerID),
		WorkerCount: in.WorkerCount,
		Cost:        in.Cost,
		Status:      models.MaintenanceScheduled,
	}
	if err := j.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (j *Jobs) SetStatus(ctx context.Context, id string, status models.MaintenanceStatus) error {
	if !status.Valid() {
		return store.Invalid("Status perawatan tidak valid")
	}
	return j.Update(ctx, id, map[string]any{"status": status})
}

type JobSummary struct {
	Count      int     `json:"jumlah"`
	InProgress int     `json:"sedang_dikerjakan"`
	Done       int     `json:"selesai"`
	TotalCost  float64 `json:"total_biaya"`
}

func SummarizeJobs(rows []models.Maintenance) JobSummary {
	s := JobSummary{Count: len(rows)}
	for _, r := range rows {
		s.TotalCost += r.Cost
		switch r.Status {
		case models.MaintenanceInProgress:
			s.InProgress++
		case models.MaintenanceDone:
			s.Done++
		}
	}
	return s
}
