package operations

import (
	"context"
	"fmt"
	"strings"

	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"gorm.io/gorm"
)

// PestReports laporan hama/penyakit, terbaru lebih dulu.
type PestReports struct {
	*store.View[models.PestReport]
	svc *Service
}

func (s *Service) pestReports() *store.Collection[models.PestReport] {
	return store.NewCollection[models.PestReport](s.db, store.Query{
		Preload: []string{"Block"},
		Order:   "tanggal_laporan DESC, created_at DESC",
	})
}

func (s *Service) PestReports(f Filter) *PestReports {
	return &PestReports{View: store.NewView(filtered(s.pestReports(), f)), svc: s}
}

func (s *Service) GetPestReport(ctx context.Context, id string) (*models.PestReport, error) {
	return s.pestReports().Get(ctx, id)
}

type PestInput struct {
	BlockID       string               `json:"blok_id"`
	ReportDate    string               `json:"tanggal_laporan"` // kosong = hari ini
	Type          string               `json:"jenis"`
	Severity      *models.PestSeverity `json:"tingkat_serangan"`
	AffectedTrees *int                 `json:"jumlah_pohon_terserang"`
	Action        *string              `json:"tindakan"`
	Notes         *string              `json:"catatan"`
}

// Report mencatat laporan baru (dilaporkan). Serangan berat juga
// menghasilkan notifikasi peringatan dalam transaksi yang sama.
func (p *PestReports) Report(ctx context.Context, reporterID string, in PestInput) (*models.PestReport, error) {
	if err := requireBlock(in.BlockID); err != nil {
		return nil, err
	}
	kind := strings.TrimSpace(in.Type)
	if kind == "" {
		return nil, store.Invalid("Jenis hama/penyakit wajib diisi")
	}
	if in.Severity != nil && !in.Severity.Valid() {
		return nil, store.Invalid("Tingkat serangan tidak valid")
	}
	if in.AffectedTrees != nil && *in.AffectedTrees < 0 {
		return nil, store.Invalid("Jumlah pohon terserang tidak boleh negatif")
	}
	date, err := dateOrToday(in.ReportDate)
	if err != nil {
		return nil, err
	}

	row := &models.PestReport{
		BlockID:       in.BlockID,
		ReportDate:    date,
		Type:          kind,
		Severity:      in.Severity,
		AffectedTrees: in.AffectedTrees,
		Action:        in.Action,
		Status:        models.PestReported,
		ReporterID:    optionalUser(reporterID),
		Notes:         in.Notes,
	}
	err = p.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.PestReport]) error {
		return c.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			if row.Severity == nil || *row.Severity != models.SeveritySevere || p.svc.notify == nil {
				return nil
			}
			var block models.LandBlock
			if err := tx.Select("kode").First(&block, "id = ?", row.BlockID).Error; err != nil {
				return err
			}
			link := "/operasional/hama"
			return p.svc.notify.Notify(ctx, tx, &models.Notification{
				Title:   "Serangan hama berat",
				Message: fmt.Sprintf("%s dilaporkan di blok %s", row.Type, block.Code),
				Kind:    models.NotifyError,
				Link:    &link,
			})
		})
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// SetStatus dilaporkan -> ditangani -> selesai. Urutan tidak dipaksakan.
func (p *PestReports) SetStatus(ctx context.Context, id string, status models.PestStatus, action *string) error {
	if !status.Valid() {
		return store.Invalid("Status laporan tidak valid")
	}
	f := map[string]any{"status": status}
	if action != nil {
		f["tindakan"] = *action
	}
	return p.Update(ctx, id, f)
}

func (p *PestReports) AttachPhoto(ctx context.Context, id, url string) error {
	return attachPhoto(ctx, p.View, id, url, func(r *models.PestReport) []string { return r.Photos })
}

type PestSummary struct {
	Reported      int `json:"dilaporkan"`
	Handled       int `json:"ditangani"`
	Resolved      int `json:"selesai"`
	Severe        int `json:"serangan_berat"`
	AffectedTrees int `json:"pohon_terserang"`
}

// SummarizePests: pohon terserang hanya dihitung dari laporan yang belum
// selesai.
func SummarizePests(rows []models.PestReport) PestSummary {
	var s PestSummary
	for _, r := range rows {
		switch r.Status {
		case models.PestReported:
			s.Reported++
		case models.PestHandled:
			s.Handled++
		case models.PestResolved:
			s.Resolved++
		}
		if r.Status == models.PestResolved {
			continue
		}
		if r.Severity != nil && *r.Severity == models.SeveritySevere {
			s.Severe++
		}
		if r.AffectedTrees != nil {
			s.AffectedTrees += *r.AffectedTrees
		}
	}
	return s
}
