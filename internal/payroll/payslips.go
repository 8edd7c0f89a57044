package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sawitku-backend/internal/finance"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"gorm.io/gorm"
)

const payslipTable = "penggajian"

// Payslips slip gaji beserta pekerjanya, periode terbaru lebih dulu.
type Payslips struct {
	*store.View[models.Payslip]
}

func (s *Service) payslips() *store.Collection[models.Payslip] {
	return store.NewCollection[models.Payslip](s.db, store.Query{
		Preload: []string{"Worker"},
		Order:   "periode_mulai DESC, created_at DESC",
	})
}

func (s *Service) Payslips(status models.PayslipStatus, workerID string) *Payslips {
	c := s.payslips()
	if status != "" {
		c = c.With(store.Eq("status", status))
	}
	if workerID != "" {
		c = c.With(store.Eq("pekerja_id", workerID))
	}
	return &Payslips{View: store.NewView(c)}
}

func (s *Service) GetPayslip(ctx context.Context, id string) (*models.Payslip, error) {
	return s.payslips().Get(ctx, id)
}

type PayslipInput struct {
	WorkerID    string   `json:"pekerja_id"`
	PeriodStart string   `json:"periode_mulai"`
	PeriodEnd   string   `json:"periode_selesai"`
	WorkDays    int      `json:"hari_kerja"`
	HarvestKg   float64  `json:"hasil_panen_kg"`
	BaseSalary  *float64 `json:"gaji_pokok"` // kosong = gaji pokok pekerja
	Bonus       float64  `json:"bonus"`
	Deduction   float64  `json:"potongan"`
	Notes       *string  `json:"catatan"`
}

// Create menyusun slip gaji pending. total_gaji = gaji_pokok + bonus -
// potongan.
func (p *Payslips) Create(ctx context.Context, in PayslipInput) (*models.Payslip, error) {
	if in.WorkerID == "" {
		return nil, store.Invalid("Pekerja wajib dipilih")
	}
	start, err := httputil.ParseDate(in.PeriodStart)
	if err != nil {
		return nil, err
	}
	end, err := httputil.ParseDate(in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, store.Invalid("Periode selesai tidak boleh sebelum periode mulai")
	}
	if in.WorkDays < 0 || in.HarvestKg < 0 || in.Bonus < 0 || in.Deduction < 0 {
		return nil, store.Invalid("Hari kerja, hasil panen, bonus dan potongan tidak boleh negatif")
	}

	row := &models.Payslip{
		WorkerID:    in.WorkerID,
		PeriodStart: start,
		PeriodEnd:   end,
		WorkDays:    in.WorkDays,
		HarvestKg:   in.HarvestKg,
		Bonus:       in.Bonus,
		Deduction:   in.Deduction,
		Status:      models.PayslipPending,
		Notes:       in.Notes,
	}
	err = p.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.Payslip]) error {
		var worker models.Worker
		if err := c.DB().WithContext(ctx).First(&worker, "id = ?", in.WorkerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.Invalid("Pekerja tidak ditemukan")
			}
			return err
		}
		row.BaseSalary = worker.BaseSalary
		if in.BaseSalary != nil {
			if *in.BaseSalary < 0 {
				return store.Invalid("Gaji pokok tidak boleh negatif")
			}
			row.BaseSalary = *in.BaseSalary
		}
		row.Total = row.ComputeTotal()
		if row.Total < 0 {
			return store.Invalid("Potongan melebihi gaji pokok dan bonus")
		}
		return c.Insert(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Pay: pending -> dibayar, dan satu transaksi pengeluaran "Gaji Pekerja"
// yang merujuk slip ini, dalam satu transaksi database.
func (p *Payslips) Pay(ctx context.Context, id, paidOn string) error {
	date, err := httputil.ParseOptionalDate(paidOn)
	if err != nil {
		return err
	}
	if date == nil {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		date = &today
	}

	return p.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.Payslip]) error {
		return c.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			slips := c.WithTx(tx)
			n, err := slips.PatchWhere(ctx, id, store.Eq("status", models.PayslipPending), map[string]any{
				"status":        models.PayslipPaid,
				"tanggal_bayar": *date,
			})
			if err != nil {
				return err
			}
			slip, err := slips.Get(ctx, id)
			if err != nil {
				return err
			}
			if n == 0 {
				return store.ErrInvalidTransition
			}

			name := "pekerja"
			if slip.Worker != nil {
				name = slip.Worker.Name
			}
			entry := &models.FinanceTransaction{
				Date:   *date,
				Kind:   models.FinanceExpense,
				Amount: slip.Total,
				Description: fmt.Sprintf("Gaji %s periode %s s.d. %s", name,
					slip.PeriodStart.Format("02/01/2006"), slip.PeriodEnd.Format("02/01/2006")),
				ReferenceID:    &slip.ID,
				ReferenceTable: strPtr(payslipTable),
			}
			if cat, err := finance.CategoryByName(ctx, tx, models.FinanceCategorySalary); err == nil {
				entry.CategoryID = &cat.ID
			}
			return tx.Create(entry).Error
		})
	})
}

// Delete hanya untuk slip yang belum dibayar.
func (p *Payslips) Delete(ctx context.Context, id string) error {
	return p.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.Payslip]) error {
		res := c.DB().WithContext(ctx).Where("id = ? AND status = ?", id, models.PayslipPending).Delete(&models.Payslip{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		if _, err := c.Get(ctx, id); err != nil {
			return err
		}
		return store.ErrInvalidTransition
	})
}

type PayslipSummary struct {
	Total        float64 `json:"total_gaji"`
	Paid         float64 `json:"total_dibayar"`
	Pending      float64 `json:"total_pending"`
	PaidCount    int     `json:"jumlah_dibayar"`
	PendingCount int     `json:"jumlah_pending"`
}

func SummarizePayslips(rows []models.Payslip) PayslipSummary {
	var s PayslipSummary
	for _, p := range rows {
		s.Total += p.Total
		if p.Status == models.PayslipPaid {
			s.Paid += p.Total
			s.PaidCount++
		} else {
			s.Pending += p.Total
			s.PendingCount++
		}
	}
	return s
}

func strPtr(s string) *string { return &s }
