package dashboard

import (
	"context"
	"math"
	"time"

	"sawitku-backend/internal/finance"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
)

const (
	historyMonths         = 6
	DefaultForecastMonths = 5
	MaxForecastMonths     = 12
)

type BlockForecast struct {
	BlockID     string    `json:"blok_id"`
	Code        string    `json:"kode"`
	Name        string    `json:"nama"`
	MonthlyKg   float64   `json:"rata_rata_kg"`
	EstimatedKg []float64 `json:"estimasi_kg"`
	TotalKg     float64   `json:"total_kg"`
}

type MonthForecast struct {
	Label       string  `json:"bulan"`
	Key         string  `json:"kunci"`
	EstimatedKg float64 `json:"estimasi"`
}

type Forecast struct {
	HistoryFrom string          `json:"riwayat_dari"`
	HistoryTo   string          `json:"riwayat_sampai"`
	Months      []MonthForecast `json:"bulanan"`
	Blocks      []BlockForecast `json:"per_blok"`
	TotalKg     float64         `json:"total_kg"`
}

// Forecast memproyeksikan produksi untuk n bulan mulai bulan now. Estimasi
// per blok = rata-rata panen approved per bulan pada 6 bulan penuh
// sebelumnya.
func (s *Service) Forecast(ctx context.Context, now time.Time, n int) (*Forecast, error) {
	if n <= 0 {
		n = DefaultForecastMonths
	}
	to := httputil.MonthStart(now)
	from := to.AddDate(0, -historyMonths, 0)

	var blocks []models.LandBlock
	if err := s.db.WithContext(ctx).Order("kode").Find(&blocks).Error; err != nil {
		return nil, err
	}

	type total struct {
		BlockID string  `gorm:"column:blok_id"`
		Kg      float64 `gorm:"column:kg"`
	}
	var totals []total
	err := s.db.WithContext(ctx).Model(&models.Harvest{}).
		Select("blok_id, SUM(berat_kg) AS kg").
		Where("status = ? AND tanggal >= ? AND tanggal < ?", models.HarvestApproved, from, to).
		Group("blok_id").Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	byBlock := make(map[string]float64, len(totals))
	for _, t := range totals {
		byBlock[t.BlockID] = t.Kg
	}

	return Project(blocks, byBlock, from, to, n), nil
}

// Project menyusun proyeksi dari total panen per blok pada rentang
// [from, to).
func Project(blocks []models.LandBlock, history map[string]float64, from, to time.Time, n int) *Forecast {
	out := &Forecast{
		HistoryFrom: httputil.FormatDate(from),
		HistoryTo:   httputil.FormatDate(to.AddDate(0, 0, -1)),
		Months:      make([]MonthForecast, n),
		Blocks:      make([]BlockForecast, 0, len(blocks)),
	}
	for i := range out.Months {
		m := to.AddDate(0, i, 0)
		out.Months[i] = MonthForecast{
			Label: finance.MonthLabel(m.Month()) + " " + m.Format("2006"),
			Key:   httputil.MonthKey(m),
		}
	}

	for _, b := range blocks {
		mean := round1(history[b.ID] / historyMonths)
		bf := BlockForecast{
			BlockID:     b.ID,
			Code:        b.Code,
			Name:        b.Name,
			MonthlyKg:   mean,
			EstimatedKg: make([]float64, n),
		}
		for i := range bf.EstimatedKg {
			bf.EstimatedKg[i] = mean
			out.Months[i].EstimatedKg += mean
		}
		bf.TotalKg = round1(mean * float64(n))
		out.TotalKg += bf.TotalKg
		out.Blocks = append(out.Blocks, bf)
	}
	for i := range out.Months {
		out.Months[i].EstimatedKg = round1(out.Months[i].EstimatedKg)
	}
	out.TotalKg = round1(out.TotalKg)
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
