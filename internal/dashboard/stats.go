// Package dashboard merangkum data beberapa modul menjadi satu ringkasan.
// Setiap panggilan menghitung ulang dari awal.
package dashboard

import (
	"context"
	"strings"
	"time"

	"sawitku-backend/internal/finance"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const defaultStatusColor = "hsl(0, 0%, 50%)"

var statusColors = map[models.BlockStatus]string{
	models.BlockProductive:  "hsl(145, 60%, 45%)",
	models.BlockFertilizing: "hsl(45, 90%, 55%)",
	models.BlockMaintenance: "hsl(200, 70%, 50%)",
	models.BlockHarvesting:  "hsl(30, 80%, 55%)",
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

type StatusSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type ProductionPoint struct {
	Label string  `json:"bulan"`
	Key   string  `json:"kunci"`
	Kg    float64 `json:"produksi"`
}

type Stats struct {
	TotalTBS             float64           `json:"total_tbs"`
	LandArea             float64           `json:"luas_lahan"`
	BlockCount           int               `json:"jumlah_blok"`
	TreeCount            int               `json:"jumlah_pohon"`
	FertilizerStock      float64           `json:"stok_pupuk"`
	FertilizerPercentage float64           `json:"stok_pupuk_persen"`
	ProfitMTD            float64           `json:"profit_mtd"`
	ProfitMargin         float64           `json:"profit_margin"`
	BlockStatus          []StatusSlice     `json:"status_blok"`
	Production           []ProductionPoint `json:"produksi_bulanan"`
}

// StatusLabel: "tidak_aktif" -> "Tidak aktif".
func StatusLabel(s models.BlockStatus) string {
	v := strings.ReplaceAll(string(s), "_", " ")
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}

func StatusColor(s models.BlockStatus) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return defaultStatusColor
}

// StockPercentage stok terhadap minimum dalam persen; 100 bila minimum 0.
func StockPercentage(stock, minimum float64) float64 {
	if minimum <= 0 {
		return 100
	}
	return stock / minimum * 100
}

// Stats menjalankan setiap bacaan secara paralel. Satu bacaan gagal
// membatalkan yang lain.
func (s *Service) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	monthStart := httputil.MonthStart(now)
	seriesStart := monthStart.AddDate(0, -11, 0)

	var (
		out     Stats
		blocks  []models.LandBlock
		stock   []models.InventoryItem
		ledger  []models.FinanceTransaction
		harvest []models.Harvest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Harvest{}).
			Where("status = ? AND tanggal >= ?", models.HarvestApproved, monthStart).
			Select("COALESCE(SUM(berat_kg), 0)").Scan(&out.TotalTBS).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Select("luas_hektar", "jumlah_pohon", "status").Order("kode").Find(&blocks).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("kategori_id IN (?)", s.db.Model(&models.InventoryCategory{}).Select("id").Where("jenis = ?", models.KindFertilizer)).
			Find(&stock).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("tanggal >= ?", monthStart).Find(&ledger).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Select("tanggal", "berat_kg").
			Where("status = ? AND tanggal >= ?", models.HarvestApproved, seriesStart).
			Find(&harvest).Error
	})
	if err := g.Wait(); err != nil {
		s.log.Error("dashboard stats failed", zap.Error(err))
		return nil, err
	}

	out.BlockCount = len(blocks)
	counts := map[models.BlockStatus]int{}
	var order []models.BlockStatus
	for _, b := range blocks {
		out.LandArea += b.AreaHectares
		out.TreeCount += b.TreeCount
		if counts[b.Status] == 0 {
			order = append(order, b.Status)
		}
		counts[b.Status]++
	}
	out.BlockStatus = make([]StatusSlice, 0, len(order))
	for _, st := range order {
		out.BlockStatus = append(out.BlockStatus, StatusSlice{Name: StatusLabel(st), Value: counts[st], Color: StatusColor(st)})
	}

	var minimum float64
	for _, it := range stock {
		out.FertilizerStock += it.CurrentStock
		minimum += it.MinimumStock
	}
	out.FertilizerPercentage = StockPercentage(out.FertilizerStock, minimum)

	sum := finance.Summarize(ledger)
	out.ProfitMTD = sum.Profit
	out.ProfitMargin = finance.Margin(sum.Income, sum.Profit)

	out.Production = ProductionSeries(harvest, now)
	return &out, nil
}

// ProductionSeries 12 bulan berakhir di bulan now, bulan tanpa panen
// bernilai 0.
func ProductionSeries(rows []models.Harvest, now time.Time) []ProductionPoint {
	start := httputil.MonthStart(now).AddDate(0, -11, 0)
	points := make([]ProductionPoint, 12)
	index := make(map[string]int, 12)
	for i := range points {
		m := start.AddDate(0, i, 0)
		key := httputil.MonthKey(m)
		points[i] = ProductionPoint{Label: finance.MonthLabel(m.Month()), Key: key}
		index[key] = i
	}
	for _, h := range rows {
		if i, ok := index[httputil.MonthKey(h.Date)]; ok {
			points[i].Kg += h.WeightKg
		}
	}
	return points
}
