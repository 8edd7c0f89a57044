package harvest

import (
	"context"
	"strconv"
	"strings"

	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"gorm.io/gorm/clause"
)

const priceHistoryLimit = 30

// Prices 30 harga TBS terakhir, terbaru lebih dulu.
type Prices struct {
	*store.View[models.TBSPrice]
}

func (s *Service) Prices() *Prices {
	c := store.NewCollection[models.TBSPrice](s.db, store.Query{
		Order: "tanggal DESC",
		Limit: priceHistoryLimit,
	})
	return &Prices{View: store.NewView(c)}
}

type PriceInput struct {
	Date       string  `json:"tanggal"`
	PricePerKg float64 `json:"harga_per_kg"`
	Source     *string `json:"sumber"`
	Notes      *string `json:"catatan"`
}

// UpdatePrice upsert harga per tanggal: tanggal yang sama ditimpa.
func (p *Prices) UpdatePrice(ctx context.Context, in PriceInput) (*models.TBSPrice, error) {
	date, err := httputil.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if in.PricePerKg <= 0 {
		return nil, store.Invalid("Harga per kg harus lebih dari 0")
	}
	if in.Source != nil {
		src := strings.TrimSpace(*in.Source)
		in.Source = &src
	}

	row := &models.TBSPrice{Date: date, PricePerKg: in.PricePerKg, Source: in.Source, Notes: in.Notes}
	err = p.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.TBSPrice]) error {
		db := c.DB().WithContext(ctx)
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tanggal"}},
			DoUpdates: clause.AssignmentColumns([]string{"harga_per_kg", "sumber", "catatan", "updated_at"}),
		}).Create(row).Error
		if err != nil {
			return err
		}
		// saat konflik, id di row adalah id baru yang tidak tersimpan
		var stored models.TBSPrice
		if err := db.First(&stored, "tanggal = ?", date).Error; err != nil {
			return err
		}
		*row = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

type PriceSummary struct {
	Latest        float64 `json:"harga_terkini"`
	Previous      float64 `json:"harga_sebelumnya"`
	Change        float64 `json:"perubahan"`
	ChangePercent string  `json:"perubahan_persen"`
	Average       float64 `json:"rata_rata"`
	Highest       float64 `json:"tertinggi"`
	Lowest        float64 `json:"terendah"`
}

// ChangePercent persentase perubahan dengan 1 desimal, "0" bila belum ada
// harga sebelumnya.
func ChangePercent(latest, previous float64) string {
	if previous <= 0 {
		return "0"
	}
	return strconv.FormatFloat((latest-previous)/previous*100, 'f', 1, 64)
}

// SummarizePrices: rows urut tanggal menurun (rows[0] terbaru).
func SummarizePrices(rows []models.TBSPrice) PriceSummary {
	s := PriceSummary{ChangePercent: "0"}
	if len(rows) == 0 {
		return s
	}
	s.Latest = rows[0].PricePerKg
	if len(rows) > 1 {
		s.Previous = rows[1].PricePerKg
	}
	s.Change = s.Latest - s.Previous
	if s.Previous == 0 {
		s.Change = 0
	}
	s.ChangePercent = ChangePercent(s.Latest, s.Previous)

	s.Highest, s.Lowest = rows[0].PricePerKg, rows[0].PricePerKg
	var total float64
	for _, r := range rows {
		total += r.PricePerKg
		if r.PricePerKg > s.Highest {
			s.Highest = r.PricePerKg
		}
		if r.PricePerKg < s.Lowest {
			s.Lowest = r.PricePerKg
		}
	}
	s.Average = total / float64(len(rows))
	return s
}
