package inventory

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportRow satu baris file .xlsx.
type ImportRow struct {
	Line    int                  `json:"baris"`
	Name    string               `json:"nama"`
	Kind    models.InventoryKind `json:"jenis"`
	Unit    string               `json:"satuan"`
	Stock   float64              `json:"stok"`
	Minimum float64              `json:"stok_minimum"`
	Price   float64              `json:"harga"`
}

// urutan kolom bila file tidak punya baris judul
var defaultColumns = []string{"nama", "jenis", "satuan", "stok", "stok minimum", "harga"}

// ParseWorkbook membaca sheet pertama. Baris judul dikenali dari sel
// "Nama"; kolom dipetakan menurut judulnya. Angka yang tidak bisa dibaca
// dianggap 0, jenis yang tidak dikenal menjadi "lainnya".
func ParseWorkbook(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, store.Invalid("File Excel tidak dapat dibaca")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, store.Invalid("File Excel tidak memiliki sheet")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, store.Invalid("Sheet %q tidak dapat dibaca", sheets[0])
	}
	if len(rows) == 0 {
		return nil, store.Invalid("File Excel kosong")
	}

	index := map[string]int{}
	start := 0
	if isHeader(rows[0]) {
		for i, cell := range rows[0] {
			index[normalizeHeader(cell)] = i
		}
		start = 1
	} else {
		for i, name := range defaultColumns {
			index[name] = i
		}
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]ImportRow, 0, len(rows)-start)
	for n := start; n < len(rows); n++ {
		row := rows[n]
		name := cell(row, "nama")
		if name == "" {
			continue
		}
		unit := cell(row, "satuan")
		if unit == "" {
			unit = "unit"
		}
		kind := models.InventoryKind(strings.ToLower(cell(row, "jenis")))
		if !kind.Valid() {
			kind = models.KindOther
		}
		out = append(out, ImportRow{
			Line:    n + 1,
			Name:    name,
			Kind:    kind,
			Unit:    unit,
			Stock:   parseNumber(cell(row, "stok")),
			Minimum: parseNumber(cell(row, "stok minimum")),
			Price:   parseNumber(cell(row, "harga")),
		})
	}
	return out, nil
}

func isHeader(row []string) bool {
	return len(row) > 0 && normalizeHeader(row[0]) == "nama"
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	switch s {
	case "nama barang", "nama item":
		return "nama"
	case "minimum", "stok min", "min":
		return "stok minimum"
	case "harga per satuan", "harga satuan":
		return "harga"
	case "stok awal", "stok saat ini":
		return "stok"
	}
	return s
}

// parseNumber menerima "1500", "1.500" dan "1.500,5".
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if strings.Count(s, ".") > 1 || (strings.Count(s, ".") == 1 && len(s)-strings.Index(s, ".") == 4) {
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

type ImportResult struct {
	Created int `json:"dibuat"`
	Updated int `json:"diperbarui"`
}

// Import menyimpan hasil ParseWorkbook dalam satu transaksi. Barang dengan
// nama yang sama (tanpa beda huruf besar/kecil) diperbarui; stok di file
// dicatat sebagai transaksi masuk.
func (i *Items) Import(ctx context.Context, userID string, rows []ImportRow) (ImportResult, error) {
	var res ImportResult
	if len(rows) == 0 {
		return res, store.Invalid("Tidak ada baris yang dapat diimpor")
	}
	note := strPtr("Import Excel")

	err := i.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.InventoryItem]) error {
		return c.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, r := range rows {
				catID, err := ensureCategory(ctx, tx, r.Kind)
				if err != nil {
					return err
				}

				var item models.InventoryItem
				err = tx.Where("LOWER(nama) = ?", strings.ToLower(r.Name)).First(&item).Error
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					item = models.InventoryItem{CategoryID: &catID, Name: r.Name, Unit: r.Unit, MinimumStock: r.Minimum, UnitPrice: r.Price}
					if err := tx.Create(&item).Error; err != nil {
						return err
					}
					res.Created++
				case err != nil:
					return err
				default:
					if err := tx.Model(&item).Updates(map[string]any{
						"kategori_id":      catID,
						"satuan":           r.Unit,
						"stok_minimum":     r.Minimum,
						"harga_per_satuan": r.Price,
					}).Error; err != nil {
						return err
					}
					res.Updated++
				}

				if r.Stock > 0 {
					if _, err := applyMovement(ctx, tx, item.ID, userID, models.StockIn, StockInput{Quantity: r.Stock, Note: note}); err != nil {
						return err
					}
				}
			}
			return nil
		})
	})
	return res, err
}
