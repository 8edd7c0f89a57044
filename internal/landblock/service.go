package landblock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Blocks daftar blok lahan, urut kode.
type Blocks struct {
	*store.View[models.LandBlock]
}

func (s *Service) Blocks(search string) *Blocks {
	c := store.NewCollection[models.LandBlock](s.db, store.Query{Order: "kode"})
	if strings.TrimSpace(search) != "" {
		c = c.With(store.Search(search, "nama", "kode"))
	}
	return &Blocks{View: store.NewView(c)}
}

func (s *Service) Get(ctx context.Context, id string) (*models.LandBlock, error) {
	return store.NewCollection[models.LandBlock](s.db, store.Query{}).Get(ctx, id)
}

// DuplicateCodeMessage pesan untuk kode blok yang sudah dipakai.
func DuplicateCodeMessage(code string) string {
	return fmt.Sprintf("Kode blok %q sudah digunakan. Silakan gunakan kode yang berbeda.", code)
}

// BlockInput dipakai untuk create (semua field) maupun update (field nil
// tidak diubah).
type BlockInput struct {
	Name               *string             `json:"nama"`
	Code               *string             `json:"kode"`
	AreaHectares       *float64            `json:"luas_hektar"`
	TreeCount          *int                `json:"jumlah_pohon"`
	PlantingYear       *int                `json:"tahun_tanam"`
	SeedType           *string             `json:"jenis_bibit"`
	Latitude           *float64            `json:"latitude"`
	Longitude          *float64            `json:"longitude"`
	PolygonCoordinates json.RawMessage     `json:"polygon_coordinates"`
	Status             *models.BlockStatus `json:"status"`
	Notes              *string             `json:"catatan"`
}

func (in BlockInput) fields() (map[string]any, error) {
	f := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, store.Invalid("Nama blok wajib diisi")
		}
		f["nama"] = name
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, store.Invalid("Kode blok wajib diisi")
		}
		f["kode"] = code
	}
	if in.AreaHectares != nil {
		if *in.AreaHectares <= 0 {
			return nil, store.Invalid("Luas lahan harus lebih dari 0 hektar")
		}
		f["luas_hektar"] = *in.AreaHectares
	}
	if in.TreeCount != nil {
		if *in.TreeCount < 0 {
			return nil, store.Invalid("Jumlah pohon tidak boleh negatif")
		}
		f["jumlah_pohon"] = *in.TreeCount
	}
	if in.PlantingYear != nil {
		if *in.PlantingYear < 1900 || *in.PlantingYear > 2100 {
			return nil, store.Invalid("Tahun tanam tidak valid")
		}
		f["tahun_tanam"] = *in.PlantingYear
	}
	if in.SeedType != nil {
		f["jenis_bibit"] = strings.TrimSpace(*in.SeedType)
	}
	if in.Latitude != nil {
		if *in.Latitude < -90 || *in.Latitude > 90 {
			return nil, store.Invalid("Latitude harus di antara -90 dan 90")
		}
		f["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		if *in.Longitude < -180 || *in.Longitude > 180 {
			return nil, store.Invalid("Longitude harus di antara -180 dan 180")
		}
		f["longitude"] = *in.Longitude
	}
	if len(in.PolygonCoordinates) > 0 && string(in.PolygonCoordinates) != "null" {
		if !json.Valid(in.PolygonCoordinates) {
			return nil, store.Invalid("polygon_coordinates harus JSON yang valid")
		}
		f["polygon_coordinates"] = datatypes.JSON(in.PolygonCoordinates)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, store.Invalid("Status blok tidak dikenal: %s", *in.Status)
		}
		f["status"] = *in.Status
	}
	if in.Notes != nil {
		f["catatan"] = *in.Notes
	}
	return f, nil
}

func (in BlockInput) toModel() (*models.LandBlock, error) {
	if in.Name == nil || in.Code == nil || in.AreaHectares == nil {
		return nil, store.Invalid("Kode, nama dan luas lahan wajib diisi")
	}
	if _, err := in.fields(); err != nil {
		return nil, err
	}

	b := &models.LandBlock{
		Name:         strings.TrimSpace(*in.Name),
		Code:         strings.TrimSpace(*in.Code),
		AreaHectares: *in.AreaHectares,
		PlantingYear: in.PlantingYear,
		SeedType:     in.SeedType,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Status:       models.BlockProductive,
		Notes:        in.Notes,
	}
	if in.TreeCount != nil {
		b.TreeCount = *in.TreeCount
	}
	if in.Status != nil {
		b.Status = *in.Status
	}
	if len(in.PolygonCoordinates) > 0 && string(in.PolygonCoordinates) != "null" {
		b.PolygonCoordinates = datatypes.JSON(in.PolygonCoordinates)
	}
	return b, nil
}

func (b *Blocks) Add(ctx context.Context, in BlockInput) (*models.LandBlock, error) {
	row, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if err := b.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (b *Blocks) Edit(ctx context.Context, id string, in BlockInput) error {
	f, err := in.fields()
	if err != nil {
		return err
	}
	if len(f) == 0 {
		return store.Invalid("Tidak ada perubahan")
	}
	return b.Update(ctx, id, f)
}

// Summary ringkasan yang ditampilkan di halaman lahan.
type Summary struct {
	TotalBlocks int                        `json:"jumlah_blok"`
	TotalArea   float64                    `json:"total_luas"`
	TotalTrees  int                        `json:"total_pohon"`
	ByStatus    map[models.BlockStatus]int `json:"per_status"`
}

func Summarize(rows []models.LandBlock) Summary {
	s := Summary{ByStatus: map[models.BlockStatus]int{}}
	for _, b := range rows {
		s.TotalBlocks++
		s.TotalArea += b.AreaHectares
		s.TotalTrees += b.TreeCount
		s.ByStatus[b.Status]++
	}
	return s
}
