package models

import (
	"time"

	"gorm.io/datatypes"
)

type BlockStatus string

const (
	BlockProductive  BlockStatus = "produktif"
	BlockFertilizing BlockStatus = "pemupukan"
	BlockMaintenance BlockStatus = "perawatan"
	BlockHarvesting  BlockStatus = "panen"
	BlockInactive    BlockStatus = "tidak_aktif"
)

func (s BlockStatus) Valid() bool {
	switch s {
	case BlockProductive, BlockFertilizing, BlockMaintenance, BlockHarvesting, BlockInactive:
		return true
	}
	return false
}

// LandBlock: blok lahan kebun, unit utama untuk panen, pemupukan, hama.
type LandBlock struct {
	UUIDKey
	Name               string         `gorm:"column:nama;size:100;not null" json:"nama"`
	Code               string         `gorm:"column:kode;size:20;uniqueIndex;not null" json:"kode"`
	AreaHectares       float64        `gorm:"column:luas_hektar;not null" json:"luas_hektar"`
	TreeCount          int            `gorm:"column:jumlah_pohon;not null;default:0" json:"jumlah_pohon"`
	PlantingYear       *int           `gorm:"column:tahun_tanam" json:"tahun_tanam"`
	SeedType           *string        `gorm:"column:jenis_bibit;size:100" json:"jenis_bibit"`
	Latitude           *float64       `gorm:"column:latitude" json:"latitude"`
	Longitude          *float64       `gorm:"column:longitude" json:"longitude"`
	PolygonCoordinates datatypes.JSON `gorm:"column:polygon_coordinates" json:"polygon_coordinates"`
	Status             BlockStatus    `gorm:"size:20;not null;default:produktif;index" json:"status"`
	Notes              *string        `gorm:"column:catatan" json:"catatan"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func (LandBlock) TableName() string { return "blok_lahan" }
