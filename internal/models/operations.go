package models

import (
	"time"

	"gorm.io/datatypes"
)

type FertilizationStatus string

const (
	FertilizationScheduled FertilizationStatus = "dijadwalkan"
	FertilizationDone      FertilizationStatus = "selesai"
	FertilizationDelayed   FertilizationStatus = "tertunda"
)

type Fertilization struct {
	UUIDKey
	BlockID       string                      `gorm:"column:blok_id;type:uuid;index;not null" json:"blok_id"`
	Block         *LandBlock                  `gorm:"foreignKey:BlockID" json:"blok_lahan,omitempty"`
	ScheduledDate time.Time                   `gorm:"column:tanggal_jadwal;index;not null" json:"tanggal_jadwal"`
	RealizedDate  *time.Time                  `gorm:"column:tanggal_realisasi" json:"tanggal_realisasi"`
	ItemID        *string                     `gorm:"column:inventaris_id;type:uuid" json:"inventaris_id"`
	Item          *InventoryItem              `gorm:"foreignKey:ItemID" json:"inventaris,omitempty"`
	DosePerTree   *float64                    `gorm:"column:dosis_per_pohon" json:"dosis_per_pohon"`
	TotalUsed     *float64                    `gorm:"column:total_digunakan" json:"total_digunakan"`
	Status        FertilizationStatus         `gorm:"size:20;not null;default:dijadwalkan;index" json:"status"`
	OfficerID     *string                     `gorm:"column:petugas_id;type:uuid" json:"petugas_id"`
	Notes         *string                     `gorm:"column:catatan" json:"catatan"`
	Photos        datatypes.JSONSlice[string] `gorm:"column:foto_bukti" json:"foto_bukti"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (Fertilization) TableName() string { return "pemupukan" }

type PestSeverity string

const (
	SeverityLight    PestSeverity = "ringan"
	SeverityModerate PestSeverity = "sedang"
	SeveritySevere   PestSeverity = "berat"
)

func (s PestSeverity) Valid() bool {
	switch s {
	case SeverityLight, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

type PestStatus string

const (
	PestReported PestStatus = "dilaporkan"
	PestHandled  PestStatus = "ditangani"
	PestResolved PestStatus = "selesai"
)

func (s PestStatus) Valid() bool {
	switch s {
	case PestReported, PestHandled, PestResolved:
		return true
	}
	return false
}

// PestReport: laporan hama / penyakit per blok.
type PestReport struct {
	UUIDKey
	BlockID       string                      `gorm:"column:blok_id;type:uuid;index;not null" json:"blok_id"`
	Block         *LandBlock                  `gorm:"foreignKey:BlockID" json:"blok_lahan,omitempty"`
	ReportDate    time.Time                   `gorm:"column:tanggal_laporan;index;not null" json:"tanggal_laporan"`
	Type          string                      `gorm:"column:jenis;size:100;not null" json:"jenis"`
	Severity      *PestSeverity               `gorm:"column:tingkat_serangan;size:10" json:"tingkat_serangan"`
	AffectedTrees *int                        `gorm:"column:jumlah_pohon_terserang" json:"jumlah_pohon_terserang"`
	Action        *string                     `gorm:"column:tindakan" json:"tindakan"`
	Status        PestStatus                  `gorm:"size:20;not null;default:dilaporkan;index" json:"status"`
	ReporterID    *string                     `gorm:"column:pelapor_id;type:uuid" json:"pelapor_id"`
	Photos        datatypes.JSONSlice[string] `gorm:"column:foto_bukti" json:"foto_bukti"`
	Notes         *string                     `gorm:"column:catatan" json:"catatan"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (PestReport) TableName() string { return "hama_penyakit" }

type MaintenanceKind string

const (
	MaintenanceWeeding  MaintenanceKind = "weeding"
	MaintenancePruning  MaintenanceKind = "pruning"
	MaintenanceClearing MaintenanceKind = "pembersihan"
	MaintenanceOther    MaintenanceKind = "lainnya"
)

func (k MaintenanceKind) Valid() bool {
	switch k {
	case MaintenanceWeeding, MaintenancePruning, MaintenanceClearing, MaintenanceOther:
		return true
	}
	return false
}

type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "dijadwalkan"
	MaintenanceInProgress MaintenanceStatus = "sedang_dikerjakan"
	MaintenanceDone       MaintenanceStatus = "selesai"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceDone:
		return true
	}
	return false
}

type Maintenance struct {
	UUIDKey
	BlockID     string                      `gorm:"column:blok_id;type:uuid;index;not null" json:"blok_id"`
	Block       *LandBlock                  `gorm:"foreignKey:BlockID" json:"blok_lahan,omitempty"`
	Date        time.Time                   `gorm:"column:tanggal;index;not null" json:"tanggal"`
	Kind        MaintenanceKind             `gorm:"column:jenis_perawatan;size:20;not null" json:"jenis_perawatan"`
	Description *string                     `gorm:"column:deskripsi" json:"deskripsi"`
	OfficerID   *string                     `gorm:"column:petugas_id;type:uuid" json:"petugas_id"`
	WorkerCount *int                        `gorm:"column:jumlah_pekerja" json:"jumlah_pekerja"`
	Cost        float64                     `gorm:"column:biaya;not null;default:0" json:"biaya"`
	Status      MaintenanceStatus           `gorm:"size:20;not null;default:dijadwalkan" json:"status"`
	Photos      datatypes.JSONSlice[string] `gorm:"column:foto_bukti" json:"foto_bukti"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (Maintenance) TableName() string { return "perawatan" }
