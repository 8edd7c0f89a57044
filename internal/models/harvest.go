package models

import (
	"time"

	"gorm.io/datatypes"
)

type HarvestStatus string

const (
	HarvestPending  HarvestStatus = "pending"
	HarvestApproved HarvestStatus = "approved"
	HarvestRejected HarvestStatus = "rejected"
)

// Harvest: catatan panen TBS per blok. Hanya yang approved dihitung ke
// total produksi.
type Harvest struct {
	UUIDKey
	BlockID     string                      `gorm:"column:blok_id;type:uuid;index;not null" json:"blok_id"`
	Block       *LandBlock                  `gorm:"foreignKey:BlockID" json:"blok_lahan,omitempty"`
	Date        time.Time                   `gorm:"column:tanggal;index;not null" json:"tanggal"`
	BunchCount  int                         `gorm:"column:jumlah_janjang;not null" json:"jumlah_janjang"`
	WeightKg    float64                     `gorm:"column:berat_kg;not null" json:"berat_kg"`
	HarvesterID *string                     `gorm:"column:pemanen_id;type:uuid" json:"pemanen_id"`
	Status      HarvestStatus               `gorm:"size:20;not null;default:pending;index" json:"status"`
	ApprovedBy  *string                     `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt  *time.Time                  `json:"approved_at"`
	Notes       *string                     `gorm:"column:catatan" json:"catatan"`
	Photos      datatypes.JSONSlice[string] `gorm:"column:foto_bukti" json:"foto_bukti"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (Harvest) TableName() string { return "panen" }

// TBSPrice: harga TBS per tanggal, satu baris per hari.
type TBSPrice struct {
	UUIDKey
	Date       time.Time `gorm:"column:tanggal;uniqueIndex;not null" json:"tanggal"`
	PricePerKg float64   `gorm:"column:harga_per_kg;not null" json:"harga_per_kg"`
	Source     *string   `gorm:"column:sumber;size:100" json:"sumber"`
	Notes      *string   `gorm:"column:catatan" json:"catatan"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (TBSPrice) TableName() string { return "harga_tbs" }

type TransportStatus string

const (
	TransportSent     TransportStatus = "dikirim"
	TransportArrived  TransportStatus = "sampai"
	TransportFinished TransportStatus = "selesai"
)

// Transport: pengiriman TBS ke PKS.
type Transport struct {
	UUIDKey
	Date               time.Time          `gorm:"column:tanggal;index;not null" json:"tanggal"`
	VehicleNumber      *string            `gorm:"column:nomor_kendaraan;size:20" json:"nomor_kendaraan"`
	DriverName         *string            `gorm:"column:nama_supir;size:100" json:"nama_supir"`
	MillDestination    string             `gorm:"column:tujuan_pks;size:100;not null" json:"tujuan_pks"`
	TotalWeightKg      float64            `gorm:"column:total_berat_kg;not null" json:"total_berat_kg"`
	MillWeightKg       *float64           `gorm:"column:berat_timbangan_pks" json:"berat_timbangan_pks"`
	DifferenceKg       *float64           `gorm:"column:selisih_kg" json:"selisih_kg"`
	DeliveryNoteNumber *string            `gorm:"column:nomor_surat_jalan;size:50" json:"nomor_surat_jalan"`
	Status             TransportStatus    `gorm:"size:20;not null;default:dikirim" json:"status"`
	Notes              *string            `gorm:"column:catatan" json:"catatan"`
	Harvests           []TransportHarvest `gorm:"foreignKey:TransportID" json:"panen,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func (Transport) TableName() string { return "transportasi" }

type TransportHarvest struct {
	UUIDKey
	TransportID string    `gorm:"column:transportasi_id;type:uuid;index;not null" json:"transportasi_id"`
	HarvestID   string    `gorm:"column:panen_id;type:uuid;uniqueIndex;not null" json:"panen_id"`
	WeightKg    float64   `gorm:"column:berat_kg;not null" json:"berat_kg"`
	CreatedAt   time.Time `json:"created_at"`
}

func (TransportHarvest) TableName() string { return "transportasi_panen" }
