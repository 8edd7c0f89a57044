package models

import (
	"time"

	"gorm.io/gorm"
)

type InventoryKind string

const (
	KindFertilizer InventoryKind = "pupuk"
	KindPesticide  InventoryKind = "pestisida"
	KindTool       InventoryKind = "alat"
	KindOther      InventoryKind = "lainnya"
)

func (k InventoryKind) Valid() bool {
	switch k {
	case KindFertilizer, KindPesticide, KindTool, KindOther:
		return true
	}
	return false
}

type InventoryCategory struct {
	UUIDKey
	Name      string        `gorm:"column:nama;size:100;not null" json:"nama"`
	Kind      InventoryKind `gorm:"column:jenis;size:20;not null;index" json:"jenis"`
	CreatedAt time.Time     `json:"created_at"`
}

func (InventoryCategory) TableName() string { return "kategori_inventaris" }

// InventoryItem: stok_saat_ini hanya berubah lewat StockTransaction.
type InventoryItem struct {
	UUIDKey
	CategoryID      *string            `gorm:"column:kategori_id;type:uuid;index" json:"kategori_id"`
	Category        *InventoryCategory `gorm:"foreignKey:CategoryID" json:"kategori_inventaris,omitempty"`
	Name            string             `gorm:"column:nama;size:100;not null" json:"nama"`
	Unit            string             `gorm:"column:satuan;size:20;not null" json:"satuan"`
	CurrentStock    float64            `gorm:"column:stok_saat_ini;not null;default:0" json:"stok_saat_ini"`
	MinimumStock    float64            `gorm:"column:stok_minimum;not null;default:0" json:"stok_minimum"`
	UnitPrice       float64            `gorm:"column:harga_per_satuan;not null;default:0" json:"harga_per_satuan"`
	StorageLocation *string            `gorm:"column:lokasi_penyimpanan;size:100" json:"lokasi_penyimpanan"`
	Notes           *string            `gorm:"column:catatan" json:"catatan"`
	LowStock        bool               `gorm:"-" json:"stok_menipis"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func (InventoryItem) TableName() string { return "inventaris" }

func (i InventoryItem) IsLowStock() bool {
	return i.CurrentStock <= i.MinimumStock
}

func (i *InventoryItem) AfterFind(tx *gorm.DB) error {
	i.LowStock = i.IsLowStock()
	return nil
}

type StockDirection string

const (
	StockIn  StockDirection = "masuk"
	StockOut StockDirection = "keluar"
)

// StockTransaction append-only, tidak pernah diupdate.
type StockTransaction struct {
	UUIDKey
	ItemID    string         `gorm:"column:inventaris_id;type:uuid;index;not null" json:"inventaris_id"`
	Direction StockDirection `gorm:"column:jenis;size:10;not null" json:"jenis"`
	Quantity  float64        `gorm:"column:jumlah;not null" json:"jumlah"`
	Date      time.Time      `gorm:"column:tanggal;index;not null" json:"tanggal"`
	Note      *string        `gorm:"column:keterangan;size:255" json:"keterangan"`
	UserID    *string        `gorm:"column:user_id;type:uuid" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
}

func (StockTransaction) TableName() string { return "transaksi_stok" }
