package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UUIDKey primary key uuid, diisi otomatis saat insert.
type UUIDKey struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`
}

func (k *UUIDKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}

// All dipakai AutoMigrate, urutan mengikuti foreign key.
func All() []any {
	return []any{
		&Profile{},
		&LandBlock{},
		&Harvest{},
		&TBSPrice{},
		&Transport{},
		&TransportHarvest{},
		&InventoryCategory{},
		&InventoryItem{},
		&StockTransaction{},
		&Fertilization{},
		&PestReport{},
		&Maintenance{},
		&FinanceCategory{},
		&FinanceTransaction{},
		&Worker{},
		&Payslip{},
		&Notification{},
		&NotificationRead{},
		&ActivityLog{},
	}
}
