package models

import (
	"time"

	"gorm.io/datatypes"
)

type ActivityLog struct {
	UUIDKey
	UserID    *string        `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Action    string         `gorm:"column:action;size:20;not null" json:"action"`
	Table     *string        `gorm:"column:table_name;size:50;index" json:"table_name"`
	RecordID  *string        `gorm:"column:record_id;size:36;index" json:"record_id"`
	OldData   datatypes.JSON `gorm:"column:old_data" json:"old_data"`
	NewData   datatypes.JSON `gorm:"column:new_data" json:"new_data"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_log" }
