package models

import "time"

type NotificationKind string

const (
	NotifyInfo    NotificationKind = "info"
	NotifyWarning NotificationKind = "warning"
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification: user_id NULL berarti untuk semua user.
type Notification struct {
	UUIDKey
	UserID    *string          `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Title     string           `gorm:"column:judul;size:150;not null" json:"judul"`
	Message   string           `gorm:"column:pesan;not null" json:"pesan"`
	Kind      NotificationKind `gorm:"column:jenis;size:10;not null;default:info" json:"jenis"`
	Read      bool             `gorm:"column:dibaca;not null;default:false;index" json:"dibaca"`
	Link      *string          `gorm:"column:link;size:255" json:"link"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifikasi" }

// NotificationRead penanda baca per user untuk notifikasi broadcast.
// Notifikasi pribadi memakai kolom dibaca miliknya sendiri.
type NotificationRead struct {
	NotificationID string    `gorm:"column:notifikasi_id;type:uuid;primaryKey" json:"notifikasi_id"`
	UserID         string    `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	ReadAt         time.Time `gorm:"column:dibaca_pada;not null" json:"dibaca_pada"`
}

func (NotificationRead) TableName() string { return "notifikasi_dibaca" }
