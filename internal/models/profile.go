package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMandor UserRole = "mandor"
	RoleOwner  UserRole = "owner"
)

type Profile struct {
	UUIDKey
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	Role         UserRole  `gorm:"size:20;not null;default:mandor" json:"role"`
	Phone        *string   `gorm:"size:30" json:"phone"`
	AvatarURL    *string   `gorm:"size:255" json:"avatar_url"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
