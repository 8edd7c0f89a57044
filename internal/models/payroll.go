package models

import "time"

type ContractType string

const (
	ContractPermanent ContractType = "tetap"
	ContractDaily     ContractType = "harian"
	ContractPiecework ContractType = "borongan"
)

func (c ContractType) Valid() bool {
	switch c {
	case ContractPermanent, ContractDaily, ContractPiecework:
		return true
	}
	return false
}

type WorkerStatus string

const (
	WorkerActive   WorkerStatus = "aktif"
	WorkerInactive WorkerStatus = "tidak_aktif"
)

type Worker struct {
	UUIDKey
	Name         string       `gorm:"column:nama;size:100;not null" json:"nama"`
	NIK          *string      `gorm:"column:nik;size:20;uniqueIndex" json:"nik"`
	Address      *string      `gorm:"column:alamat" json:"alamat"`
	Phone        *string      `gorm:"column:telepon;size:30" json:"telepon"`
	JoinDate     *time.Time   `gorm:"column:tanggal_masuk" json:"tanggal_masuk"`
	ContractType ContractType `gorm:"column:jenis_kontrak;size:20;not null;default:harian" json:"jenis_kontrak"`
	BaseSalary   float64      `gorm:"column:gaji_pokok;not null;default:0" json:"gaji_pokok"`
	Status       WorkerStatus `gorm:"size:20;not null;default:aktif" json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Worker) TableName() string { return "pekerja" }

type PayslipStatus string

const (
	PayslipPending PayslipStatus = "pending"
	PayslipPaid    PayslipStatus = "dibayar"
)

// Payslip: total_gaji = gaji_pokok + bonus - potongan.
type Payslip struct {
	UUIDKey
	WorkerID    string        `gorm:"column:pekerja_id;type:uuid;index;not null" json:"pekerja_id"`
	Worker      *Worker       `gorm:"foreignKey:WorkerID" json:"pekerja,omitempty"`
	PeriodStart time.Time     `gorm:"column:periode_mulai;not null" json:"periode_mulai"`
	PeriodEnd   time.Time     `gorm:"column:periode_selesai;not null" json:"periode_selesai"`
	WorkDays    int           `gorm:"column:hari_kerja;not null;default:0" json:"hari_kerja"`
	HarvestKg   float64       `gorm:"column:hasil_panen_kg;not null;default:0" json:"hasil_panen_kg"`
	BaseSalary  float64       `gorm:"column:gaji_pokok;not null;default:0" json:"gaji_pokok"`
	Bonus       float64       `gorm:"column:bonus;not null;default:0" json:"bonus"`
	Deduction   float64       `gorm:"column:potongan;not null;default:0" json:"potongan"`
	Total       float64       `gorm:"column:total_gaji;not null;default:0" json:"total_gaji"`
	Status      PayslipStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	PaidAt      *time.Time    `gorm:"column:tanggal_bayar" json:"tanggal_bayar"`
	Notes       *string       `gorm:"column:catatan" json:"catatan"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Payslip) TableName() string { return "penggajian" }

func (p Payslip) ComputeTotal() float64 {
	return p.BaseSalary + p.Bonus - p.Deduction
}
