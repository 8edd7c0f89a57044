package models

import "time"

type FinanceKind string

const (
	FinanceIncome  FinanceKind = "pendapatan"
	FinanceExpense FinanceKind = "pengeluaran"
)

func (k FinanceKind) Valid() bool {
	return k == FinanceIncome || k == FinanceExpense
}

type FinanceCategory struct {
	UUIDKey
	Name      string      `gorm:"column:nama;size:100;not null" json:"nama"`
	Kind      FinanceKind `gorm:"column:jenis;size:20;not null" json:"jenis"`
	CreatedAt time.Time   `json:"created_at"`
}

func (FinanceCategory) TableName() string { return "kategori_keuangan" }

// FinanceTransaction: referensi_tabel/referensi_id menunjuk sumber otomatis
// (mis. penggajian yang sudah dibayar).
type FinanceTransaction struct {
	UUIDKey
	CategoryID     *string          `gorm:"column:kategori_id;type:uuid;index" json:"kategori_id"`
	Category       *FinanceCategory `gorm:"foreignKey:CategoryID" json:"kategori_keuangan,omitempty"`
	Date           time.Time        `gorm:"column:tanggal;index;not null" json:"tanggal"`
	Kind           FinanceKind      `gorm:"column:jenis;size:20;not null;index" json:"jenis"`
	Amount         float64          `gorm:"column:jumlah;not null" json:"jumlah"`
	Description    string           `gorm:"column:deskripsi;size:255;not null" json:"deskripsi"`
	ReferenceID    *string          `gorm:"column:referensi_id;type:uuid" json:"referensi_id"`
	ReferenceTable *string          `gorm:"column:referensi_tabel;size:50" json:"referensi_tabel"`
	Receipt        *string          `gorm:"column:bukti_transaksi;size:255" json:"bukti_transaksi"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (FinanceTransaction) TableName() string { return "transaksi_keuangan" }

// Kategori bawaan yang dipakai otomatis oleh modul lain.
const (
	FinanceCategorySales  = "Penjualan TBS"
	FinanceCategorySalary = "Gaji Pekerja"
)
