package database

import (
	"fmt"
	"time"

	"sawitku-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config dipakai juga oleh koneksi sqlite di test supaya semua waktu UTC.
func Config(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:  logger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), Config(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("koneksi database gagal: %w", err)
	}
	return db, nil
}

type seedCategory struct {
	name string
	kind models.FinanceKind
}

var defaultFinanceCategories = []seedCategory{
	{models.FinanceCategorySales, models.FinanceIncome},
	{"Pendapatan Lain", models.FinanceIncome},
	{models.FinanceCategorySalary, models.FinanceExpense},
	{"Pupuk & Pestisida", models.FinanceExpense},
	{"Transportasi", models.FinanceExpense},
	{"Perawatan", models.FinanceExpense},
}

var defaultInventoryCategories = []struct {
	name string
	kind models.InventoryKind
}{
	{"Pupuk", models.KindFertilizer},
	{"Pestisida", models.KindPesticide},
	{"Alat", models.KindTool},
	{"Lainnya", models.KindOther},
}

// Migrate menjalankan AutoMigrate, index tambahan dan data awal kategori.
// Aman dijalankan berulang.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("AutoMigrate gagal: %w", err)
	}

	// rekap produksi per blok per bulan selalu memfilter blok + tanggal
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_panen_blok_tanggal ON panen (blok_id, tanggal)").Error; err != nil {
		log.Warn("index panen gagal dibuat", zap.Error(err))
	}

	for _, c := range defaultFinanceCategories {
		cat := models.FinanceCategory{}
		if err := db.Where(models.FinanceCategory{Name: c.name, Kind: c.kind}).
			FirstOrCreate(&cat).Error; err != nil {
			return fmt.Errorf("seed kategori keuangan %q: %w", c.name, err)
		}
	}
	for _, c := range defaultInventoryCategories {
		cat := models.InventoryCategory{}
		if err := db.Where(models.InventoryCategory{Name: c.name, Kind: c.kind}).
			FirstOrCreate(&cat).Error; err != nil {
			return fmt.Errorf("seed kategori inventaris %q: %w", c.name, err)
		}
	}

	log.Info("migrasi database selesai", zap.Int("tables", len(models.All())))
	return nil
}
