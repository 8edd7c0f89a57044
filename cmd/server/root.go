package main

import (
	"fmt"

	"sawitku-backend/internal/config"
	"sawitku-backend/internal/database"
	"sawitku-backend/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sawitku",
		Short: "Backend SawitKu: blok lahan, panen, inventaris, keuangan dan penggajian kebun sawit",
		Long: `Backend SawitKu membaca konfigurasi dari .env dan environment.

Variabel wajib:
  DATABASE_DSN   DSN PostgreSQL
  JWT_SECRET     minimal 32 karakter

Opsional:
  HTTP_PORT, CORS_ALLOWED_ORIGINS, LOG_LEVEL, LOG_FORMAT,
  MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY, MINIO_BUCKET,
  MINIO_USE_SSL, MINIO_PUBLIC_URL`,
		SilenceUsage: true,
	}
	serve := serveCmd()
	// tanpa subcommand = serve
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	root.AddCommand(serve, migrateCmd())
	return root
}

// setup memuat konfigurasi, logger dan koneksi database.
func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("konfigurasi tidak valid: %w", err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger gagal dibuat: %w", err)
	}
	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Jalankan migrasi skema dan data awal kategori",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.log.Sync()

			if err := database.Migrate(e.db, e.log); err != nil {
				return err
			}
			e.log.Info("migrasi selesai")
			return nil
		},
	}
}
