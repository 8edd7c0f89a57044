package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sawitku-backend/internal/database"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Jalankan HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.log.Sync()

			if !skipMigrate {
				if err := database.Migrate(e.db, e.log); err != nil {
					return err
				}
			}
			if e.cfg.UsesDefaultCORS() {
				e.log.Warn("CORS_ALLOWED_ORIGINS masih default", zap.String("origins", e.cfg.CORSOrigins))
			}

			objects := openStorage(e)

			app := fiber.New(fiber.Config{
				ErrorHandler: httputil.ErrorHandler(e.log),
				BodyLimit:    10 * 1024 * 1024,
			})
			app.Use(recover.New())
			app.Use(fiberlogger.New())
			app.Use(cors.New(cors.Config{
				AllowOrigins: strings.Join(e.cfg.AllowedOrigins(), ","),
				AllowHeaders: "Origin, Content-Type, Accept, Authorization",
				AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
			}))

			registerRoutes(app, e, objects)

			go func() {
				quit := make(chan os.Signal, 1)
				signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
				<-quit
				e.log.Info("server berhenti")
				_ = app.ShutdownWithTimeout(10 * time.Second)
			}()

			e.log.Info("server berjalan", zap.String("port", e.cfg.HTTPPort))
			return app.Listen(":" + e.cfg.HTTPPort)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "jangan jalankan migrasi saat start")
	return cmd
}

// openStorage mengembalikan nil bila MinIO tidak dikonfigurasi atau gagal;
// endpoint upload foto lalu menjawab 503.
func openStorage(e *env) storage.ObjectStore {
	if e.cfg.MinIO.Endpoint == "" {
		e.log.Info("MINIO_ENDPOINT kosong, upload foto dimatikan")
		return nil
	}
	objects, err := storage.NewMinIO(e.cfg.MinIO)
	if err != nil {
		e.log.Error("MinIO tidak dapat dipakai", zap.Error(err))
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := objects.EnsureBucket(ctx); err != nil {
		e.log.Error("bucket MinIO tidak tersedia", zap.Error(err), zap.String("bucket", e.cfg.MinIO.Bucket))
		return nil
	}
	return objects
}
