package main

import (
	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/dashboard"
	"sawitku-backend/internal/finance"
	"sawitku-backend/internal/harvest"
	"sawitku-backend/internal/inventory"
	"sawitku-backend/internal/landblock"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/notification"
	"sawitku-backend/internal/operations"
	"sawitku-backend/internal/payroll"
	"sawitku-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// registerRoutes: rute statis didaftarkan sebelum rute /:id.
func registerRoutes(app *fiber.App, e *env, objects storage.ObjectStore) {
	db := e.db
	logs := audit.NewLogger(db, e.log)
	notify := notification.NewService(db)

	blocks := landblock.NewService(db)
	harvests := harvest.NewService(db)
	stock := inventory.NewService(db, notify)
	ops := operations.NewService(db, notify)
	ledger := finance.NewService(db)
	payrolls := payroll.NewService(db)
	dash := dashboard.NewService(db, e.log)

	managers := auth.RequireRole(models.RoleAdmin, models.RoleOwner)

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(db, logs))
	api.Post("/auth/login", auth.LoginHandler(db, e.cfg.JWTSecret, logs))

	p := api.Group("", auth.JWTMiddleware(e.cfg.JWTSecret))
	p.Post("/auth/logout", auth.LogoutHandler(logs))
	p.Get("/auth/me", auth.MeHandler(db))
	p.Put("/auth/profile", auth.UpdateProfileHandler(db, logs))
	p.Post("/auth/password", auth.ChangePasswordHandler(db, logs))

	p.Get("/dashboard", dashboard.StatsHandler(dash))
	p.Get("/activity", managers, audit.ListActivityHandler(logs))

	// Blok lahan
	p.Get("/lahan", landblock.ListHandler(blocks))
	p.Get("/lahan/peta", landblock.MapHandler(blocks))
	p.Post("/lahan", landblock.CreateHandler(blocks, logs))
	p.Get("/lahan/:id", landblock.GetHandler(blocks))
	p.Put("/lahan/:id", landblock.UpdateHandler(blocks, logs))
	p.Delete("/lahan/:id", managers, landblock.DeleteHandler(blocks, logs))

	// Panen, harga TBS, transportasi
	p.Get("/panen/harga", harvest.ListPricesHandler(harvests))
	p.Put("/panen/harga", harvest.UpdatePriceHandler(harvests, logs))
	p.Get("/panen/transportasi", harvest.ListTransportsHandler(harvests))
	p.Post("/panen/transportasi", harvest.DispatchHandler(harvests, logs))
	p.Post("/panen/transportasi/:id/sampai", harvest.ArriveHandler(harvests, logs))
	p.Post("/panen/transportasi/:id/selesai", harvest.FinishHandler(harvests, logs))
	p.Get("/panen", harvest.ListHandler(harvests))
	p.Post("/panen", harvest.CreateHandler(harvests, logs))
	p.Get("/panen/:id", harvest.GetHandler(harvests))
	p.Post("/panen/:id/approve", managers, harvest.ApproveHandler(harvests, logs))
	p.Post("/panen/:id/reject", managers, harvest.RejectHandler(harvests, logs))
	p.Post("/panen/:id/foto", harvest.UploadPhotoHandler(harvests, objects, logs))

	// Inventaris
	p.Get("/inventaris/kategori", inventory.ListCategoriesHandler(stock))
	p.Post("/inventaris/import", inventory.ImportHandler(stock, logs))
	p.Get("/inventaris", inventory.ListHandler(stock))
	p.Post("/inventaris", inventory.CreateHandler(stock, logs))
	p.Get("/inventaris/:id", inventory.GetHandler(stock))
	p.Put("/inventaris/:id", inventory.UpdateHandler(stock, logs))
	p.Delete("/inventaris/:id", managers, inventory.DeleteHandler(stock, logs))
	p.Get("/inventaris/:id/stok", inventory.ListTransactionsHandler(stock))
	p.Post("/inventaris/:id/stok", inventory.MoveStockHandler(stock, logs))

	// Operasional
	p.Get("/operasional/pemupukan", operations.ListSchedulesHandler(ops))
	p.Post("/operasional/pemupukan", operations.CreateScheduleHandler(ops, logs))
	p.Put("/operasional/pemupukan/:id", operations.UpdateScheduleHandler(ops, logs))
	p.Post("/operasional/pemupukan/:id/selesai", operations.CompleteScheduleHandler(ops, logs))
	p.Post("/operasional/pemupukan/:id/tunda", operations.DelayScheduleHandler(ops, logs))
	p.Post("/operasional/pemupukan/:id/foto", operations.UploadSchedulePhotoHandler(ops, objects, logs))
	p.Delete("/operasional/pemupukan/:id", managers, operations.DeleteScheduleHandler(ops, logs))

	p.Get("/operasional/hama", operations.ListPestReportsHandler(ops))
	p.Post("/operasional/hama", operations.CreatePestReportHandler(ops, logs))
	p.Put("/operasional/hama/:id/status", operations.UpdatePestStatusHandler(ops, logs))
	p.Post("/operasional/hama/:id/foto", operations.UploadPestPhotoHandler(ops, objects, logs))
	p.Delete("/operasional/hama/:id", managers, operations.DeletePestReportHandler(ops, logs))

	p.Get("/operasional/perawatan", operations.ListJobsHandler(ops))
	p.Post("/operasional/perawatan", operations.CreateJobHandler(ops, logs))
	p.Put("/operasional/perawatan/:id/status", operations.UpdateJobStatusHandler(ops, logs))
	p.Delete("/operasional/perawatan/:id", managers, operations.DeleteJobHandler(ops, logs))

	// Keuangan
	p.Get("/keuangan/kategori", finance.ListCategoriesHandler(ledger))
	p.Post("/keuangan/kategori", managers, finance.CreateCategoryHandler(ledger, logs))
	p.Get("/keuangan/laporan", finance.MonthlyReportHandler(ledger))
	p.Get("/keuangan/prediksi", dashboard.ForecastHandler(dash))
	p.Get("/keuangan/gaji", payroll.ListPayslipsHandler(payrolls))
	p.Post("/keuangan/gaji", payroll.CreatePayslipHandler(payrolls, logs))
	p.Post("/keuangan/gaji/:id/bayar", managers, payroll.PayHandler(payrolls, logs))
	p.Delete("/keuangan/gaji/:id", managers, payroll.DeletePayslipHandler(payrolls, logs))
	p.Get("/keuangan", finance.ListHandler(ledger))
	p.Post("/keuangan", finance.CreateHandler(ledger, logs))
	p.Delete("/keuangan/:id", managers, finance.DeleteHandler(ledger, logs))

	// Pekerja
	p.Get("/pekerja", payroll.ListWorkersHandler(payrolls))
	p.Post("/pekerja", payroll.CreateWorkerHandler(payrolls, logs))
	p.Get("/pekerja/:id", payroll.GetWorkerHandler(payrolls))
	p.Put("/pekerja/:id", payroll.UpdateWorkerHandler(payrolls, logs))
	p.Delete("/pekerja/:id", managers, payroll.DeleteWorkerHandler(payrolls, logs))

	// Notifikasi
	p.Get("/notifikasi", notification.ListHandler(notify))
	p.Post("/notifikasi/baca-semua", notification.MarkAllAsReadHandler(notify))
	p.Post("/notifikasi/:id/baca", notification.MarkAsReadHandler(notify))
}
