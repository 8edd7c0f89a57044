package payroll_test

import (
	"net/http"
	"testing"

	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/finance"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/payroll"
	"sawitku-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newApp(db *gorm.DB) *fiber.App {
	svc := payroll.NewService(db)
	ledger := finance.NewService(db)
	logs := audit.NewLogger(db, zap.NewNop())
	managers := auth.RequireRole(models.RoleAdmin, models.RoleOwner)

	app := testutil.NewApp()
	api := testutil.Protect(app.Group("/api"))
	api.Get("/pekerja", payroll.ListWorkersHandler(svc))
	api.Post("/pekerja", payroll.CreateWorkerHandler(svc, logs))
	api.Get("/pekerja/:id", payroll.GetWorkerHandler(svc))
	api.Put("/pekerja/:id", payroll.UpdateWorkerHandler(svc, logs))
	api.Delete("/pekerja/:id", managers, payroll.DeleteWorkerHandler(svc, logs))
	api.Get("/keuangan/gaji", payroll.ListPayslipsHandler(svc))
	api.Post("/keuangan/gaji", payroll.CreatePayslipHandler(svc, logs))
	api.Post("/keuangan/gaji/:id/bayar", managers, payroll.PayHandler(svc, logs))
	api.Delete("/keuangan/gaji/:id", managers, payroll.DeletePayslipHandler(svc, logs))
	api.Delete("/keuangan/:id", managers, finance.DeleteHandler(ledger, logs))
	return app
}

type workersResponse struct {
	Item    models.Worker         `json:"item"`
	Data    []models.Worker       `json:"data"`
	Summary payroll.WorkerSummary `json:"summary"`
}

type payslipsResponse struct {
	Item    models.Payslip         `json:"item"`
	Data    []models.Payslip       `json:"data"`
	Summary payroll.PayslipSummary `json:"summary"`
}

func createWorker(t *testing.T, app *fiber.App, token string, body fiber.Map) models.Worker {
	t.Helper()
	var out workersResponse
	require.Equal(t, http.StatusCreated, testutil.Do(t, app, http.MethodPost, "/api/pekerja", token, body, &out))
	return out.Item
}

func TestWorkerCRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db)
	admin := testutil.Token(t, testutil.CreateUser(t, db, "admin@sawitku.test", models.RoleAdmin))

	budi := createWorker(t, app, admin, fiber.Map{
		"nama": "Budi", "nik": "3271000000000001", "jenis_kontrak": "tetap", "gaji_pokok": 3500000,
	})
	createWorker(t, app, admin, fiber.Map{"nama": "Agus", "jenis_kontrak": "borongan", "gaji_pokok": 2000000})

	var list workersResponse
	require.Equal(t, http.StatusOK, testutil.Do(t, app, http.MethodGet, "/api/pekerja", admin, nil, &list))
	require.Len(t, list.Data, 2)
	assert.Equal(t, "Agus", list.Data[0].Name)
	assert.Equal(t, 2, list.Summary.Active)
	assert.Equal(t, 5500000.0, list.Summary.MonthlyTotal)
	assert.Equal(t, 1, list.Summary.ByContract[models.ContractPermanent])

	require.Equal(t, http.StatusOK, testutil.Do(t, app, http.MethodPut, "/api/pekerja/"+budi.ID, admin,
		fiber.Map{"status": "tidak_aktif"}, &list))
	assert.Equal(t, models.WorkerInactive, list.Item.Status)
	assert.Equal(t, 1, list.Summary.Active)

	require.Equal(t, http.StatusOK, testutil.Do(t, app, http.MethodGet, "/api/pekerja?status=aktif", admin, nil, &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Agus", list.Data[0].Name)

	var one models.Worker
	require.Equal(t, http.StatusOK, testutil.Do(t, app, http.MethodGet, "/api/pekerja/"+budi.ID, admin, nil, &one))
	assert.Equal(t, "3271000000000001", *one.NIK)
}

func TestClearingNIKStoresNull(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db)
	admin := testutil.Token(t, testutil.CreateUser(t, db, "admin@sawitku.test", models.RoleAdmin))

	budi := createWorker(t, app, admin, fiber.Map{"nama": "Budi", "nik": "3271000000000001"})
	agus := createWorker(t, app, admin, fiber.Map{"nama": "Agus", "nik": "3271000000000002"})
	createWorker(t, app, admin, fiber.Map{"nama": "Sari", "nik": ""})
	createWorker(t, app, admin, fiber.Map{"nama": "Joko", "nik": " "})

	for _, w := range []models.Worker{budi, agus} {
		var out workersResponse
		require.Equal(t, http.StatusOK, testutil.Do(t, app, http.MethodPut, "/api/pekerja/"+w.ID, admin,
			fiber.Map{"nik": ""}, &out), w.Name)
		assert.Nil(t, out.Item.NIK, w.Name)
	}

	var blank int64
	require.NoError(t, db.Model(&models.Worker{}).Where("nik IS NULL").Count(&blank).Error)
	assert.Equal(t, int64(4), blank)
}

func TestWorkerValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db)
	token := testutil.Token(t, testutil.CreateUser(t, db, "mandor@sawitku.test", models.RoleMandor))

	cases := []fiber.Map{
		{"nama": " "},
		{"nama": "Budi", "jenis_kontrak": "kontrak"},
		{"nama": "Budi", "gaji_pokok": -1},
		{"nama": "Budi", "nik": "123"},
		{"jenis_kontrak": "harian"},
	}
	for _, body := range cases {
		assert.Equal(t, http.StatusBadRequest, testutil.Do(t, app, http.MethodPost, "/api/pekerja", token, body, nil), body)
	}
}

func TestPayslipTotalDefaultsToWorkerSalary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db)
	admin := testutil.Token(t, testutil.CreateUser(t, db, "admin@sawitku.test", models.RoleAdmin))
	w := createWorker(t, app, admin, fiber.Map{"nama": "Budi", "gaji_pokok": 3000000})

	var out payslipsResponse
	require.Equal(t, http.StatusCreated, testutil.Do(t, app, http.MethodPost, "/api/keuangan/gaji", admin, fiber.Map{
		"pekerja_id": w.ID, "periode_mulai": "2024-06-01", "periode_selesai": "2024-06-30",
		"hari_kerja": 25, "bonus": 500000, "potongan": 200000,
	}, &out))
	assert.Equal(t, 3000000.0, out.Item.BaseSalary)
	assert.Equal(t, 3300000.0, out.Item.Total)
	assert.Equal(t, models.PayslipPending, out.Item.Status)
	assert.Equal(t, payroll.PayslipSummary{Total: 3300000, Pending: 3300000, PendingCount: 1}, out.Summary)

	require.Len(t, out.Data, 1)
	require.NotNil(t, out.Data[0].Worker)
	assert.Equal(t, "Budi", out.Data[0].Worker.Name)
}

func TestPayslipValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db)
	admin := testutil.Token(t, testutil.CreateUser(t, db, "admin@sawitku.test", models.RoleAdmin))
	w := createWorker(t, app, admin, fiber.Map{"nama": "Budi", "gaji_pokok": 1000000})

	cases := []fiber.Map{
		{"periode_mulai": "2024-06-01", "periode_selesai": "2024-06-30"},
		{"pekerja_id": w.ID, "periode_mulai": "2024-06-30", "periode_selesai": "2024-06-01"},
		{"pekerja_id": w.ID, "periode_mulai": "30/06/2024", "periode_selesai": "2024-06-30"},
		{"pekerja_id": w.ID, "periode_mulai": "2024-06-01", "periode_selesai": "2024-06-30", "potongan": 2000000},
		{"pekerja_id": w.ID, "periode_mulai": "2024-06-01", "periode_selesai": "2024-06-30", "bonus": -5},
		{"pekerja_id": "00000000-0000-0000-0000-000000000000", "periode_mulai": "2024-06-01", "periode_selesai": "2024-06-30"},
	}
	for _, body := range cases {
		assert.Equal(t, http.StatusBadRequest, testutil.Do(t, app, http.MethodPost, "/api/keuangan/gaji", admin, body, nil), body)
	}
}

func TestPayWritesOneManagedExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db)
	admin := testutil.Token(t, testutil.CreateUser(t, db, "admin@sawitku.test", models.RoleAdmin))
	mandor := testutil.Token(t, testutil.CreateUser(t, db, "mandor@sawitku.test", models.RoleMandor))
	w := createWorker(t, app, admin, fiber.Map{"nama": "Budi", "gaji_pokok": 3000000})

	var out payslipsResponse
	require.Equal(t, http.StatusCreated, testutil.Do(t, app, http.MethodPost, "/api/keuangan/gaji", admin, fiber.Map{
		"pekerja_id": w.ID, "periode_mulai": "2024-06-01", "periode_selesai": "2024-06-30", "bonus": 250000,
	}, &out))
	slip := out.Item

	assert.Equal(t, http.StatusForbidden, testutil.Do(t, app, http.MethodPost, "/api/keuangan/gaji/"+slip.ID+"/bayar", mandor, nil, nil))

	require.Equal(t, http.StatusOK, testutil.Do(t, app, http.MethodPost, "/api/keuangan/gaji/"+slip.ID+"/bayar", admin,
		fiber.Map{"tanggal_bayar": "2024-07-01"}, &out))
	assert.Equal(t, models.PayslipPaid, out.Item.Status)
	require.NotNil(t, out.Item.PaidAt)
	assert.Equal(t, "2024-07-01", out.Item.PaidAt.Format("2006-01-02"))
	assert.Equal(t, payroll.PayslipSummary{Total: 3250000, Paid: 3250000, PaidCount: 1}, out.Summary)

	assert.Equal(t, http.StatusConflict, testutil.Do(t, app, http.MethodPost, "/api/keuangan/gaji/"+slip.ID+"/bayar", admin, nil, nil))
	assert.Equal(t, http.StatusNotFound, testutil.Do(t, app, http.MethodPost, "/api/keuangan/gaji/00000000-0000-0000-0000-000000000000/bayar", admin, nil, nil))

	var rows []models.FinanceTransaction
	require.NoError(t, db.Preload("Category").Where("referensi_id = ?", slip.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.FinanceExpense, rows[0].Kind)
	assert.Equal(t, 3250000.0, rows[0].Amount)
	assert.Equal(t, "penggajian", *rows[0].ReferenceTable)
	require.NotNil(t, rows[0].Category)
	assert.Equal(t, models.FinanceCategorySalary, rows[0].Category.Name)
	assert.Contains(t, rows[0].Description, "Budi")

	assert.Equal(t, http.StatusConflict, testutil.Do(t, app, http.MethodDelete, "/api/keuangan/"+rows[0].ID, admin, nil, nil))
	assert.Equal(t, http.StatusConflict, testutil.Do(t, app, http.MethodDelete, "/api/keuangan/gaji/"+slip.ID, admin, nil, nil))
	assert.Equal(t, http.StatusConflict, testutil.Do(t, app, http.MethodDelete, "/api/pekerja/"+w.ID, admin, nil, nil))
}

func TestDeletePendingPayslip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db)
	admin := testutil.Token(t, testutil.CreateUser(t, db, "admin@sawitku.test", models.RoleAdmin))
	w := createWorker(t, app, admin, fiber.Map{"nama": "Budi", "gaji_pokok": 1000000})

	var out payslipsResponse
	require.Equal(t, http.StatusCreated, testutil.Do(t, app, http.MethodPost, "/api/keuangan/gaji", admin, fiber.Map{
		"pekerja_id": w.ID, "periode_mulai": "2024-06-01", "periode_selesai": "2024-06-30",
	}, &out))

	id := out.Item.ID

	require.Equal(t, http.StatusOK, testutil.Do(t, app, http.MethodDelete, "/api/keuangan/gaji/"+id, admin, nil, &out))
	assert.Empty(t, out.Data)
	assert.Equal(t, http.StatusNotFound, testutil.Do(t, app, http.MethodDelete, "/api/keuangan/gaji/"+id, admin, nil, nil))

	assert.Equal(t, http.StatusOK, testutil.Do(t, app, http.MethodDelete, "/api/pekerja/"+w.ID, admin, nil, nil))
}
