package operations_test

import (
	"context"
	"net/http"
	"testing"

	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/notification"
	"sawitku-backend/internal/operations"
	"sawitku-backend/internal/storage"
	"sawitku-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func newApp(db *gorm.DB, objects storage.ObjectStore) *fiber.App {
	svc := operations.NewService(db, notification.NewService(db))
	logs := audit.NewLogger(db, zap.NewNop())

	app := testutil.NewApp()
	api := testutil.Protect(app.Group("/api/operasional"))
	api.Get("/pemupukan", operations.ListSchedulesHandler(svc))
	api.Post("/pemupukan", operations.CreateScheduleHandler(svc, logs))
	api.Put("/pemupukan/:id", operations.UpdateScheduleHandler(svc, logs))
	api.Delete("/pemupukan/:id", operations.DeleteScheduleHandler(svc, logs))
	api.Post("/pemupukan/:id/selesai", operations.CompleteScheduleHandler(svc, logs))
	api.Post("/pemupukan/:id/tunda", operations.DelayScheduleHandler(svc, logs))
	api.Post("/pemupukan/:id/foto", operations.UploadSchedulePhotoHandler(svc, objects, logs))

	api.Get("/hama", operations.ListPestReportsHandler(svc))
	api.Post("/hama", operations.CreatePestReportHandler(svc, logs))
	api.Put("/hama/:id/status", operations.UpdatePestStatusHandler(svc, logs))
	api.Post("/hama/:id/foto", operations.UploadPestPhotoHandler(svc, objects, logs))
	api.Delete("/hama/:id", operations.DeletePestReportHandler(svc, logs))

	api.Get("/perawatan", operations.ListJobsHandler(svc))
	api.Post("/perawatan", operations.CreateJobHandler(svc, logs))
	api.Put("/perawatan/:id/status", operations.UpdateJobStatusHandler(svc, logs))
	api.Delete("/perawatan/:id", operations.DeleteJobHandler(svc, logs))
	return app
}

type schedulesResponse struct {
	Item    models.Fertilization       `json:"item"`
	Data    []models.Fertilization     `json:"data"`
	Summary operations.ScheduleSummary `json:"summary"`
}

func TestFertilizationLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db, nil)
	mandor := testutil.CreateUser(t, db, "m@kebun.id", models.RoleMandor)
	tok := testutil.Token(t, mandor)
	block := testutil.SeedBlock(t, db, "A-01")

	var out schedulesResponse
	for _, date := range []string{"2024-07-20", "2024-07-05"} {
		require.Equal(t, fiber.StatusCreated, testutil.Do(t, app, http.MethodPost, "/api/operasional/pemupukan", tok, operations.ScheduleInput{
			BlockID: ptr(block.ID), ScheduledDate: ptr(date), DosePerTree: ptr(1.5),
		}, &out))
	}
	assert.Equal(t, models.FertilizationScheduled, out.Item.Status)
	require.NotNil(t, out.Item.OfficerID)
	assert.Equal(t, mandor.ID, *out.Item.OfficerID)
	require.Len(t, out.Data, 2)
	assert.Equal(t, 5, out.Data[0].ScheduledDate.Day())
	require.NotNil(t, out.Data[0].Block)
	first, second := out.Data[0].ID, out.Data[1].ID

	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodPost, "/api/operasional/pemupukan/"+first+"/selesai", tok,
		operations.CompleteInput{RealizedDate: "2024-07-06", TotalUsed: ptr(204.0)}, &out))
	assert.Equal(t, models.FertilizationDone, out.Item.Status)
	require.NotNil(t, out.Item.RealizedDate)
	assert.Equal(t, "2024-07-06", out.Item.RealizedDate.Format("2006-01-02"))

	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodPost, "/api/operasional/pemupukan/"+second+"/tunda", tok,
		operations.DelayRequest{Reason: ptr("hujan")}, &out))
	assert.Equal(t, models.FertilizationDelayed, out.Item.Status)
	assert.Equal(t, "hujan", *out.Item.Notes)

	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodGet, "/api/operasional/pemupukan", tok, nil, &out))
	assert.Equal(t, operations.ScheduleSummary{Done: 1, Delayed: 1, TotalUsed: 204}, out.Summary)

	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodGet, "/api/operasional/pemupukan?status=tertunda", tok, nil, &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, second, out.Data[0].ID)

	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodPut, "/api/operasional/pemupukan/"+second, tok,
		operations.ScheduleInput{ScheduledDate: ptr("2024-07-27")}, &out))
	assert.Equal(t, 27, out.Item.ScheduledDate.Day())

	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodDelete, "/api/operasional/pemupukan/"+second, tok, nil, &out))
	assert.Len(t, out.Data, 1)
}

func TestFertilizationValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db, nil)
	tok := testutil.Token(t, testutil.CreateUser(t, db, "m@kebun.id", models.RoleMandor))
	block := testutil.SeedBlock(t, db, "A-01")

	assert.Equal(t, fiber.StatusBadRequest, testutil.Do(t, app, http.MethodPost, "/api/operasional/pemupukan", tok,
		operations.ScheduleInput{BlockID: ptr(block.ID)}, nil))
	assert.Equal(t, fiber.StatusBadRequest, testutil.Do(t, app, http.MethodPost, "/api/operasional/pemupukan", tok,
		operations.ScheduleInput{BlockID: ptr(block.ID), ScheduledDate: ptr("2024-07-05"), DosePerTree: ptr(-1.0)}, nil))
	assert.Equal(t, fiber.StatusNotFound, testutil.Do(t, app, http.MethodPost, "/api/operasional/pemupukan/00000000-0000-0000-0000-000000000000/selesai", tok, nil, nil))
}

type pestResponse struct {
	Item    models.PestReport      `json:"item"`
	Data    []models.PestReport    `json:"data"`
	Summary operations.PestSummary `json:"summary"`
}

func TestPestReportFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	objects := testutil.NewMemoryStore()
	app := newApp(db, objects)
	user := testutil.CreateUser(t, db, "m@kebun.id", models.RoleMandor)
	tok := testutil.Token(t, user)
	block := testutil.SeedBlock(t, db, "B-07")

	var out pestResponse
	require.Equal(t, fiber.StatusCreated, testutil.Do(t, app, http.MethodPost, "/api/operasional/hama", tok, operations.PestInput{
		BlockID: block.ID, ReportDate: "2024-06-01", Type: "Ulat api", Severity: ptr(models.SeverityLight), AffectedTrees: ptr(12),
	}, nil))
	require.Equal(t, fiber.StatusCreated, testutil.Do(t, app, http.MethodPost, "/api/operasional/hama", tok, operations.PestInput{
		BlockID: block.ID, ReportDate: "2024-06-10", Type: "Ganoderma", Severity: ptr(models.SeveritySevere), AffectedTrees: ptr(30),
	}, &out))
	assert.Equal(t, models.PestReported, out.Item.Status)
	require.Len(t, out.Data, 2)
	assert.Equal(t, "Ganoderma", out.Data[0].Type)
	ganoderma, ulat := out.Data[0].ID, out.Data[1].ID

	inbox := notification.NewService(db).Inbox(user.ID)
	require.NoError(t, inbox.Load(context.Background()))
	require.Len(t, inbox.Data(), 1)
	assert.Equal(t, "Ganoderma dilaporkan di blok B-07", inbox.Data()[0].Message)

	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodPut, "/api/operasional/hama/"+ulat+"/status", tok,
		operations.PestStatusRequest{Status: models.PestResolved, Action: ptr("Semprot insektisida")}, &out))
	assert.Equal(t, models.PestResolved, out.Item.Status)
	assert.Equal(t, operations.PestSummary{Reported: 1, Resolved: 1, Severe: 1, AffectedTrees: 30}, operations.SummarizePests(out.Data))

	assert.Equal(t, fiber.StatusBadRequest, testutil.Do(t, app, http.MethodPut, "/api/operasional/hama/"+ulat+"/status", tok,
		operations.PestStatusRequest{Status: "hilang"}, nil))

	req := testutil.Multipart(t, http.MethodPost, "/api/operasional/hama/"+ganoderma+"/foto", tok, "pokok.png", "image/png", []byte("png"))
	require.Equal(t, fiber.StatusOK, testutil.Send(t, app, req, &out))
	require.Len(t, out.Item.Photos, 1)
	assert.Contains(t, out.Item.Photos[0], "/hama/"+ganoderma+"/")
}

func TestPestReportValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db, nil)
	tok := testutil.Token(t, testutil.CreateUser(t, db, "m@kebun.id", models.RoleMandor))
	block := testutil.SeedBlock(t, db, "A-01")

	assert.Equal(t, fiber.StatusBadRequest, testutil.Do(t, app, http.MethodPost, "/api/operasional/hama", tok,
		operations.PestInput{BlockID: block.ID}, nil))
	assert.Equal(t, fiber.StatusBadRequest, testutil.Do(t, app, http.MethodPost, "/api/operasional/hama", tok,
		operations.PestInput{BlockID: block.ID, Type: "Tikus", Severity: ptr(models.PestSeverity("ekstrem"))}, nil))
}

func TestMaintenanceJobs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db, nil)
	tok := testutil.Token(t, testutil.CreateUser(t, db, "m@kebun.id", models.RoleMandor))
	block := testutil.SeedBlock(t, db, "A-01")

	var out struct {
		Item    models.Maintenance    `json:"item"`
		Data    []models.Maintenance  `json:"data"`
		Summary operations.JobSummary `json:"summary"`
	}
	require.Equal(t, fiber.StatusCreated, testutil.Do(t, app, http.MethodPost, "/api/operasional/perawatan", tok, operations.JobInput{
		BlockID: block.ID, Date: "2024-06-01", Kind: models.MaintenanceWeeding, WorkerCount: ptr(4), Cost: 600000,
	}, &out))
	job := out.Item.ID
	require.Equal(t, fiber.StatusCreated, testutil.Do(t, app, http.MethodPost, "/api/operasional/perawatan", tok, operations.JobInput{
		BlockID: block.ID, Date: "2024-06-03", Kind: models.MaintenancePruning, Cost: 250000,
	}, nil))

	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodPut, "/api/operasional/perawatan/"+job+"/status", tok,
		operations.JobStatusRequest{Status: models.MaintenanceDone}, nil))

	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodGet, "/api/operasional/perawatan", tok, nil, &out))
	assert.Equal(t, operations.JobSummary{Count: 2, Done: 1, TotalCost: 850000}, out.Summary)
	assert.Equal(t, models.MaintenancePruning, out.Data[0].Kind)

	assert.Equal(t, fiber.StatusBadRequest, testutil.Do(t, app, http.MethodPost, "/api/operasional/perawatan", tok, operations.JobInput{
		BlockID: block.ID, Kind: "menanam",
	}, nil))
	assert.Equal(t, fiber.StatusNotFound, testutil.Do(t, app, http.MethodDelete, "/api/operasional/perawatan/00000000-0000-0000-0000-000000000000", tok, nil, nil))
}
