package finance_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/finance"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func newApp(db *gorm.DB) *fiber.App {
	svc := finance.NewService(db)
	logs := audit.NewLogger(db, zap.NewNop())
	managers := auth.RequireRole(models.RoleAdmin, models.RoleOwner)

	app := testutil.NewApp()
	api := testutil.Protect(app.Group("/api"))
	api.Get("/keuangan/kategori", finance.ListCategoriesHandler(svc))
	api.Post("/keuangan/kategori", managers, finance.CreateCategoryHandler(svc, logs))
	api.Get("/keuangan/laporan", finance.MonthlyReportHandler(svc))
	api.Get("/keuangan", finance.ListHandler(svc))
	api.Post("/keuangan", finance.CreateHandler(svc, logs))
	api.Delete("/keuangan/:id", managers, finance.DeleteHandler(svc, logs))
	return app
}

type ledgerResponse struct {
	Item    models.FinanceTransaction   `json:"item"`
	Data    []models.FinanceTransaction `json:"data"`
	Summary finance.LedgerReport        `json:"summary"`
}

func category(t *testing.T, db *gorm.DB, name string) *models.FinanceCategory {
	t.Helper()
	var cat models.FinanceCategory
	require.NoError(t, db.Where("nama = ?", name).First(&cat).Error)
	return &cat
}

func TestSummarize(t *testing.T) {
	s := finance.Summarize([]models.FinanceTransaction{
		{Kind: models.FinanceIncome, Amount: 100},
		{Kind: models.FinanceExpense, Amount: 40},
	})
	assert.Equal(t, finance.Summary{Income: 100, Expense: 40, Profit: 60, Margin: "60.0"}, s)

	s = finance.Summarize([]models.FinanceTransaction{{Kind: models.FinanceExpense, Amount: 40}})
	assert.Equal(t, -40.0, s.Profit)
	assert.Equal(t, "0", s.Margin)
	assert.Zero(t, finance.Margin(0, -40))

	assert.Equal(t, "33.3", finance.FormatMargin(300, 100))
	assert.Equal(t, "-25.0", finance.FormatMargin(400, -100))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "Rp 1.500.000", finance.FormatRupiah(1500000))
	assert.Equal(t, "Rp 0", finance.FormatRupiah(0))
	assert.Equal(t, "Rp 1.5Jt", finance.FormatCompact(1500000))
	assert.Equal(t, "Rp 150rb", finance.FormatCompact(150000))
	assert.Equal(t, "Rp 500", finance.FormatCompact(500))
	assert.Equal(t, "1.500 kg", finance.FormatKg(1500))
	assert.Equal(t, "1.234,5 kg", finance.FormatKg(1234.5))
	assert.Equal(t, "Agt", finance.MonthLabel(time.August))
}

func TestMonthlySeries(t *testing.T) {
	d := func(s string) time.Time {
		v, _ := time.Parse("2006-01-02", s)
		return v
	}
	series := finance.MonthlySeries([]models.FinanceTransaction{
		{Kind: models.FinanceIncome, Amount: 500, Date: d("2024-06-10")},
		{Kind: models.FinanceExpense, Amount: 200, Date: d("2024-06-20")},
		{Kind: models.FinanceIncome, Amount: 300, Date: d("2023-07-01")},
		{Kind: models.FinanceIncome, Amount: 999, Date: d("2023-06-30")},
	}, d("2024-06-15"))

	require.Len(t, series, 12)
	assert.Equal(t, "2023-07", series[0].Key)
	assert.Equal(t, "Jul", series[0].Label)
	assert.Equal(t, 300.0, series[0].Income)
	assert.Equal(t, "Jun", series[11].Label)
	assert.Equal(t, finance.Point{Key: "2024-06", Label: "Jun", Income: 500, Expense: 200, Profit: 300}, series[11])
	assert.Zero(t, series[5].Income)
}

func TestDailySeries(t *testing.T) {
	d := func(s string) time.Time {
		v, _ := time.Parse("2006-01-02", s)
		return v
	}
	points := finance.DailySeries([]models.FinanceTransaction{
		{Kind: models.FinanceIncome, Amount: 100, Date: d("2024-06-05")},
		{Kind: models.FinanceExpense, Amount: 30, Date: d("2024-06-01")},
		{Kind: models.FinanceExpense, Amount: 20, Date: d("2024-06-05")},
	})
	require.Len(t, points, 2)
	assert.Equal(t, "01 Jun", points[0].Label)
	assert.Equal(t, finance.Point{Key: "2024-06-05", Label: "05 Jun", Income: 100, Expense: 20, Profit: 80}, points[1])
}

func TestLedgerMonthFilterAndSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db)
	tok := testutil.Token(t, testutil.CreateUser(t, db, "a@kebun.id", models.RoleAdmin))
	sales := category(t, db, models.FinanceCategorySales)

	for _, in := range []finance.TransactionInput{
		{CategoryID: &sales.ID, Date: "2024-06-01", Kind: models.FinanceIncome, Amount: 100, Description: "TBS ke PKS"},
		{Date: "2024-06-30", Kind: models.FinanceExpense, Amount: 40, Description: "Solar"},
		{Date: "2024-07-01", Kind: models.FinanceExpense, Amount: 999, Description: "Bulan depan"},
	} {
		require.Equal(t, fiber.StatusCreated, testutil.Do(t, app, http.MethodPost, "/api/keuangan", tok, in, nil))
	}

	var out ledgerResponse
	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodGet, "/api/keuangan?bulan=2024-06", tok, nil, &out))
	require.Len(t, out.Data, 2)
	assert.Equal(t, "Solar", out.Data[0].Description)
	require.NotNil(t, out.Data[1].Category)
	assert.Equal(t, models.FinanceCategorySales, out.Data[1].Category.Name)
	assert.Equal(t, finance.Summary{Income: 100, Expense: 40, Profit: 60, Margin: "60.0"}, out.Summary.Summary)
	assert.Equal(t, "Rp 60", out.Summary.Display.Profit)
	assert.Len(t, out.Summary.Daily, 2)

	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodGet, "/api/keuangan?jenis=pengeluaran", tok, nil, &out))
	assert.Len(t, out.Data, 2)

	assert.Equal(t, fiber.StatusBadRequest, testutil.Do(t, app, http.MethodGet, "/api/keuangan?bulan=juni", tok, nil, nil))
}

func TestLedgerValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db)
	tok := testutil.Token(t, testutil.CreateUser(t, db, "a@kebun.id", models.RoleAdmin))
	salary := category(t, db, models.FinanceCategorySalary)

	for _, in := range []finance.TransactionInput{
		{Date: "2024-06-01", Kind: "hibah", Amount: 10, Description: "x"},
		{Date: "2024-06-01", Kind: models.FinanceIncome, Amount: 0, Description: "x"},
		{Date: "2024-06-01", Kind: models.FinanceIncome, Amount: 10, Description: "  "},
		{Date: "2024-06-01", Kind: models.FinanceIncome, Amount: 10, Description: "x", CategoryID: &salary.ID},
		{Date: "2024-06-01", Kind: models.FinanceIncome, Amount: 10, Description: "x", CategoryID: ptr("00000000-0000-0000-0000-000000000000")},
	} {
		assert.Equal(t, fiber.StatusBadRequest, testutil.Do(t, app, http.MethodPost, "/api/keuangan", tok, in, nil), in)
	}
}

func TestDeleteManualAndManaged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db)
	owner := testutil.Token(t, testutil.CreateUser(t, db, "o@kebun.id", models.RoleOwner))
	mandor := testutil.Token(t, testutil.CreateUser(t, db, "m@kebun.id", models.RoleMandor))

	ledger, err := finance.NewService(db).Ledger(finance.LedgerFilter{})
	require.NoError(t, err)
	manual, err := ledger.Record(context.Background(), finance.TransactionInput{Date: "2024-06-01", Kind: models.FinanceExpense, Amount: 10, Description: "ATK"})
	require.NoError(t, err)

	managed := &models.FinanceTransaction{Date: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), Kind: models.FinanceExpense, Amount: 500, Description: "Gaji", ReferenceTable: ptr("penggajian")}
	require.NoError(t, db.Create(managed).Error)

	assert.Equal(t, fiber.StatusForbidden, testutil.Do(t, app, http.MethodDelete, "/api/keuangan/"+manual.ID, mandor, nil, nil))
	assert.Equal(t, fiber.StatusConflict, testutil.Do(t, app, http.MethodDelete, "/api/keuangan/"+managed.ID, owner, nil, nil))

	var out ledgerResponse
	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodDelete, "/api/keuangan/"+manual.ID, owner, nil, &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, managed.ID, out.Data[0].ID)
}

func TestCategoriesAndMonthlyReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newApp(db)
	tok := testutil.Token(t, testutil.CreateUser(t, db, "o@kebun.id", models.RoleOwner))

	var created struct {
		Item models.FinanceCategory   `json:"item"`
		Data []models.FinanceCategory `json:"data"`
	}
	require.Equal(t, fiber.StatusCreated, testutil.Do(t, app, http.MethodPost, "/api/keuangan/kategori", tok,
		finance.CategoryInput{Name: "Sewa Truk", Kind: models.FinanceExpense}, &created))
	assert.Equal(t, "Sewa Truk", created.Item.Name)

	var cats struct {
		Data []models.FinanceCategory `json:"data"`
	}
	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodGet, "/api/keuangan/kategori?jenis=pendapatan", tok, nil, &cats))
	for _, c := range cats.Data {
		assert.Equal(t, models.FinanceIncome, c.Kind)
	}

	ledger, err := finance.NewService(db).Ledger(finance.LedgerFilter{})
	require.NoError(t, err)
	for _, in := range []finance.TransactionInput{
		{CategoryID: &created.Item.ID, Date: "2024-06-03", Kind: models.FinanceExpense, Amount: 300000, Description: "Truk 1"},
		{CategoryID: &created.Item.ID, Date: "2024-06-10", Kind: models.FinanceExpense, Amount: 200000, Description: "Truk 2"},
		{Date: "2024-06-11", Kind: models.FinanceIncome, Amount: 2000000, Description: "Penjualan"},
		{Date: "2024-01-11", Kind: models.FinanceIncome, Amount: 1000000, Description: "Januari"},
	} {
		_, err := ledger.Record(context.Background(), in)
		require.NoError(t, err)
	}

	var rep finance.MonthlyReport
	require.Equal(t, fiber.StatusOK, testutil.Do(t, app, http.MethodGet, "/api/keuangan/laporan?bulan=2024-06", tok, nil, &rep))
	assert.Equal(t, finance.Summary{Income: 2000000, Expense: 500000, Profit: 1500000, Margin: "75.0"}, rep.Summary)
	assert.Equal(t, "Rp 1.500.000", rep.Display.Profit)
	require.Len(t, rep.Categories, 2)
	assert.Equal(t, "Tanpa kategori", rep.Categories[0].Name)
	assert.Equal(t, "Sewa Truk", rep.Categories[1].Name)
	assert.Equal(t, 500000.0, rep.Categories[1].Total)
	require.Len(t, rep.Series, 12)
	assert.Equal(t, 1000000.0, rep.Series[6].Income)
	assert.Equal(t, "Jan", rep.Series[6].Label)
}
