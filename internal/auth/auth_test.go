package auth_test

import (
	"net/http"
	"testing"

	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthApp(db *gorm.DB) *fiber.App {
	logs := audit.NewLogger(db, zap.NewNop())
	app := testutil.NewApp()
	api := app.Group("/api")
	api.Post("/auth/register", auth.RegisterHandler(db, logs))
	api.Post("/auth/login", auth.LoginHandler(db, testutil.JWTSecret, logs))

	protected := testutil.Protect(api.Group(""))
	protected.Post("/auth/logout", auth.LogoutHandler(logs))
	protected.Get("/auth/me", auth.MeHandler(db))
	protected.Put("/auth/profile", auth.UpdateProfileHandler(db, logs))
	protected.Post("/auth/password", auth.ChangePasswordHandler(db, logs))
	protected.Delete("/admin-only", auth.RequireRole(models.RoleAdmin, models.RoleOwner), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newAuthApp(db)

	var created auth.ProfileResponse
	status := testutil.Do(t, app, http.MethodPost, "/api/auth/register", "", auth.RegisterRequest{
		FullName:        "Budi Mandor",
		Email:           " Budi@Kebun.ID ",
		Password:        "sawit2024",
		ConfirmPassword: "sawit2024",
	}, &created)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "budi@kebun.id", created.Email)
	assert.Equal(t, models.RoleMandor, created.Role)

	var login struct {
		Token string               `json:"token"`
		User  auth.ProfileResponse `json:"user"`
	}
	status = testutil.Do(t, app, http.MethodPost, "/api/auth/login", "", auth.LoginRequest{Email: "budi@kebun.id", Password: "sawit2024"}, &login)
	require.Equal(t, fiber.StatusOK, status)
	require.NotEmpty(t, login.Token)

	var me auth.ProfileResponse
	status = testutil.Do(t, app, http.MethodGet, "/api/auth/me", login.Token, nil, &me)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, created.ID, me.ID)

	status = testutil.Do(t, app, http.MethodPost, "/api/auth/logout", login.Token, nil, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	var count int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Where("user_id = ?", created.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count) // register, login, logout
}

func TestRegisterValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newAuthApp(db)

	cases := []struct {
		name string
		req  auth.RegisterRequest
		msg  string
	}{
		{"short password", auth.RegisterRequest{FullName: "A", Email: "a@b.id", Password: "1234567", ConfirmPassword: "1234567"}, "Password minimal 8 karakter"},
		{"mismatch", auth.RegisterRequest{FullName: "A", Email: "a@b.id", Password: "12345678", ConfirmPassword: "12345679"}, "Konfirmasi password tidak cocok"},
		{"bad email", auth.RegisterRequest{FullName: "A", Email: "bukan-email", Password: "12345678", ConfirmPassword: "12345678"}, "Format email tidak valid"},
		{"missing name", auth.RegisterRequest{Email: "a@b.id", Password: "12345678", ConfirmPassword: "12345678"}, "Nama, email dan password wajib diisi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out map[string]string
			status := testutil.Do(t, app, http.MethodPost, "/api/auth/register", "", tc.req, &out)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, tc.msg, out["error"])
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newAuthApp(db)
	testutil.CreateUser(t, db, "ada@kebun.id", models.RoleMandor)

	var out map[string]string
	status := testutil.Do(t, app, http.MethodPost, "/api/auth/register", "", auth.RegisterRequest{
		FullName: "Ada", Email: "ada@kebun.id", Password: "12345678", ConfirmPassword: "12345678",
	}, &out)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "Email sudah terdaftar", out["error"])
}

func TestLoginWrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newAuthApp(db)
	testutil.CreateUser(t, db, "ada@kebun.id", models.RoleMandor)

	status := testutil.Do(t, app, http.MethodPost, "/api/auth/login", "", auth.LoginRequest{Email: "ada@kebun.id", Password: "salah"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestMiddlewareRejectsMissingAndBadToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newAuthApp(db)

	assert.Equal(t, fiber.StatusUnauthorized, testutil.Do(t, app, http.MethodGet, "/api/auth/me", "", nil, nil))
	assert.Equal(t, fiber.StatusUnauthorized, testutil.Do(t, app, http.MethodGet, "/api/auth/me", "bukan.token.jwt", nil, nil))

	p := testutil.CreateUser(t, db, "ada@kebun.id", models.RoleMandor)
	other, err := auth.GenerateToken("secret-lain-yang-juga-cukup-panjang-123", p)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, testutil.Do(t, app, http.MethodGet, "/api/auth/me", other, nil, nil))
}

func TestRequireRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newAuthApp(db)
	mandor := testutil.CreateUser(t, db, "m@kebun.id", models.RoleMandor)
	owner := testutil.CreateUser(t, db, "o@kebun.id", models.RoleOwner)

	assert.Equal(t, fiber.StatusForbidden, testutil.Do(t, app, http.MethodDelete, "/api/admin-only", testutil.Token(t, mandor), nil, nil))
	assert.Equal(t, fiber.StatusNoContent, testutil.Do(t, app, http.MethodDelete, "/api/admin-only", testutil.Token(t, owner), nil, nil))
}

func TestUpdateProfileAndPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := newAuthApp(db)
	p := testutil.CreateUser(t, db, "ada@kebun.id", models.RoleMandor)
	tok := testutil.Token(t, p)

	name, phone := "Ada Lovelace", "0812"
	var out auth.ProfileResponse
	status := testutil.Do(t, app, http.MethodPut, "/api/auth/profile", tok, auth.UpdateProfileRequest{FullName: &name, Phone: &phone}, &out)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, name, out.FullName)
	require.NotNil(t, out.Phone)
	assert.Equal(t, phone, *out.Phone)

	var errOut map[string]string
	status = testutil.Do(t, app, http.MethodPost, "/api/auth/password", tok, auth.ChangePasswordRequest{
		OldPassword: "rahasia123", NewPassword: "pendek", ConfirmPassword: "pendek",
	}, &errOut)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Password minimal 8 karakter", errOut["error"])

	status = testutil.Do(t, app, http.MethodPost, "/api/auth/password", tok, auth.ChangePasswordRequest{
		OldPassword: "salah-lama", NewPassword: "passwordbaru", ConfirmPassword: "passwordbaru",
	}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status = testutil.Do(t, app, http.MethodPost, "/api/auth/password", tok, auth.ChangePasswordRequest{
		OldPassword: "rahasia123", NewPassword: "passwordbaru", ConfirmPassword: "passwordbaru",
	}, nil)
	require.Equal(t, fiber.StatusOK, status)

	status = testutil.Do(t, app, http.MethodPost, "/api/auth/login", "", auth.LoginRequest{Email: "ada@kebun.id", Password: "passwordbaru"}, nil)
	assert.Equal(t, fiber.StatusOK, status)
}
