// Package testutil menyiapkan database sqlite in-memory, token JWT dan
// helper request fiber untuk test handler.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"sawitku-backend/internal/auth"
	"sawitku-backend/internal/database"
	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "sawitku-test-secret-key-0123456789abcdef"

// SetupTestDB membuka database sqlite in-memory terpisah per test dan
// menjalankan migrasi.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), database.Config(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db, zap.NewNop()))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser menyimpan profile dengan password "rahasia123".
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.Profile {
	t.Helper()

	hash, err := auth.HashPassword("rahasia123")
	require.NoError(t, err)

	p := &models.Profile{
		Email:        email,
		FullName:     "User " + string(role),
		Role:         role,
		PasswordHash: hash,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func Token(t *testing.T, p *models.Profile) string {
	t.Helper()
	tok, err := auth.GenerateToken(JWTSecret, p)
	require.NoError(t, err)
	return tok
}

// NewApp membuat app fiber dengan error handler produksi.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: httputil.ErrorHandler(zap.NewNop())})
}

// Protect memasang middleware JWT dengan secret test.
func Protect(r fiber.Router) fiber.Router {
	return r.Use(auth.JWTMiddleware(JWTSecret))
}

// Do mengirim request JSON dan mengembalikan status serta body yang sudah
// di-decode ke out (boleh nil).
func Do(t *testing.T, app *fiber.App, method, path, token string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return Send(t, app, req, out)
}

func Send(t *testing.T, app *fiber.App, req *http.Request, out any) int {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

// Multipart membuat request multipart dengan satu file pada field "foto".
func Multipart(t *testing.T, method, path, token, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	return MultipartField(t, method, path, token, "foto", filename, contentType, content)
}

func MultipartField(t *testing.T, method, path, token, field, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// SeedBlock menyimpan blok lahan produktif 10 ha.
func SeedBlock(t *testing.T, db *gorm.DB, code string) *models.LandBlock {
	t.Helper()
	b := &models.LandBlock{Name: "Blok " + code, Code: code, AreaHectares: 10, TreeCount: 1360, Status: models.BlockProductive}
	require.NoError(t, db.Create(b).Error)
	return b
}
