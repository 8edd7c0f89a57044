package audit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriteAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logs := audit.NewLogger(db, zap.NewNop())
	ctx := context.Background()
	p := testutil.CreateUser(t, db, "ada@kebun.id", models.RoleAdmin)

	require.NoError(t, logs.Write(ctx, audit.Entry{
		UserID: p.ID, Action: audit.ActionCreate, Table: "blok_lahan", RecordID: "b1",
		After: map[string]any{"kode": "A-01"},
	}))
	logs.Record(ctx, audit.Entry{UserID: p.ID, Action: audit.ActionDelete, Table: "panen", RecordID: "p1"})

	app := testutil.NewApp()
	testutil.Protect(app.Group("/api")).Get("/activity", audit.ListActivityHandler(logs))

	var out struct {
		Data []models.ActivityLog `json:"data"`
	}
	status := testutil.Do(t, app, http.MethodGet, "/api/activity?table=blok_lahan", testutil.Token(t, p), nil, &out)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, out.Data, 1)
	assert.Equal(t, audit.ActionCreate, out.Data[0].Action)

	var after map[string]string
	require.NoError(t, json.Unmarshal(out.Data[0].NewData, &after))
	assert.Equal(t, "A-01", after["kode"])

	status = testutil.Do(t, app, http.MethodGet, "/api/activity", testutil.Token(t, p), nil, &out)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out.Data, 2)
}

func TestRecordOnNilLoggerIsNoop(t *testing.T) {
	var logs *audit.Logger
	assert.NotPanics(t, func() {
		logs.Record(context.Background(), audit.Entry{Action: audit.ActionCreate})
	})
}
