package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"
	"sawitku-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func blocks(db *gorm.DB) *store.Collection[models.LandBlock] {
	return store.NewCollection[models.LandBlock](db, store.Query{Order: "kode"})
}

func seedBlock(t *testing.T, db *gorm.DB, code string, status models.BlockStatus) models.LandBlock {
	t.Helper()
	b := models.LandBlock{Name: "Blok " + code, Code: code, AreaHectares: 10, Status: status}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func TestCollection_FindOrderAndFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	seedBlock(t, db, "C-01", models.BlockProductive)
	seedBlock(t, db, "A-01", models.BlockInactive)
	seedBlock(t, db, "B-01", models.BlockProductive)

	rows, err := blocks(db).Find(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A-01", "B-01", "C-01"}, []string{rows[0].Code, rows[1].Code, rows[2].Code})

	rows, err = blocks(db).With(store.Eq("status", models.BlockProductive)).Find(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// OR di dalam Search tidak boleh "bocor" ke filter lain
	rows, err = blocks(db).With(store.Eq("status", models.BlockInactive), store.Search("blok", "nama", "kode")).Find(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A-01", rows[0].Code)

	n, err := blocks(db).Count(ctx, store.Eq("status", models.BlockProductive))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCollection_WithDoesNotMutateParent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedBlock(t, db, "A-01", models.BlockProductive)
	seedBlock(t, db, "A-02", models.BlockInactive)

	parent := blocks(db)
	_ = parent.With(store.Eq("status", models.BlockInactive))

	rows, err := parent.Find(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCollection_LimitAndEmptyFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	for i := 0; i < 5; i++ {
		seedBlock(t, db, fmt.Sprintf("K-%02d", i), models.BlockProductive)
	}

	c := store.NewCollection[models.LandBlock](db, store.Query{Order: "kode DESC", Limit: 2})
	rows, err := c.With(store.Filter{}).Find(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "K-04", rows[0].Code)
}

func TestCollection_GetPatchDeleteNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	c := blocks(db)

	_, err := c.Get(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, c.Patch(ctx, "00000000-0000-0000-0000-000000000000", map[string]any{"nama": "x"}), store.ErrNotFound)
	assert.ErrorIs(t, c.Delete(ctx, "00000000-0000-0000-0000-000000000000"), store.ErrNotFound)

	b := seedBlock(t, db, "A-01", models.BlockProductive)
	require.NoError(t, c.Patch(ctx, b.ID, map[string]any{"nama": "Blok Baru"}))
	got, err := c.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blok Baru", got.Name)
}

func TestCollection_PatchWhereIsConditional(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	b := seedBlock(t, db, "A-01", models.BlockProductive)

	n, err := blocks(db).PatchWhere(ctx, b.ID, store.Eq("status", models.BlockInactive), map[string]any{"nama": "x"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = blocks(db).PatchWhere(ctx, b.ID, store.Eq("status", models.BlockProductive), map[string]any{"nama": "y"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestView_CreateRefetches(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	seedBlock(t, db, "B-01", models.BlockProductive)

	v := store.NewView(blocks(db))
	require.NoError(t, v.Load(ctx))
	assert.Len(t, v.Data(), 1)
	assert.False(t, v.Loading())

	nb := &models.LandBlock{Name: "Blok A", Code: "A-01", AreaHectares: 5, Status: models.BlockProductive}
	require.NoError(t, v.Create(ctx, nb))

	data := v.Data()
	require.Len(t, data, 2)
	assert.Equal(t, "A-01", data[0].Code)
	assert.Equal(t, nb.ID, data[0].ID)
	assert.Empty(t, v.Err())
}

func TestView_WriteErrorIsReturnedNotStored(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	seedBlock(t, db, "A-01", models.BlockProductive)

	v := store.NewView(blocks(db))
	require.NoError(t, v.Load(ctx))

	err := v.Create(ctx, &models.LandBlock{Name: "Dup", Code: "A-01", AreaHectares: 1, Status: models.BlockProductive})
	require.Error(t, err)
	assert.True(t, store.IsDuplicate(err, "kode"))
	assert.Empty(t, v.Err())
	assert.Len(t, v.Data(), 1)

	err = v.Remove(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, v.Err())
}

func TestView_ReadErrorIsStored(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	v := store.NewView(blocks(db).With(store.Where("kolom_tidak_ada = ?", 1)))
	err := v.Load(ctx)
	require.Error(t, err)
	assert.NotEmpty(t, v.Err())
	assert.False(t, v.Loading())
	assert.Empty(t, v.Data())

	snap := v.Snapshot()
	assert.Equal(t, v.Err(), snap.Error)
}

func TestView_LoadClearsPreviousError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	seedBlock(t, db, "A-01", models.BlockProductive)
	v := store.NewView(blocks(db).With(store.Where("prioritas = ?", 1)))
	require.Error(t, v.Load(ctx))
	require.NotEmpty(t, v.Err())

	// sumber yang sama pulih setelah kolomnya ada
	require.NoError(t, db.Exec("ALTER TABLE blok_lahan ADD COLUMN prioritas INTEGER NOT NULL DEFAULT 1").Error)
	require.NoError(t, v.Load(ctx))
	assert.Equal(t, "", v.Err())
	assert.Equal(t, "", v.Snapshot().Error)
	require.Len(t, v.Data(), 1)
	assert.Equal(t, "A-01", v.Data()[0].Code)
}

func TestView_MutateFailureSkipsRefetch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	v := store.NewView(blocks(db))

	boom := errors.New("boom")
	calls := 0
	err := v.Mutate(ctx, func(ctx context.Context, c *store.Collection[models.LandBlock]) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Empty(t, v.Data())
}

func TestIsDuplicate(t *testing.T) {
	assert.False(t, store.IsDuplicate(nil, "kode"))
	assert.True(t, store.IsDuplicate(gorm.ErrDuplicatedKey, "kode"))
	assert.True(t, store.IsDuplicate(errors.New(`ERROR: duplicate key value violates unique constraint "idx_blok_lahan_kode" (SQLSTATE 23505)`), "kode"))
	assert.True(t, store.IsDuplicate(errors.New("UNIQUE constraint failed: blok_lahan.kode"), "kode"))
	assert.False(t, store.IsDuplicate(errors.New("UNIQUE constraint failed: profiles.email"), "kode"))
	assert.True(t, store.IsDuplicate(errors.New("UNIQUE constraint failed: profiles.email"), ""))
	assert.False(t, store.IsDuplicate(errors.New("connection refused"), ""))
}

func TestValidationError(t *testing.T) {
	err := store.Invalid("luas %s harus > 0", "A-01")
	var ve *store.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "luas A-01 harus > 0", ve.Message)
}
