package httputil_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := httputil.ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = httputil.ParseDate("15/03/2024")
	var ve *store.ValidationError
	assert.ErrorAs(t, err, &ve)

	none, err := httputil.ParseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMonthRange(t *testing.T) {
	start, end, err := httputil.MonthRange("2024-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)

	start, end, err = httputil.MonthRange("2024-12")
	require.NoError(t, err)
	assert.Equal(t, 2025, end.Year())
	assert.Equal(t, time.January, end.Month())
	assert.Equal(t, "2024-12", httputil.MonthKey(start))

	_, _, err = httputil.MonthRange("2024-13")
	assert.Error(t, err)
}

func TestStoreError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{store.ErrNotFound, fiber.StatusNotFound},
		{fmt.Errorf("approve: %w", store.ErrInvalidTransition), fiber.StatusConflict},
		{store.ErrInsufficientStock, fiber.StatusConflict},
		{store.Invalid("nama wajib diisi"), fiber.StatusBadRequest},
		{errors.New("UNIQUE constraint failed: harga_tbs.tanggal"), fiber.StatusConflict},
		{errors.New("FOREIGN KEY constraint failed"), fiber.StatusConflict},
		{fiber.NewError(fiber.StatusTeapot, "teh"), fiber.StatusTeapot},
		{errors.New("connection reset"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		var fe *fiber.Error
		require.ErrorAs(t, httputil.StoreError(tc.err, "gagal"), &fe)
		assert.Equal(t, tc.code, fe.Code, tc.err.Error())
	}
	assert.NoError(t, httputil.StoreError(nil, "gagal"))
}
