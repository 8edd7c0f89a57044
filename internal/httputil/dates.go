package httputil

import (
	"fmt"
	"time"

	"sawitku-backend/internal/store"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// ParseDate membaca "2006-01-02" sebagai tanggal UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, store.Invalid("Format tanggal harus YYYY-MM-DD: %q", s)
	}
	return t, nil
}

// ParseOptionalDate: string kosong menghasilkan nil.
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MonthRange mengembalikan [awal bulan, awal bulan berikutnya) untuk
// "YYYY-MM".
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(MonthLayout, month, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, store.Invalid("Format bulan harus YYYY-MM: %q", month)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// MonthStart awal bulan (UTC) dari t.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string { return t.UTC().Format(DateLayout) }

func MonthKey(t time.Time) string { return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())) }
