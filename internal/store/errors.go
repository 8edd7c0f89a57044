package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("store: record not found")
	ErrInvalidTransition = errors.New("store: status transition not allowed")
	ErrInsufficientStock = errors.New("store: insufficient stock")
)

// ValidationError membawa pesan yang boleh langsung ditampilkan ke user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsDuplicate mengenali pelanggaran unique constraint dari teks error driver
// (postgres: "duplicate key value ... (kode)", sqlite: "UNIQUE constraint
// failed: blok_lahan.kode"). column kosong berarti kolom apa saja.
func IsDuplicate(err error, column string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "duplicate key") && !strings.Contains(msg, "unique constraint failed") {
		return false
	}
	return column == "" || strings.Contains(msg, strings.ToLower(column))
}

// IsInUse mengenali pelanggaran foreign key (baris masih direferensikan).
func IsInUse(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
