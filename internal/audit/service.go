package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionLogin   = "login"
	ActionLogout  = "logout"
)

type Entry struct {
	UserID   string
	Action   string
	Table    string
	RecordID string
	Before   any
	After    any
}

// Logger mencatat activity_log. Nil Logger diperbolehkan (tidak mencatat).
type Logger struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewLogger(db *gorm.DB, log *zap.Logger) *Logger {
	return &Logger{db: db, log: log}
}

func toJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (l *Logger) Write(ctx context.Context, e Entry) error {
	row := models.ActivityLog{
		UserID:   optional(e.UserID),
		Action:   e.Action,
		Table:    optional(e.Table),
		RecordID: optional(e.RecordID),
		OldData:  toJSON(e.Before),
		NewData:  toJSON(e.After),
	}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("activity log gagal disimpan: %w", err)
	}
	return nil
}

// Record seperti Write, tetapi kegagalan hanya di-log.
func (l *Logger) Record(ctx context.Context, e Entry) {
	if l == nil {
		return
	}
	if err := l.Write(ctx, e); err != nil {
		l.log.Warn("activity log",
			zap.String("action", e.Action),
			zap.String("table", e.Table),
			zap.String("record_id", e.RecordID),
			zap.Error(err),
		)
	}
}

// Recent: log terbaru lebih dulu, opsional difilter per tabel / user.
func (l *Logger) Recent(table, userID string, limit int) *store.View[models.ActivityLog] {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	c := store.NewCollection[models.ActivityLog](l.db, store.Query{
		Order: "created_at DESC",
		Limit: limit,
	})
	if table != "" {
		c = c.With(store.Eq("table_name", table))
	}
	if userID != "" {
		c = c.With(store.Eq("user_id", userID))
	}
	return store.NewView(c)
}
