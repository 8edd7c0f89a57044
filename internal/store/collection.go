package store

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Filter satu potong kondisi WHERE.
type Filter struct {
	Expr string
	Args []any
}

func Where(expr string, args ...any) Filter { return Filter{Expr: expr, Args: args} }

func Eq(column string, v any) Filter  { return Where(column+" = ?", v) }
func Gte(column string, v any) Filter { return Where(column+" >= ?", v) }
func Lt(column string, v any) Filter  { return Where(column+" < ?", v) }
func Lte(column string, v any) Filter { return Where(column+" <= ?", v) }

// Search: pencarian contains, case-insensitive, di salah satu kolom.
func Search(q string, columns ...string) Filter {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, "LOWER("+col+") LIKE ?")
		args = append(args, pattern)
	}
	return Filter{Expr: strings.Join(parts, " OR "), Args: args}
}

// Query mendefinisikan read query sebuah collection: join, urutan, batas
// dan filter tetap. Select kosong berarti semua kolom.
type Query struct {
	Select  Filter
	Preload []string
	Order   string
	Limit   int
	Filters []Filter
}

// Collection membungkus satu tabel. Tidak menyimpan state selain query.
type Collection[T any] struct {
	db    *gorm.DB
	query Query
}

func NewCollection[T any](db *gorm.DB, q Query) *Collection[T] {
	return &Collection[T]{db: db, query: q}
}

func (c *Collection[T]) DB() *gorm.DB { return c.db }

// With mengembalikan salinan dengan filter tambahan. Filter kosong diabaikan.
func (c *Collection[T]) With(filters ...Filter) *Collection[T] {
	q := c.query
	q.Filters = append([]Filter(nil), c.query.Filters...)
	for _, f := range filters {
		if f.Expr != "" {
			q.Filters = append(q.Filters, f)
		}
	}
	return &Collection[T]{db: c.db, query: q}
}

// WithTx mengikat collection ke transaksi yang sedang berjalan.
func (c *Collection[T]) WithTx(tx *gorm.DB) *Collection[T] {
	return &Collection[T]{db: tx, query: c.query}
}

func (c *Collection[T]) base(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(new(T))
}

func (c *Collection[T]) scoped(ctx context.Context) *gorm.DB {
	tx := c.base(ctx)
	if c.query.Select.Expr != "" {
		tx = tx.Select(c.query.Select.Expr, c.query.Select.Args...)
	}
	for _, rel := range c.query.Preload {
		tx = tx.Preload(rel)
	}
	for _, f := range c.query.Filters {
		tx = tx.Where("("+f.Expr+")", f.Args...)
	}
	if c.query.Order != "" {
		tx = tx.Order(c.query.Order)
	}
	if c.query.Limit > 0 {
		tx = tx.Limit(c.query.Limit)
	}
	return tx
}

func (c *Collection[T]) Find(ctx context.Context) ([]T, error) {
	rows := make([]T, 0)
	if err := c.scoped(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	row := new(T)
	tx := c.db.WithContext(ctx)
	for _, rel := range c.query.Preload {
		tx = tx.Preload(rel)
	}
	if err := tx.First(row, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return row, nil
}

func (c *Collection[T]) Insert(ctx context.Context, row *T) error {
	return c.db.WithContext(ctx).Create(row).Error
}

func (c *Collection[T]) Patch(ctx context.Context, id string, fields map[string]any) error {
	res := c.base(ctx).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PatchWhere update bersyarat dalam satu statement. Mengembalikan jumlah
// baris yang berubah; 0 berarti kondisi tidak terpenuhi.
func (c *Collection[T]) PatchWhere(ctx context.Context, id string, cond Filter, fields map[string]any) (int64, error) {
	res := c.base(ctx).Where("id = ?", id).Where("("+cond.Expr+")", cond.Args...).Updates(fields)
	return res.RowsAffected, res.Error
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Collection[T]) Count(ctx context.Context, filters ...Filter) (int64, error) {
	var n int64
	tx := c.base(ctx)
	for _, f := range append(append([]Filter(nil), c.query.Filters...), filters...) {
		tx = tx.Where("("+f.Expr+")", f.Args...)
	}
	err := tx.Count(&n).Error
	return n, err
}
