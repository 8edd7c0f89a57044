package store

import (
	"context"
	"sync"
)

// Snapshot keadaan view pada satu titik waktu.
type Snapshot[T any] struct {
	Data    []T    `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// View menyimpan hasil read query sebuah collection (data/loading/error).
// Setiap mutasi melakukan tepat satu write lalu menjalankan ulang read
// query secara penuh. Tidak ada merge parsial dan tidak ada deteksi konflik:
// dua write bersamaan berebut di database, yang terakhir menang.
type View[T any] struct {
	source *Collection[T]

	mu      sync.RWMutex
	data    []T
	loading bool
	err     string
}

func NewView[T any](source *Collection[T]) *View[T] {
	return &View[T]{source: source, data: make([]T, 0)}
}

func (v *View[T]) Source() *Collection[T] { return v.source }

// Load menjalankan read query. loading true selama query berjalan dan
// false sesudahnya apa pun hasilnya. Error read disimpan sebagai string.
func (v *View[T]) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()

	rows, err := v.source.Find(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		v.err = err.Error()
		return err
	}
	v.data = rows
	v.err = ""
	return nil
}

// Mutate menjalankan satu write. Gagal: error dikembalikan apa adanya dan
// state view tidak disentuh. Berhasil: read query dijalankan ulang; error
// refetch hanya tercatat di state view.
func (v *View[T]) Mutate(ctx context.Context, write func(ctx context.Context, c *Collection[T]) error) error {
	if err := write(ctx, v.source); err != nil {
		return err
	}
	_ = v.Load(ctx)
	return nil
}

func (v *View[T]) Create(ctx context.Context, row *T) error {
	return v.Mutate(ctx, func(ctx context.Context, c *Collection[T]) error {
		return c.Insert(ctx, row)
	})
}

func (v *View[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	return v.Mutate(ctx, func(ctx context.Context, c *Collection[T]) error {
		return c.Patch(ctx, id, fields)
	})
}

func (v *View[T]) Remove(ctx context.Context, id string) error {
	return v.Mutate(ctx, func(ctx context.Context, c *Collection[T]) error {
		return c.Delete(ctx, id)
	})
}

func (v *View[T]) Data() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.data
}

func (v *View[T]) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}

func (v *View[T]) Err() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}

func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Snapshot[T]{Data: v.data, Loading: v.loading, Error: v.err}
}
