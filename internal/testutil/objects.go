package testutil

import (
	"context"
	"io"
	"sync"
)

// MemoryStore ObjectStore palsu yang menyimpan objek di memori.
type MemoryStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Objects: map[string][]byte{}}
}

func (m *MemoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = b
	return "https://objects.test/" + key, nil
}
