package store

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-family-tree/models"
)

// MemoryBackend keeps the last saved snapshot in memory. It is meant for
// tests and throwaway instances.
type MemoryBackend struct {
	mu       sync.Mutex
	snapshot *models.Snapshot
	saves    int
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// NewMemoryBackendWith returns a backend pre-loaded with s.
func NewMemoryBackendWith(s models.Snapshot) *MemoryBackend {
	c := cloneSnapshot(s)
	return &MemoryBackend{snapshot: &c}
}

func (b *MemoryBackend) Load(_ context.Context) (models.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.snapshot == nil {
		return models.Snapshot{}, ErrNoSnapshot
	}
	return cloneSnapshot(*b.snapshot), nil
}

func (b *MemoryBackend) Save(_ context.Context, s models.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := cloneSnapshot(s)
	b.snapshot = &c
	b.saves++
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}

// Saves returns how many times Save has been called.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

func cloneSnapshot(s models.Snapshot) models.Snapshot {
	c := models.Snapshot{
		Users:   append([]models.Credential(nil), s.Users...),
		Persons: make([]models.Person, len(s.Persons)),
	}
	for i, p := range s.Persons {
		c.Persons[i] = p.Clone()
	}
	return c
}
