package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── FileBackend ─────────────────────────────────────────────────────────────

// TestFileBackend_MissingFile reports that nothing is stored yet.
func TestFileBackend_MissingFile(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "data.json"), logger.Nop())

	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

// TestFileBackend_RoundTrip saves and reloads the same snapshot.
func TestFileBackend_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	b := NewFileBackend(path, logger.Nop())
	snap := familySnapshot()
	require.NoError(t, snap.Validate())

	require.NoError(t, b.Save(context.Background(), snap))

	got, err := b.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, got.Validate())
	assert.Equal(t, snap, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// TestFileBackend_DocumentLayout writes the users/persons document with the hash under "password".
func TestFileBackend_DocumentLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	b := NewFileBackend(path, logger.Nop())

	require.NoError(t, b.Save(context.Background(), familySnapshot()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"users": [`)
	assert.Contains(t, string(raw), `"persons": [`)
	assert.Contains(t, string(raw), `"password": "$2a$10$hash"`)
}

// TestFileBackend_EmptySnapshot writes empty arrays rather than null.
func TestFileBackend_EmptySnapshot(t *testing.T) {
	data, err := EncodeSnapshot(models.Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"users": [], "persons": []}`, string(data))
}

// TestFileBackend_CorruptFile surfaces a decode error as an inconsistent snapshot.
func TestFileBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileBackend(path, logger.Nop()).Load(context.Background())
	assert.ErrorIs(t, err, models.ErrInconsistentSnapshot)
}

// ─── MemoryBackend ───────────────────────────────────────────────────────────

// TestMemoryBackend_IsolatesCopies keeps saved data independent of the caller.
func TestMemoryBackend_IsolatesCopies(t *testing.T) {
	b := NewMemoryBackend()
	snap := familySnapshot()
	require.NoError(t, b.Save(context.Background(), snap))

	snap.Persons[0].FirstName = "mutated"
	got, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Juan", got.Persons[0].FirstName)
	assert.Equal(t, 1, b.Saves())
}
