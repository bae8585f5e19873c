package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/models"
)

// FileBackend stores the directory as one JSON document of the form
// {"users": [...], "persons": [...]}. Saves write a temporary file in the
// same directory and rename it over the target, so a crash mid-save never
// leaves a truncated document behind.
type FileBackend struct {
	path   string
	logger *logger.Logger
}

// NewFileBackend returns a backend persisting to path.
func NewFileBackend(path string, log *logger.Logger) *FileBackend {
	return &FileBackend{path: path, logger: log}
}

// Path returns the data file location.
func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Load(_ context.Context) (models.Snapshot, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("error reading data file: %w", err)
	}

	return DecodeSnapshot(data)
}

func (b *FileBackend) Save(_ context.Context, snapshot models.Snapshot) error {
	data, err := EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	return writeFileAtomic(b.path, data)
}

func (b *FileBackend) Close() error {
	return nil
}

// EncodeSnapshot renders s in the persisted document layout.
func EncodeSnapshot(s models.Snapshot) ([]byte, error) {
	if s.Users == nil {
		s.Users = []models.Credential{}
	}
	if s.Persons == nil {
		s.Persons = []models.Person{}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeSnapshot parses a persisted document.
func DecodeSnapshot(data []byte) (models.Snapshot, error) {
	var s models.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %w", models.ErrInconsistentSnapshot, err)
	}
	return s, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("error syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("error closing temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("error setting data file mode: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("error replacing data file: %w", err)
	}

	return nil
}
