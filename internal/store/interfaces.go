package store

import (
	"context"

	"github.com/MKhiriev/go-family-tree/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_backend_mock.go -package=mock

// Backend is the durable storage behind a [Directory]. It stores the whole
// directory as one [models.Snapshot]; the directory calls Save after every
// successful mutation while holding its write lock.
type Backend interface {
	// Load returns the last saved snapshot, or [ErrNoSnapshot] when the
	// backend is empty.
	Load(ctx context.Context) (models.Snapshot, error)

	// Save durably replaces the stored snapshot.
	Save(ctx context.Context, snapshot models.Snapshot) error

	// Close releases the resources held by the backend.
	Close() error
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
