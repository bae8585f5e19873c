// Package workers provides the background jobs of the family-tree server.
// It defines the Worker interface and a Workers aggregate that starts every
// configured worker in a unified way.
package workers

import (
	"context"

	"github.com/MKhiriev/go-family-tree/models"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run must not block: implementations spawn their own goroutine and stop
// when ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}

// SnapshotSource is the part of the directory a backup needs.
// [store.Directory] satisfies it.
type SnapshotSource interface {
	Snapshot() (models.Snapshot, error)
}
