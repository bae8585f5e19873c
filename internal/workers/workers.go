package workers

import (
	"context"

	"github.com/MKhiriev/go-family-tree/internal/config"
	"github.com/MKhiriev/go-family-tree/internal/logger"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the workers enabled by cfg. A zero config yields an empty
// aggregate whose Run is a no-op.
func NewWorkers(source SnapshotSource, cfg config.Workers, log *logger.Logger) *Workers {
	w := &Workers{}
	if cfg.BackupDir != "" {
		w.workers = append(w.workers, NewBackupWorker(source, cfg, log))
	}
	return w
}

func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

// Len reports how many workers are configured.
func (w *Workers) Len() int {
	return len(w.workers)
}
