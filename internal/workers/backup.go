// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/go-family-tree/internal/config"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/internal/store"
)

const (
	backupPrefix     = "familytree-"
	backupSuffix     = ".json"
	backupTimeLayout = "20060102T150405.000Z"
)

// BackupWorker periodically writes the directory to BackupDir in the
// persisted layout and keeps only the newest BackupRetain files.
type BackupWorker struct {
	source   SnapshotSource
	dir      string
	interval time.Duration
	retain   int
	now      func() time.Time
	logger   *logger.Logger
}

func NewBackupWorker(source SnapshotSource, cfg config.Workers, log *logger.Logger) *BackupWorker {
	return &BackupWorker{
		source:   source,
		dir:      cfg.BackupDir,
		interval: cfg.BackupInterval,
		retain:   cfg.BackupRetain,
		now:      time.Now,
		logger:   log,
	}
}

// Run starts the backup loop in its own goroutine. The loop exits when ctx
// is cancelled or the directory is closed.
func (b *BackupWorker) Run(ctx context.Context) {
	if b.interval <= 0 {
		b.logger.Warn().Str("func", "*BackupWorker.Run").Msg("backup interval is not positive, worker disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		b.logger.Info().Str("func", "*BackupWorker.Run").
			Str("dir", b.dir).
			Dur("interval", b.interval).
			Msg("backup worker started")

		for {
			select {
			case <-ctx.Done():
				b.logger.Info().Str("func", "*BackupWorker.Run").Msg("backup worker stopped")
				return
			case <-ticker.C:
				path, err := b.Backup(ctx)
				if err != nil {
					if errors.Is(err, store.ErrClosed) {
						return
					}
					b.logger.Err(err).Str("func", "*BackupWorker.Run").Msg("backup failed")
					continue
				}
				b.logger.Debug().Str("func", "*BackupWorker.Run").Str("path", path).Msg("backup written")
			}
		}
	}()
}

// Backup writes one snapshot file and prunes old ones. It returns the path of
// the new file.
func (b *BackupWorker) Backup(ctx context.Context) (string, error) {
	snap, err := b.source.Snapshot()
	if err != nil {
		return "", err
	}

	name := backupPrefix + b.now().UTC().Format(backupTimeLayout) + backupSuffix
	path := filepath.Join(b.dir, name)

	if err = store.NewFileBackend(path, b.logger).Save(ctx, snap); err != nil {
		return "", fmt.Errorf("error writing backup: %w", err)
	}

	if err = b.prune(); err != nil {
		return path, fmt.Errorf("error pruning backups: %w", err)
	}
	return path, nil
}

// prune removes the oldest backups beyond the retention count. File names
// sort chronologically.
func (b *BackupWorker) prune() error {
	if b.retain < 1 {
		return nil
	}

	backups, err := b.List()
	if err != nil {
		return err
	}
	if len(backups) <= b.retain {
		return nil
	}

	for _, name := range backups[:len(backups)-b.retain] {
		if err = os.Remove(filepath.Join(b.dir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// List returns the backup file names in BackupDir, oldest first.
func (b *BackupWorker) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}
