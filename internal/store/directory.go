// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/models"
)

// Directory is the authoritative person graph together with its credential
// store. Reads run concurrently through [Directory.View]; every mutation runs
// through [Directory.Update], which serializes writers, works on a private
// copy of the state and swaps it in only after the backend has durably saved
// the result. A failed save therefore leaves the visible state unchanged.
type Directory struct {
	mu      sync.RWMutex
	state   *graph
	backend Backend
	logger  *logger.Logger
	closed  bool
	fresh   bool
}

// Open loads the last snapshot from backend and returns a ready directory.
//
// An empty backend yields an empty directory for which [Directory.Fresh]
// reports true. A snapshot that fails validation is returned as an error;
// the directory never silently discards stored data.
func Open(ctx context.Context, backend Backend, log *logger.Logger) (*Directory, error) {
	d := &Directory{
		backend: backend,
		logger:  log,
	}

	snap, err := backend.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		log.Info().Str("func", "store.Open").Msg("no stored directory found, starting empty")
		d.state = newGraph()
		d.fresh = true
		return d, nil
	case err != nil:
		log.Err(err).Str("func", "store.Open").Msg("error loading directory")
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	g, err := graphFromSnapshot(snap)
	if err != nil {
		log.Err(err).Str("func", "store.Open").Msg("stored directory is inconsistent")
		return nil, err
	}
	d.state = g

	log.Info().Str("func", "store.Open").
		Int("persons", len(g.persons)).
		Int("accounts", g.creds.Len()).
		Msg("directory loaded")

	return d, nil
}

// Fresh reports whether the directory was opened on an empty backend.
func (d *Directory) Fresh() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fresh
}

// View runs fn with a read-only view of the current state. Values returned
// by the view are copies; fn must not retain the view after returning.
func (d *Directory) View(fn func(v *View) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	return fn(&View{g: d.state})
}

// Update runs fn inside a write transaction. When fn returns nil and has
// changed anything, the new state is saved to the backend and published.
// When fn returns an error, or the save fails, nothing changes.
func (d *Directory) Update(ctx context.Context, fn func(tx *Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}

	tx := &Tx{g: d.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}

	return d.commit(ctx, tx.g)
}

// Replace validates snap and makes it the whole directory state.
func (d *Directory) Replace(ctx context.Context, snap models.Snapshot) error {
	g, err := graphFromSnapshot(snap)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}

	return d.commit(ctx, g)
}

// commit must be called with d.mu held for writing.
func (d *Directory) commit(ctx context.Context, g *graph) error {
	if err := d.backend.Save(ctx, g.snapshot()); err != nil {
		d.logger.Err(err).Str("func", "*Directory.commit").Msg("error saving directory, changes discarded")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	d.state = g
	d.fresh = false
	return nil
}

// Snapshot returns a deep copy of the whole state.
func (d *Directory) Snapshot() (models.Snapshot, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return models.Snapshot{}, ErrClosed
	}

	return d.state.snapshot(), nil
}

// Close waits for in-flight operations and closes the backend. Later calls
// return [ErrClosed] from every operation.
func (d *Directory) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	return d.backend.Close()
}

// View is a read-only handle on the directory state.
type View struct {
	g *graph
}

// Get returns a copy of the person with id.
func (v *View) Get(id string) (models.Person, error) {
	return v.g.get(id)
}

// List returns copies of all persons in insertion order.
func (v *View) List() []models.Person {
	return v.g.list()
}

// Len returns the number of persons.
func (v *View) Len() int {
	return len(v.g.persons)
}

// FindCredentialByUsername looks up a login identity by username.
func (v *View) FindCredentialByUsername(username string) (models.Credential, bool) {
	return v.g.creds.FindByUsername(username)
}

// FindCredentialByID looks up the login identity owned by person id.
func (v *View) FindCredentialByID(id string) (models.Credential, bool) {
	return v.g.creds.FindByID(id)
}

// Tx is a write handle on a private copy of the directory state.
type Tx struct {
	g     *graph
	dirty bool
}

// Get returns a copy of the person with id.
func (tx *Tx) Get(id string) (models.Person, error) {
	return tx.g.get(id)
}

// List returns copies of all persons in insertion order.
func (tx *Tx) List() []models.Person {
	return tx.g.list()
}

// Exists reports whether a person with id is present.
func (tx *Tx) Exists(id string) bool {
	_, ok := tx.g.index[id]
	return ok
}

// Insert appends a new person record.
func (tx *Tx) Insert(p models.Person) error {
	if err := tx.g.insert(p); err != nil {
		return err
	}
	tx.dirty = true
	return nil
}

// Put replaces an existing person record.
func (tx *Tx) Put(p models.Person) error {
	if err := tx.g.put(p); err != nil {
		return err
	}
	tx.dirty = true
	return nil
}

// Delete removes the person with id and its credential, then scrubs every
// reference to it from the remaining records. It returns the number of
// records the scrub changed.
func (tx *Tx) Delete(id string) (int, error) {
	if err := tx.g.remove(id); err != nil {
		return 0, err
	}
	tx.g.creds.Remove(id)
	tx.dirty = true

	return sweepRelations(tx.g, id), nil
}

// FindCredentialByID looks up the login identity owned by person id.
func (tx *Tx) FindCredentialByID(id string) (models.Credential, bool) {
	return tx.g.creds.FindByID(id)
}

// InsertCredential registers a new login identity for person id.
func (tx *Tx) InsertCredential(id, username, passwordHash string) error {
	if err := tx.g.creds.Insert(id, username, passwordHash); err != nil {
		return err
	}
	tx.dirty = true
	return nil
}

// UpdatePassword replaces the hash stored under username.
func (tx *Tx) UpdatePassword(username, passwordHash string) error {
	if err := tx.g.creds.UpdatePassword(username, passwordHash); err != nil {
		return err
	}
	tx.dirty = true
	return nil
}

// UpdateUsername renames a login identity.
func (tx *Tx) UpdateUsername(oldUsername, newUsername string) error {
	if err := tx.g.creds.UpdateUsername(oldUsername, newUsername); err != nil {
		return err
	}
	if oldUsername != newUsername {
		tx.dirty = true
	}
	return nil
}

// RemoveCredential deletes the login identity owned by person id, if any.
func (tx *Tx) RemoveCredential(id string) bool {
	removed := tx.g.creds.Remove(id)
	if removed {
		tx.dirty = true
	}
	return removed
}
