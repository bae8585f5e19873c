// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-family-tree/models"
)

const (
	personsTable     = "persons"
	credentialsTable = "credentials"
	metaTable        = "directory_meta"

	metaSavedAt = "saved_at"

	insertBatchSize = 500
)

// SQLBackend stores the directory snapshot in three tables: one row per
// person holding its JSON document, one row per credential, and a meta row
// marking that a snapshot exists. Every Save rewrites all rows inside one
// transaction.
type SQLBackend struct {
	db          *DB
	builder     sq.StatementBuilderType
	retryDelays []time.Duration
}

// NewSQLBackend returns a backend on top of a migrated connection.
func NewSQLBackend(db *DB) *SQLBackend {
	var placeholder sq.PlaceholderFormat = sq.Question
	if db.dialect == DialectPostgres {
		placeholder = sq.Dollar
	}

	return &SQLBackend{
		db:          db,
		builder:     sq.StatementBuilder.PlaceholderFormat(placeholder),
		retryDelays: []time.Duration{100 * time.Millisecond, 300 * time.Millisecond},
	}
}

func (b *SQLBackend) Load(ctx context.Context) (models.Snapshot, error) {
	var snapshot models.Snapshot
	err := b.withRetry(ctx, "Load", func() error {
		var err error
		snapshot, err = b.load(ctx)
		return err
	})
	return snapshot, err
}

func (b *SQLBackend) Save(ctx context.Context, snapshot models.Snapshot) error {
	return b.withRetry(ctx, "Save", func() error {
		return b.save(ctx, snapshot)
	})
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}

func (b *SQLBackend) load(ctx context.Context) (models.Snapshot, error) {
	query, args, err := b.builder.Select("value").From(metaTable).Where(sq.Eq{"key": metaSavedAt}).ToSql()
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var savedAt string
	if err = b.db.QueryRowContext(ctx, query, args...).Scan(&savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Snapshot{}, ErrNoSnapshot
		}
		return models.Snapshot{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	persons, err := b.loadPersons(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	users, err := b.loadCredentials(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}

	b.db.logger.Debug().Str("func", "*SQLBackend.load").Str("saved_at", savedAt).Msg("snapshot loaded")

	return models.Snapshot{Users: users, Persons: persons}, nil
}

func (b *SQLBackend) loadPersons(ctx context.Context) ([]models.Person, error) {
	query, args, err := b.builder.Select("document").From(personsTable).OrderBy("position").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	persons := []models.Person{}
	for rows.Next() {
		var doc string
		if err = rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		var p models.Person
		if err = json.Unmarshal([]byte(doc), &p); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrInconsistentSnapshot, err)
		}
		persons = append(persons, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return persons, nil
}

func (b *SQLBackend) loadCredentials(ctx context.Context) ([]models.Credential, error) {
	query, args, err := b.builder.Select("person_id", "username", "password_hash").
		From(credentialsTable).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := []models.Credential{}
	for rows.Next() {
		var c models.Credential
		if err = rows.Scan(&c.ID, &c.Username, &c.PasswordHash); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		users = append(users, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

func (b *SQLBackend) save(ctx context.Context, snapshot models.Snapshot) (err error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// credentials reference persons, clear them first
	for _, table := range []string{credentialsTable, personsTable} {
		if err = b.exec(ctx, tx, b.builder.Delete(table)); err != nil {
			return err
		}
	}

	for start := 0; start < len(snapshot.Persons); start += insertBatchSize {
		end := min(start+insertBatchSize, len(snapshot.Persons))
		insert := b.builder.Insert(personsTable).Columns("id", "position", "document")
		for i, p := range snapshot.Persons[start:end] {
			doc, mErr := json.Marshal(p)
			if mErr != nil {
				return fmt.Errorf("error encoding person %q: %w", p.ID, mErr)
			}
			insert = insert.Values(p.ID, start+i, string(doc))
		}
		if err = b.exec(ctx, tx, insert); err != nil {
			return err
		}
	}

	for start := 0; start < len(snapshot.Users); start += insertBatchSize {
		end := min(start+insertBatchSize, len(snapshot.Users))
		insert := b.builder.Insert(credentialsTable).Columns("person_id", "position", "username", "password_hash")
		for i, c := range snapshot.Users[start:end] {
			insert = insert.Values(c.ID, start+i, c.Username, c.PasswordHash)
		}
		if err = b.exec(ctx, tx, insert); err != nil {
			return err
		}
	}

	upsert := b.builder.Insert(metaTable).
		Columns("key", "value").
		Values(metaSavedAt, time.Now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value")
	if err = b.exec(ctx, tx, upsert); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (b *SQLBackend) exec(ctx context.Context, tx *sql.Tx, stmt sq.Sqlizer) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

// withRetry runs op once plus once per configured delay, as long as the
// classifier reports the failure as transient.
func (b *SQLBackend) withRetry(ctx context.Context, name string, op func() error) error {
	err := op()
	for attempt, delay := range b.retryDelays {
		if err == nil || b.db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		b.db.logger.Warn().Err(err).
			Str("func", "*SQLBackend."+name).
			Int("attempt", attempt+1).
			Msg("transient database error, retrying")

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(delay):
		}

		err = op()
	}
	return err
}
