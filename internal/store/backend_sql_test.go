package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSQLBackend(t *testing.T, dialect Dialect) (*SQLBackend, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var classifier ErrorClassificator = NewSQLiteErrorClassifier()
	if dialect == DialectPostgres {
		classifier = NewPostgresErrorClassifier()
	}

	b := NewSQLBackend(&DB{DB: conn, errorClassificator: classifier, logger: logger.Nop(), dialect: dialect})
	b.retryDelays = []time.Duration{0, 0}
	return b, mock
}

// ─── NewSQLBackend ───────────────────────────────────────────────────────────

// TestNewSQLBackend_Placeholders picks the bind style of the dialect.
func TestNewSQLBackend_Placeholders(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    string
	}{
		{DialectSQLite, "SELECT value FROM directory_meta WHERE key = ?"},
		{DialectPostgres, "SELECT value FROM directory_meta WHERE key = $1"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			b, _ := newMockSQLBackend(t, tt.dialect)

			query, args, err := b.builder.Select("value").From(metaTable).Where(sq.Eq{"key": metaSavedAt}).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.Equal(t, []any{metaSavedAt}, args)
		})
	}
}

// ─── SQLBackend.Load ─────────────────────────────────────────────────────────

// TestSQLBackend_LoadEmpty reports no snapshot when the meta row is missing.
func TestSQLBackend_LoadEmpty(t *testing.T) {
	b, mock := newMockSQLBackend(t, DialectSQLite)

	mock.ExpectQuery(`SELECT value FROM directory_meta WHERE key = \?`).
		WithArgs(metaSavedAt).
		WillReturnError(sql.ErrNoRows)

	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSQLBackend_LoadRows rebuilds persons and credentials in position order.
func TestSQLBackend_LoadRows(t *testing.T) {
	b, mock := newMockSQLBackend(t, DialectPostgres)
	snap := familySnapshot()
	require.NoError(t, snap.Validate())

	mock.ExpectQuery(`SELECT value FROM directory_meta WHERE key = \$1`).
		WithArgs(metaSavedAt).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("2026-01-01T00:00:00Z"))

	personRows := sqlmock.NewRows([]string{"document"})
	for _, p := range snap.Persons {
		doc, err := json.Marshal(p)
		require.NoError(t, err)
		personRows.AddRow(string(doc))
	}
	mock.ExpectQuery(`SELECT document FROM persons ORDER BY position`).WillReturnRows(personRows)
	mock.ExpectQuery(`SELECT person_id, username, password_hash FROM credentials ORDER BY position`).
		WillReturnRows(sqlmock.NewRows([]string{"person_id", "username", "password_hash"}).
			AddRow("p1", "admin", "$2a$10$hash"))

	got, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSQLBackend_LoadBadDocument flags an undecodable person row.
func TestSQLBackend_LoadBadDocument(t *testing.T) {
	b, mock := newMockSQLBackend(t, DialectSQLite)

	mock.ExpectQuery(`SELECT value FROM directory_meta`).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("x"))
	mock.ExpectQuery(`SELECT document FROM persons`).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow("{broken"))

	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrInconsistentSnapshot)
}

// ─── SQLBackend.Save ─────────────────────────────────────────────────────────

// TestSQLBackend_SaveRewritesTables replaces every row in one transaction.
func TestSQLBackend_SaveRewritesTables(t *testing.T) {
	b, mock := newMockSQLBackend(t, DialectSQLite)
	snap := familySnapshot()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM credentials`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM persons`).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`INSERT INTO persons \(id,position,document\) VALUES \(\?,\?,\?\),\(\?,\?,\?\),\(\?,\?,\?\),\(\?,\?,\?\)`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`INSERT INTO credentials \(person_id,position,username,password_hash\) VALUES \(\?,\?,\?,\?\)`).
		WithArgs("p1", 0, "admin", "$2a$10$hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO directory_meta \(key,value\) VALUES \(\?,\?\) ON CONFLICT \(key\) DO UPDATE SET value = excluded.value`).
		WithArgs(metaSavedAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, b.Save(context.Background(), snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSQLBackend_SaveEmpty skips the inserts when there is nothing to write.
func TestSQLBackend_SaveEmpty(t *testing.T) {
	b, mock := newMockSQLBackend(t, DialectPostgres)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM credentials`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM persons`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO directory_meta \(key,value\) VALUES \(\$1,\$2\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, b.Save(context.Background(), models.Snapshot{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSQLBackend_SaveRollsBackOnError aborts the transaction on a failed statement.
func TestSQLBackend_SaveRollsBackOnError(t *testing.T) {
	b, mock := newMockSQLBackend(t, DialectPostgres)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM credentials`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UndefinedTable})
	mock.ExpectRollback()

	err := b.Save(context.Background(), familySnapshot())
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSQLBackend_SaveRetriesTransient repeats the transaction after a serialization failure.
func TestSQLBackend_SaveRetriesTransient(t *testing.T) {
	b, mock := newMockSQLBackend(t, DialectPostgres)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM credentials`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM credentials`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM persons`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO directory_meta`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, b.Save(context.Background(), models.Snapshot{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSQLBackend_BeginFails wraps the driver error.
func TestSQLBackend_BeginFails(t *testing.T) {
	b, mock := newMockSQLBackend(t, DialectSQLite)
	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	err := b.Save(context.Background(), models.Snapshot{})
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

// ─── classifiers ─────────────────────────────────────────────────────────────

// TestPostgresErrorClassifier maps SQLSTATE codes to retry decisions.
func TestPostgresErrorClassifier(t *testing.T) {
	c := NewPostgresErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{"nil", nil, NonRetryable},
		{"plain error", errors.New("x"), NonRetryable},
		{"serialization failure", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, Retryable},
		{"deadlock", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, Retryable},
		{"connection failure", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, Retryable},
		{"cannot connect now", &pgconn.PgError{Code: pgerrcode.CannotConnectNow}, Retryable},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, NonRetryable},
		{"syntax error", &pgconn.PgError{Code: pgerrcode.SyntaxError}, NonRetryable},
		{"bad conn", driver.ErrBadConn, Retryable},
		{"wrapped", fmt.Errorf("%w: %w", ErrExecutingQuery, &pgconn.PgError{Code: pgerrcode.SerializationFailure}), Retryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

// TestSQLiteErrorClassifier retries busy and locked databases only.
func TestSQLiteErrorClassifier(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	assert.Equal(t, Retryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.Equal(t, Retryable, c.Classify(fmt.Errorf("wrapped: %w", sqlite3.Error{Code: sqlite3.ErrLocked})))
	assert.Equal(t, NonRetryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.Equal(t, NonRetryable, c.Classify(errors.New("x")))
}
