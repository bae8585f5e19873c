package store

import "errors"

// Sentinel errors returned by the directory and its credential store.
// Callers should use [errors.Is] to match against these values.
var (
	// ErrPersonNotFound is returned when an operation targets an unknown
	// person id.
	ErrPersonNotFound = errors.New("person not found")

	// ErrPersonExists is returned when inserting a record whose id is
	// already present. Ids are never reused.
	ErrPersonExists = errors.New("person already exists")

	// ErrCredentialNotFound is returned when a credential lookup or update
	// targets an unknown username.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrCredentialExists is returned when inserting a second credential for
	// the same person id.
	ErrCredentialExists = errors.New("credential already exists")

	// ErrUsernameTaken is returned when a username is already used by a
	// different person.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrPersistence is returned when the backend fails to load or save the
	// directory. A failed save leaves the in-memory state untouched.
	ErrPersistence = errors.New("persistence failure")

	// ErrNoSnapshot is returned by [Backend.Load] when nothing has been
	// stored yet.
	ErrNoSnapshot = errors.New("no snapshot stored")

	// ErrClosed is returned by operations on a closed directory.
	ErrClosed = errors.New("directory is closed")

	// ErrUnknownBackend is returned by [NewBackend] for an unsupported
	// backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Low-level database operation errors, wrapped by the SQL backend.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing fails. The
	// transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRows is returned when scanning a result set fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
