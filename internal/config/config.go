// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Storage backends accepted by [Storage.Backend].
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Contact visibility policies accepted by [App.ContactVisibility].
const (
	// ContactVisibilityAuthenticated reveals contact numbers to every
	// logged-in viewer.
	ContactVisibilityAuthenticated = "authenticated"

	// ContactVisibilityOwner reveals a contact number only to admins and to
	// the person it belongs to.
	ContactVisibilityOwner = "owner"
)

// StructuredConfig is the top-level configuration container for the
// go-family-tree application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: token parameters, password
	// hashing, account policies and the application version.
	App App `envPrefix:"APP_"`

	// Storage selects and configures the persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the settings familyctl uses to reach the server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the secret key used to sign and verify session tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a session token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// PasswordHashCost is the bcrypt cost factor.
	// Env: APP_PASSWORD_HASH_COST
	PasswordHashCost int `env:"PASSWORD_HASH_COST"`

	// DefaultAccountPassword, when set, is assigned to accounts created
	// without an explicit password. Empty means such requests are rejected.
	// Env: APP_DEFAULT_ACCOUNT_PASSWORD
	DefaultAccountPassword string `env:"DEFAULT_ACCOUNT_PASSWORD"`

	// ContactVisibility is one of "authenticated" or "owner".
	// Env: APP_CONTACT_VISIBILITY
	ContactVisibility string `env:"CONTACT_VISIBILITY"`

	// BootstrapAdmin describes the admin account created when the directory
	// starts empty and no seed file is configured.
	BootstrapAdmin BootstrapAdmin `envPrefix:"BOOTSTRAP_ADMIN_"`

	// LogLevel narrows the global log level ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// Version is exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// BootstrapAdmin holds the credentials of the first admin.
type BootstrapAdmin struct {
	Username  string `env:"USERNAME"`
	Password  string `env:"PASSWORD"`
	FirstName string `env:"FIRST_NAME"`
	LastName  string `env:"LAST_NAME"`
}

// Enabled reports whether a bootstrap admin is configured.
func (b BootstrapAdmin) Enabled() bool {
	return b.Username != "" || b.Password != ""
}

// Storage groups the configuration for the persistence backends.
type Storage struct {
	// Backend is one of "file", "sqlite", "postgres" or "memory".
	// Env: STORAGE_BACKEND
	Backend string `env:"BACKEND"`

	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the file-system settings.
	Files Files `envPrefix:"FILES_"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// CookieSecure marks the session cookie Secure (HTTPS only).
	// Env: SERVER_COOKIE_SECURE
	CookieSecure bool `env:"COOKIE_SECURE"`
}

// DB holds connection settings for the relational database backends.
type DB struct {
	// DSN is the database connection string: a file path or "file:" URI for
	// sqlite, a postgres URL for postgres.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds file-system storage settings.
type Files struct {
	// DataFile is the JSON document holding the whole directory.
	// Env: STORAGE_FILES_DATA_FILE
	DataFile string `env:"DATA_FILE"`

	// SeedFile is an optional JSON document imported when the backend is
	// empty on first start.
	// Env: STORAGE_FILES_SEED_FILE
	SeedFile string `env:"SEED_FILE"`
}

// Adapter holds the settings familyctl uses to talk to the server.
type Adapter struct {
	// HTTPAddress is the server base URL (e.g. "http://localhost:8080").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds each outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// TokenFile is where familyctl keeps the session token between runs.
	// Env: ADAPTER_TOKEN_FILE
	TokenFile string `env:"TOKEN_FILE"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// BackupDir enables periodic snapshots of the directory when non-empty.
	// Env: WORKERS_BACKUP_DIR
	BackupDir string `env:"BACKUP_DIR"`

	// BackupInterval is the period between two snapshots.
	// Env: WORKERS_BACKUP_INTERVAL
	BackupInterval time.Duration `env:"BACKUP_INTERVAL"`

	// BackupRetain is how many snapshot files are kept.
	// Env: WORKERS_BACKUP_RETAIN
	BackupRetain int `env:"BACKUP_RETAIN"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Fields left empty by every source receive the values of [Defaults].
func GetStructuredConfig() (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
	if err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

// Defaults returns the fallback configuration.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:       "go-family-tree",
			TokenDuration:     24 * time.Hour,
			PasswordHashCost:  10,
			ContactVisibility: ContactVisibilityAuthenticated,
			BootstrapAdmin: BootstrapAdmin{
				FirstName: "Family",
				LastName:  "Admin",
			},
			Version: "dev",
		},
		Storage: Storage{
			Backend: BackendFile,
			Files: Files{
				DataFile: "data.json",
			},
		},
		Server: Server{
			HTTPAddress:     "localhost:8080",
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		Workers: Workers{
			BackupInterval: time.Hour,
			BackupRetain:   7,
		},
	}
}
