// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"

	"golang.org/x/crypto/bcrypt"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// server invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	app := cfg.App
	if app.TokenSignKey == "" || app.TokenIssuer == "" || app.TokenDuration <= 0 {
		return fmt.Errorf("%w: token sign key, issuer and a positive duration are required", ErrInvalidAppConfigs)
	}
	if app.PasswordHashCost < bcrypt.MinCost || app.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: password hash cost must be in [%d, %d]", ErrInvalidAppConfigs, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if app.ContactVisibility != ContactVisibilityAuthenticated && app.ContactVisibility != ContactVisibilityOwner {
		return fmt.Errorf("%w: unknown contact visibility %q", ErrInvalidAppConfigs, app.ContactVisibility)
	}
	if app.BootstrapAdmin.Enabled() && (app.BootstrapAdmin.Username == "" || app.BootstrapAdmin.Password == "") {
		return fmt.Errorf("%w: bootstrap admin needs both username and password", ErrInvalidAppConfigs)
	}

	switch cfg.Storage.Backend {
	case BackendFile:
		if cfg.Storage.Files.DataFile == "" {
			return fmt.Errorf("%w: data file is required for the file backend", ErrInvalidStorageConfigs)
		}
	case BackendSQLite, BackendPostgres:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: DSN is required for the %s backend", ErrInvalidStorageConfigs, cfg.Storage.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidStorageConfigs, cfg.Storage.Backend)
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("%w: address and a positive request timeout are required", ErrInvalidServerConfigs)
	}

	if cfg.Workers.BackupDir != "" && (cfg.Workers.BackupInterval <= 0 || cfg.Workers.BackupRetain < 1) {
		return fmt.Errorf("%w: backups need a positive interval and retain count", ErrInvalidWorkerConfigs)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	u, err := url.Parse(cfg.Adapter.HTTPAddress)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: server address must be an absolute URL", ErrInvalidAdapterConfigs)
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidAdapterConfigs)
	}

	return nil
}
