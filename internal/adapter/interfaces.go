// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer familyctl uses to talk to the
// family-tree server.
//
// The primary abstraction is [ServerAdapter], which decouples the command
// implementations from the HTTP API. Error values defined in errors.go are
// mapped from HTTP status codes by mapHTTPError so that callers can use
// [errors.Is] (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-family-tree/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the family-tree server.
// Implementations handle serialisation, the bearer token and the mapping of
// transport errors to the sentinel values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all later requests.
	SetToken(token string)

	// Token returns the current bearer token, or an empty string.
	Token() string

	// Login authenticates with username and password. On success the session
	// token is stored via SetToken.
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)

	// Logout ends the session on the server and forgets the token.
	Logout(ctx context.Context) error

	// Status reports who the server thinks the caller is.
	Status(ctx context.Context) (models.StatusResponse, error)

	// ListPersons returns every person as the caller is allowed to see it.
	ListPersons(ctx context.Context) ([]models.PersonView, error)

	// ChangePassword sets a new password for the account of person id.
	// Admin only.
	ChangePassword(ctx context.Context, id, newPassword string) error

	// Export downloads the whole directory in the persisted layout.
	// Admin only.
	Export(ctx context.Context) ([]byte, error)

	// Import replaces the whole directory with document. Admin only.
	Import(ctx context.Context, document []byte) (models.ImportResponse, error)

	// Version returns the server version string.
	Version(ctx context.Context) (string, error)
}

// TokenStore keeps the session token between familyctl invocations.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}
