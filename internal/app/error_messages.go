// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// family-tree server handlers and middleware.
//
// All Msg* constants are human-readable message strings written into the
// {"message": ...} body of HTTP responses. Keeping them in one place keeps
// the wording consistent throughout the API.
package app

const (
	// MsgInternalServerError replaces the cause of every 5xx failure so
	// that storage details never reach the client.
	MsgInternalServerError = "internal server error"

	// MsgServiceShuttingDown is returned once the directory has been closed.
	MsgServiceShuttingDown = "service is shutting down"

	// MsgNotFound is returned for paths that match no route.
	MsgNotFound = "not found"

	// MsgMethodNotAllowed is returned when the path exists but not for the
	// requested method.
	MsgMethodNotAllowed = "method not allowed"

	MsgLoginSuccessful = "login successful"
	MsgLoggedOut       = "logged out"
	MsgPasswordChanged = "password changed"
	MsgImportCompleted = "import completed"
)
