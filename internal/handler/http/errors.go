// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the session middleware when reading the token from
// the "Authorization" header or the session cookie. Callers can match
// against them with [errors.Is].
var (
	// ErrNoSession is returned when the request carries neither an
	// "Authorization" header nor a session cookie.
	ErrNoSession = errors.New("no session token provided")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the "Authorization" header contains the
	// expected scheme prefix but the token value itself is an empty string.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")

	// ErrMissingPathID is returned when a route expecting {id} receives an
	// empty path segment.
	ErrMissingPathID = errors.New("missing person id in path")
)
