// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"io"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the command line given by args and returns when the
	// command is done.
	Run(ctx context.Context, args []string, in io.Reader, out io.Writer) error
}
