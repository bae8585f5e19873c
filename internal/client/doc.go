// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements familyctl, the administration command line for
// the family-tree server.
//
// Every command is a one-shot call through an [adapter.ServerAdapter]. The
// session token obtained by "familyctl login" is kept in an
// [adapter.TokenStore] so that later invocations reuse it.
package client
