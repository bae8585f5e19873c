// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"slices"

	"github.com/MKhiriev/go-family-tree/models"
)

// CredentialStore holds login identities keyed by person id, with a
// username index for authentication. It preserves insertion order so that
// the persisted "users" collection round-trips unchanged.
//
// A CredentialStore is not safe for concurrent use on its own; it lives
// inside a [Directory] and is only reachable through [View] and [Tx].
type CredentialStore struct {
	order      []string
	byID       map[string]models.Credential
	byUsername map[string]string
}

func newCredentialStore() *CredentialStore {
	return &CredentialStore{
		byID:       make(map[string]models.Credential),
		byUsername: make(map[string]string),
	}
}

// FindByUsername returns the credential registered under username.
func (s *CredentialStore) FindByUsername(username string) (models.Credential, bool) {
	id, ok := s.byUsername[username]
	if !ok {
		return models.Credential{}, false
	}
	return s.byID[id], true
}

// FindByID returns the credential owned by person id.
func (s *CredentialStore) FindByID(id string) (models.Credential, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Insert registers a new credential for person id.
func (s *CredentialStore) Insert(id, username, passwordHash string) error {
	if owner, taken := s.byUsername[username]; taken && owner != id {
		return fmt.Errorf("%w: %q", ErrUsernameTaken, username)
	}
	if _, exists := s.byID[id]; exists {
		return fmt.Errorf("%w: %q", ErrCredentialExists, id)
	}

	s.byID[id] = models.Credential{ID: id, Username: username, PasswordHash: passwordHash}
	s.byUsername[username] = id
	s.order = append(s.order, id)

	return nil
}

// UpdatePassword replaces the hash of the credential registered under username.
func (s *CredentialStore) UpdatePassword(username, passwordHash string) error {
	id, ok := s.byUsername[username]
	if !ok {
		return fmt.Errorf("%w: %q", ErrCredentialNotFound, username)
	}

	c := s.byID[id]
	c.PasswordHash = passwordHash
	s.byID[id] = c

	return nil
}

// UpdateUsername renames a credential. Renaming to the current name is a no-op.
func (s *CredentialStore) UpdateUsername(oldUsername, newUsername string) error {
	id, ok := s.byUsername[oldUsername]
	if !ok {
		return fmt.Errorf("%w: %q", ErrCredentialNotFound, oldUsername)
	}
	if oldUsername == newUsername {
		return nil
	}
	if _, taken := s.byUsername[newUsername]; taken {
		return fmt.Errorf("%w: %q", ErrUsernameTaken, newUsername)
	}

	c := s.byID[id]
	c.Username = newUsername
	s.byID[id] = c
	delete(s.byUsername, oldUsername)
	s.byUsername[newUsername] = id

	return nil
}

// Remove deletes the credential owned by person id. Removing an absent
// credential is a no-op; the return value reports whether one existed.
func (s *CredentialStore) Remove(id string) bool {
	c, ok := s.byID[id]
	if !ok {
		return false
	}

	delete(s.byID, id)
	delete(s.byUsername, c.Username)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })

	return true
}

// Len returns the number of credentials.
func (s *CredentialStore) Len() int {
	return len(s.order)
}

// List returns all credentials in insertion order.
func (s *CredentialStore) List() []models.Credential {
	out := make([]models.Credential, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *CredentialStore) clone() *CredentialStore {
	c := &CredentialStore{
		order:      slices.Clone(s.order),
		byID:       make(map[string]models.Credential, len(s.byID)),
		byUsername: make(map[string]string, len(s.byUsername)),
	}
	for k, v := range s.byID {
		c.byID[k] = v
	}
	for k, v := range s.byUsername {
		c.byUsername[k] = v
	}
	return c
}
