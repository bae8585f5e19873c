// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"
	"strings"
)

// Snapshot is the persisted layout of the whole directory: a "users"
// collection of credentials and a "persons" collection of records.
// It is also the payload of the export and import operations.
type Snapshot struct {
	Users   []Credential `json:"users"`
	Persons []Person     `json:"persons"`
}

// ErrInconsistentSnapshot is returned by [Snapshot.Validate].
var ErrInconsistentSnapshot = errors.New("inconsistent snapshot")

// Validate checks the structural invariants of a snapshot:
//   - person ids are unique and non-empty, names are non-blank;
//   - roles are known, age is non-negative;
//   - relation pointers and side relations reference existing persons other than self;
//   - side relations carry a non-blank relation type;
//   - every account role has exactly one credential with the same id, username
//     and password hash, and every credential belongs to such a person;
//   - usernames are unique.
//
// The checks run on normalized copies; s is not modified.
func (s *Snapshot) Validate() error {
	persons := make([]Person, len(s.Persons))
	ids := make(map[string]struct{}, len(s.Persons))
	for i, p := range s.Persons {
		p.Normalize()
		persons[i] = p

		if p.ID == "" {
			return fmt.Errorf("%w: person #%d has empty id", ErrInconsistentSnapshot, i)
		}
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("%w: duplicate person id %q", ErrInconsistentSnapshot, p.ID)
		}
		ids[p.ID] = struct{}{}
	}

	creds := make(map[string]Credential, len(s.Users))
	usernames := make(map[string]string, len(s.Users))
	for _, c := range s.Users {
		if _, dup := creds[c.ID]; dup {
			return fmt.Errorf("%w: duplicate credential for id %q", ErrInconsistentSnapshot, c.ID)
		}
		if owner, dup := usernames[c.Username]; dup {
			return fmt.Errorf("%w: username %q used by %q and %q", ErrInconsistentSnapshot, c.Username, owner, c.ID)
		}
		if c.Username == "" || c.PasswordHash == "" {
			return fmt.Errorf("%w: credential %q is incomplete", ErrInconsistentSnapshot, c.ID)
		}
		creds[c.ID] = c
		usernames[c.Username] = c.ID
	}

	for _, p := range persons {
		if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
			return fmt.Errorf("%w: person %q has a blank name", ErrInconsistentSnapshot, p.ID)
		}
		if !p.Role.Valid() {
			return fmt.Errorf("%w: person %q has unknown role %q", ErrInconsistentSnapshot, p.ID, p.Role)
		}
		if p.Age != nil && *p.Age < 0 {
			return fmt.Errorf("%w: person %q has negative age", ErrInconsistentSnapshot, p.ID)
		}
		for _, ref := range p.References() {
			if ref == p.ID {
				return fmt.Errorf("%w: person %q references itself", ErrInconsistentSnapshot, p.ID)
			}
			if _, ok := ids[ref]; !ok {
				return fmt.Errorf("%w: person %q references unknown id %q", ErrInconsistentSnapshot, p.ID, ref)
			}
		}
		for _, rel := range p.SideRelations {
			if strings.TrimSpace(rel.RelationType) == "" {
				return fmt.Errorf("%w: person %q has a side relation without a type", ErrInconsistentSnapshot, p.ID)
			}
		}

		c, hasCred := creds[p.ID]
		switch {
		case p.Role.HasAccount() && !hasCred:
			return fmt.Errorf("%w: person %q has role %q but no credential", ErrInconsistentSnapshot, p.ID, p.Role)
		case !p.Role.HasAccount() && hasCred:
			return fmt.Errorf("%w: person %q has role %q but owns a credential", ErrInconsistentSnapshot, p.ID, p.Role)
		case !p.Role.HasAccount() && (p.Username != nil || p.PasswordHash != nil):
			return fmt.Errorf("%w: person %q has login data without an account", ErrInconsistentSnapshot, p.ID)
		case hasCred && p.AccountUsername() != c.Username:
			return fmt.Errorf("%w: person %q username does not match its credential", ErrInconsistentSnapshot, p.ID)
		case hasCred && (p.PasswordHash == nil || *p.PasswordHash != c.PasswordHash):
			return fmt.Errorf("%w: person %q password hash does not match its credential", ErrInconsistentSnapshot, p.ID)
		}
	}

	for id := range creds {
		if _, ok := ids[id]; !ok {
			return fmt.Errorf("%w: credential %q has no person", ErrInconsistentSnapshot, id)
		}
	}

	return nil
}
