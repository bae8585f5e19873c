// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Credential is the login record backing an account. It is derived from the
// owning [Person] and keyed by the same id.
//
// The JSON field names follow the persisted "users" collection layout, where
// the bcrypt hash is stored under "password".
type Credential struct {
	// ID equals the owning person's ID.
	ID string `json:"id"`

	// Username must match the owning person's Username.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash. It never holds a plaintext password.
	PasswordHash string `json:"password"`
}

// Identity is the session-bound view of an authenticated person, produced by
// a successful login and re-resolved on every authenticated request.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Authenticated reports whether the identity belongs to a logged-in person.
// The zero Identity represents an anonymous viewer.
func (i Identity) Authenticated() bool {
	return i.ID != "" && i.Role.HasAccount()
}

// IsAdmin reports whether the identity has admin rights.
func (i Identity) IsAdmin() bool {
	return i.Authenticated() && i.Role == RoleAdmin
}

// CanEdit reports whether the identity may mutate the record with personID:
// admins may edit anyone, users only themselves.
func (i Identity) CanEdit(personID string) bool {
	if !i.Authenticated() {
		return false
	}
	return i.Role == RoleAdmin || i.ID == personID
}
