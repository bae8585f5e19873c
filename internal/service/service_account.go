// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-family-tree/internal/crypto"
	"github.com/MKhiriev/go-family-tree/internal/store"
	"github.com/MKhiriev/go-family-tree/models"
)

// accountLifecycle is the only code path that changes a person's role,
// username or password hash. It keeps the person record and the credential
// store in step: a person has a credential if and only if its role has an
// account, and both carry the same username and hash.
//
// Transitions over (role, has credential):
//
//	NoAccount -> Active     role with an account requested, username given
//	Active    -> NoAccount  role none requested; wins over username/password
//	Active    -> Active     optional rename, optional password rotation
//	NoAccount -> NoAccount  nothing to do, login data forced absent
type accountLifecycle struct {
	hasher          crypto.PasswordHasher
	defaultPassword string
}

func newAccountLifecycle(hasher crypto.PasswordHasher, defaultPassword string) *accountLifecycle {
	return &accountLifecycle{hasher: hasher, defaultPassword: defaultPassword}
}

// accountPlan is an [models.AccountChange] with its password already hashed.
// Plans are prepared outside the directory write lock because hashing is
// deliberately slow.
type accountPlan struct {
	change      models.AccountChange
	passwordSet string
	fallback    string
}

// prepare normalizes change and hashes the passwords it may need.
func (a *accountLifecycle) prepare(change models.AccountChange) (accountPlan, error) {
	plan := accountPlan{change: change}

	if change.Role != "" && !change.Role.Valid() {
		return accountPlan{}, validationError(fmt.Errorf("%w: %q", ErrInvalidRole, change.Role))
	}

	if change.NewPassword != "" {
		hash, err := a.hasher.Hash(change.NewPassword)
		if err != nil {
			return accountPlan{}, fmt.Errorf("%w: %w", ErrPasswordHashing, err)
		}
		plan.passwordSet = hash
		return plan, nil
	}

	// the fallback is only used for a brand-new account
	if a.defaultPassword != "" && change.Role.HasAccount() && change.NewUsername != "" {
		hash, err := a.hasher.Hash(a.defaultPassword)
		if err != nil {
			return accountPlan{}, fmt.Errorf("%w: %w", ErrPasswordHashing, err)
		}
		plan.fallback = hash
	}

	return plan, nil
}

// apply runs the transition for p inside tx. p is modified in place; the
// caller stores it with tx.Put or tx.Insert. On error the transaction must
// be abandoned.
func (a *accountLifecycle) apply(tx *store.Tx, p *models.Person, plan accountPlan) error {
	current := p.Role
	if current == "" {
		current = models.RoleNone
	}
	target := plan.change.Role
	if target == "" {
		target = current
	}

	switch {
	case !target.HasAccount():
		if current.HasAccount() {
			tx.RemoveCredential(p.ID)
		}
		p.Role = models.RoleNone
		p.Username = nil
		p.PasswordHash = nil
		return nil

	case !current.HasAccount():
		return a.open(tx, p, target, plan)

	default:
		return a.rotate(tx, p, target, plan)
	}
}

// open provisions a credential for a person without an account.
func (a *accountLifecycle) open(tx *store.Tx, p *models.Person, role models.Role, plan accountPlan) error {
	username := plan.change.NewUsername
	if username == "" {
		return validationError(ErrUsernameRequired)
	}

	hash := plan.passwordSet
	if hash == "" {
		hash = plan.fallback
	}
	if hash == "" {
		return validationError(ErrPasswordRequired)
	}

	if err := tx.InsertCredential(p.ID, username, hash); err != nil {
		return err
	}

	p.Role = role
	p.Username = &username
	p.PasswordHash = &hash
	return nil
}

// rotate renames and re-hashes an existing account as requested.
func (a *accountLifecycle) rotate(tx *store.Tx, p *models.Person, role models.Role, plan accountPlan) error {
	cred, ok := tx.FindCredentialByID(p.ID)
	if !ok {
		return fmt.Errorf("%w: account of %q", store.ErrCredentialNotFound, p.ID)
	}
	username := cred.Username

	if next := plan.change.NewUsername; next != "" && next != username {
		if err := tx.UpdateUsername(username, next); err != nil {
			return err
		}
		username = next
	}

	hash := cred.PasswordHash
	if plan.passwordSet != "" {
		if err := tx.UpdatePassword(username, plan.passwordSet); err != nil {
			return err
		}
		hash = plan.passwordSet
	}

	p.Role = role
	p.Username = &username
	p.PasswordHash = &hash
	return nil
}
