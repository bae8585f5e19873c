// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Role defines the access tier of a person.
// The value determines whether a login account exists and what it may do.
type Role string

const (
	// RoleNone marks a person without a login account. Such a person
	// cannot authenticate.
	RoleNone Role = "none"

	// RoleUser may authenticate and edit only its own record.
	RoleUser Role = "user"

	// RoleAdmin may authenticate and create, edit or delete any record.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleUser, RoleAdmin:
		return true
	}
	return false
}

// HasAccount reports whether a person with role r must own a credential.
func (r Role) HasAccount() bool {
	return r == RoleUser || r == RoleAdmin
}

// SideRelation is a labeled, non-parental and non-spousal link to another
// person (e.g. "son-in-law", "family friend"). It carries no ownership.
type SideRelation struct {
	// ID references another person.
	ID string `json:"id"`

	// RelationType is a free-text label describing the link.
	RelationType string `json:"relationType"`
}

// Person is a family member record, the central entity of the directory.
//
// The JSON shape is the persisted layout: it is written as-is into the
// "persons" collection of [Snapshot]. PasswordHash therefore serializes here;
// HTTP responses must use [PersonView] instead.
type Person struct {
	// ID is the unique, immutable identifier of the person.
	ID string `json:"id"`

	// FirstName and LastName are required and never blank.
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// Optional descriptive attributes. nil means absent.
	Age        *int    `json:"age,omitempty"`
	Residence  *string `json:"residence,omitempty"`
	Occupation *string `json:"occupation,omitempty"`
	Bio        *string `json:"bio,omitempty"`

	// Whatsapp is the contact number. It is only revealed to authenticated
	// viewers, see ContactVisibility.
	Whatsapp *string `json:"whatsapp,omitempty"`

	// Relation pointers: weak references to other persons.
	FatherID *string `json:"fatherId,omitempty"`
	MotherID *string `json:"motherId,omitempty"`
	SpouseID *string `json:"spouseId,omitempty"`

	// Role is the access tier; defaults to RoleNone.
	Role Role `json:"role"`

	// Username and PasswordHash are present if and only if Role has an
	// account. They mirror the matching [Credential].
	Username     *string `json:"username,omitempty"`
	PasswordHash *string `json:"passwordHash,omitempty"`

	// SideRelations is never nil after normalization.
	SideRelations []SideRelation `json:"sideRelations"`

	// CreatedAt is set once when the record is created.
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// FullName returns "FirstName LastName".
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// AccountUsername returns the username or an empty string.
func (p Person) AccountUsername() string {
	if p.Username == nil {
		return ""
	}
	return *p.Username
}

// HasAccount reports whether the record carries login data.
func (p Person) HasAccount() bool {
	return p.Username != nil && *p.Username != ""
}

// Clone returns a deep copy of p. Pointer fields and the side relation slice
// are duplicated so the copy can be mutated independently.
func (p Person) Clone() Person {
	c := p
	c.Age = cloneInt(p.Age)
	c.Residence = cloneString(p.Residence)
	c.Occupation = cloneString(p.Occupation)
	c.Bio = cloneString(p.Bio)
	c.Whatsapp = cloneString(p.Whatsapp)
	c.FatherID = cloneString(p.FatherID)
	c.MotherID = cloneString(p.MotherID)
	c.SpouseID = cloneString(p.SpouseID)
	c.Username = cloneString(p.Username)
	c.PasswordHash = cloneString(p.PasswordHash)

	c.SideRelations = make([]SideRelation, len(p.SideRelations))
	copy(c.SideRelations, p.SideRelations)

	return c
}

// Normalize applies defaults: empty role becomes RoleNone and a nil side
// relation slice becomes empty.
func (p *Person) Normalize() {
	if p.Role == "" {
		p.Role = RoleNone
	}
	if p.SideRelations == nil {
		p.SideRelations = []SideRelation{}
	}
}

// References returns every person id p points at, parents and spouse first,
// then side relations in order.
func (p Person) References() []string {
	refs := make([]string, 0, 3+len(p.SideRelations))
	for _, ref := range []*string{p.FatherID, p.MotherID, p.SpouseID} {
		if ref != nil {
			refs = append(refs, *ref)
		}
	}
	for _, rel := range p.SideRelations {
		refs = append(refs, rel.ID)
	}
	return refs
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}
