package models

import "strings"

// AccountChange carries the account-related part of a create or update
// request. Empty values mean "not requested".
type AccountChange struct {
	// Role is the requested access tier. Empty keeps the current role.
	Role Role

	// NewUsername is the requested login. Empty keeps the current one.
	NewUsername string

	// NewPassword is the plaintext password to hash. Empty leaves the
	// stored hash untouched.
	NewPassword string
}

// PersonCreate is the payload of an admin "create person" request.
//
// Optional attributes use [OptionalString]/[OptionalInt] so that the empty
// strings submitted by HTML forms are normalized to "absent" at decoding time.
type PersonCreate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	Age        OptionalInt    `json:"age,omitzero"`
	Residence  OptionalString `json:"residence,omitzero"`
	Occupation OptionalString `json:"occupation,omitzero"`
	Bio        OptionalString `json:"bio,omitzero"`
	Whatsapp   OptionalString `json:"whatsapp,omitzero"`

	FatherID OptionalString `json:"fatherId,omitzero"`
	MotherID OptionalString `json:"motherId,omitzero"`
	SpouseID OptionalString `json:"spouseId,omitzero"`

	SideRelations []SideRelation `json:"sideRelations,omitempty"`

	Role        Role   `json:"role,omitempty"`
	NewUsername string `json:"newUsername,omitempty"`
	NewPassword string `json:"newPassword,omitempty"`
}

// Person builds a fresh record with the given id from the request.
// Account fields are left empty; they are set by the account lifecycle.
func (c PersonCreate) Person(id string) Person {
	p := Person{
		ID:            id,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Role:          RoleNone,
		SideRelations: make([]SideRelation, len(c.SideRelations)),
	}
	copy(p.SideRelations, c.SideRelations)

	c.Age.apply(&p.Age)
	c.Residence.apply(&p.Residence)
	c.Occupation.apply(&p.Occupation)
	c.Bio.apply(&p.Bio)
	c.Whatsapp.apply(&p.Whatsapp)
	c.FatherID.apply(&p.FatherID)
	c.MotherID.apply(&p.MotherID)
	c.SpouseID.apply(&p.SpouseID)

	return p
}

// AccountChange extracts the account part of the request.
func (c PersonCreate) AccountChange() AccountChange {
	role := c.Role
	if role == "" {
		role = RoleNone
	}
	return AccountChange{Role: role, NewUsername: strings.TrimSpace(c.NewUsername), NewPassword: c.NewPassword}
}

// PersonUpdate is a typed partial update of a person record.
// Only fields whose JSON key was present are merged; see [PersonUpdate.ApplyTo].
type PersonUpdate struct {
	// ID may be echoed back by clients; when non-empty it must match the
	// target record.
	ID string `json:"id,omitempty"`

	FirstName  OptionalString `json:"firstName,omitzero"`
	LastName   OptionalString `json:"lastName,omitzero"`
	Age        OptionalInt    `json:"age,omitzero"`
	Residence  OptionalString `json:"residence,omitzero"`
	Occupation OptionalString `json:"occupation,omitzero"`
	Bio        OptionalString `json:"bio,omitzero"`
	Whatsapp   OptionalString `json:"whatsapp,omitzero"`

	FatherID OptionalString `json:"fatherId,omitzero"`
	MotherID OptionalString `json:"motherId,omitzero"`
	SpouseID OptionalString `json:"spouseId,omitzero"`

	// SideRelations replaces the whole list when non-nil.
	SideRelations *[]SideRelation `json:"sideRelations,omitempty"`

	Role        Role   `json:"role,omitempty"`
	NewUsername string `json:"newUsername,omitempty"`
	NewPassword string `json:"newPassword,omitempty"`
}

// ApplyTo merges the plain (non-account) fields onto p. Cleared names become
// empty strings so that validation after the merge rejects them.
func (u PersonUpdate) ApplyTo(p *Person) {
	if u.FirstName.Set {
		p.FirstName = ""
		if u.FirstName.Value != nil {
			p.FirstName = *u.FirstName.Value
		}
	}
	if u.LastName.Set {
		p.LastName = ""
		if u.LastName.Value != nil {
			p.LastName = *u.LastName.Value
		}
	}

	u.Age.apply(&p.Age)
	u.Residence.apply(&p.Residence)
	u.Occupation.apply(&p.Occupation)
	u.Bio.apply(&p.Bio)
	u.Whatsapp.apply(&p.Whatsapp)
	u.FatherID.apply(&p.FatherID)
	u.MotherID.apply(&p.MotherID)
	u.SpouseID.apply(&p.SpouseID)

	if u.SideRelations != nil {
		p.SideRelations = make([]SideRelation, len(*u.SideRelations))
		copy(p.SideRelations, *u.SideRelations)
	}
}

// AccountChange extracts the account part of the update.
func (u PersonUpdate) AccountChange() AccountChange {
	return AccountChange{Role: u.Role, NewUsername: strings.TrimSpace(u.NewUsername), NewPassword: u.NewPassword}
}

// TouchesAccount reports whether the update requests any account change.
func (u PersonUpdate) TouchesAccount() bool {
	return u.Role != "" || strings.TrimSpace(u.NewUsername) != "" || u.NewPassword != ""
}
