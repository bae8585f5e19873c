package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── OptionalString ──────────────────────────────────────────────────────────

// TestOptionalString_Decode covers absent, null, empty, blank and regular values.
func TestOptionalString_Decode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantSet bool
		want    *string
	}{
		{name: "absent", body: `{}`, wantSet: false},
		{name: "null", body: `{"bio":null}`, wantSet: true},
		{name: "empty", body: `{"bio":""}`, wantSet: true},
		{name: "blank", body: `{"bio":"   "}`, wantSet: true},
		{name: "value is trimmed", body: `{"bio":"  carpenter "}`, wantSet: true, want: StringPtr("carpenter")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst struct {
				Bio OptionalString `json:"bio,omitzero"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.body), &dst))

			assert.Equal(t, tt.wantSet, dst.Bio.Set)
			assert.Equal(t, tt.want, dst.Bio.Value)
		})
	}
}

// TestOptionalString_DecodeRejectsNonString checks type errors surface.
func TestOptionalString_DecodeRejectsNonString(t *testing.T) {
	var o OptionalString
	assert.Error(t, json.Unmarshal([]byte(`42`), &o))
}

// TestOptionalString_OmitZero checks absent fields are not encoded.
func TestOptionalString_OmitZero(t *testing.T) {
	out, err := json.Marshal(PersonUpdate{Bio: SetString("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"bio":"x"}`, string(out))

	out, err = json.Marshal(PersonUpdate{Bio: ClearString()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"bio":null}`, string(out))
}

// ─── OptionalInt ─────────────────────────────────────────────────────────────

// TestOptionalInt_Decode accepts numbers, numeric strings and empty values.
func TestOptionalInt_Decode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *int
		wantErr bool
	}{
		{name: "number", body: `42`, want: IntPtr(42)},
		{name: "numeric string", body: `" 7 "`, want: IntPtr(7)},
		{name: "empty string clears", body: `""`},
		{name: "null clears", body: `null`},
		{name: "fraction", body: `4.5`, wantErr: true},
		{name: "garbage string", body: `"abc"`, wantErr: true},
		{name: "bool", body: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o OptionalInt
			err := json.Unmarshal([]byte(tt.body), &o)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, o.Set)
			assert.Equal(t, tt.want, o.Value)
		})
	}
}

// ─── PersonUpdate.ApplyTo ────────────────────────────────────────────────────

// TestPersonUpdate_ApplyTo checks only present keys are merged.
func TestPersonUpdate_ApplyTo(t *testing.T) {
	p := Person{
		ID:         "p1",
		FirstName:  "Ana",
		LastName:   "Lopez",
		Age:        IntPtr(30),
		Residence:  StringPtr("Lima"),
		Occupation: StringPtr("Nurse"),
		FatherID:   StringPtr("p2"),
		Role:       RoleNone,
	}

	var u PersonUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"residence":"","age":31,"sideRelations":[{"id":"p3","relationType":"cousin"}]}`), &u))
	u.ApplyTo(&p)

	assert.Equal(t, "Ana", p.FirstName)
	assert.Equal(t, IntPtr(31), p.Age)
	assert.Nil(t, p.Residence)
	assert.Equal(t, StringPtr("Nurse"), p.Occupation)
	assert.Equal(t, StringPtr("p2"), p.FatherID)
	assert.Equal(t, []SideRelation{{ID: "p3", RelationType: "cousin"}}, p.SideRelations)
	assert.False(t, u.TouchesAccount())
}

// TestPersonUpdate_ApplyToClearsName leaves a blank name for validation to reject.
func TestPersonUpdate_ApplyToClearsName(t *testing.T) {
	p := Person{ID: "p1", FirstName: "Ana", LastName: "Lopez"}
	PersonUpdate{FirstName: ClearString()}.ApplyTo(&p)
	assert.Equal(t, "", p.FirstName)
}

// TestPersonCreate_Person normalizes optional fields and defaults the role.
func TestPersonCreate_Person(t *testing.T) {
	var c PersonCreate
	require.NoError(t, json.Unmarshal([]byte(`{"firstName":"Ana","lastName":"Lopez","bio":"","whatsapp":"+1 555"}`), &c))

	p := c.Person("id-1")
	assert.Equal(t, "id-1", p.ID)
	assert.Nil(t, p.Bio)
	assert.Equal(t, StringPtr("+1 555"), p.Whatsapp)
	assert.Equal(t, RoleNone, p.Role)
	assert.NotNil(t, p.SideRelations)
	assert.Equal(t, RoleNone, c.AccountChange().Role)
}

// TestAccountChange_TrimsUsername strips surrounding blanks like other string fields.
func TestAccountChange_TrimsUsername(t *testing.T) {
	c := PersonCreate{Role: RoleUser, NewUsername: "  ana ", NewPassword: " pw "}
	assert.Equal(t, AccountChange{Role: RoleUser, NewUsername: "ana", NewPassword: " pw "}, c.AccountChange())

	u := PersonUpdate{NewUsername: "\tana\n"}
	assert.Equal(t, "ana", u.AccountChange().NewUsername)
	assert.True(t, u.TouchesAccount())
	assert.False(t, PersonUpdate{NewUsername: "   "}.TouchesAccount())
}

// ─── Person ──────────────────────────────────────────────────────────────────

// TestPerson_CloneIsDeep ensures mutations of a clone do not leak.
func TestPerson_CloneIsDeep(t *testing.T) {
	p := Person{ID: "p1", Bio: StringPtr("a"), SideRelations: []SideRelation{{ID: "p2", RelationType: "friend"}}}
	c := p.Clone()
	*c.Bio = "b"
	c.SideRelations[0].RelationType = "enemy"

	assert.Equal(t, "a", *p.Bio)
	assert.Equal(t, "friend", p.SideRelations[0].RelationType)
}

// TestNewPersonView hides the hash and conditionally reveals contact data.
func TestNewPersonView(t *testing.T) {
	p := Person{
		ID:           "p1",
		FirstName:    "Ana",
		LastName:     "Lopez",
		Whatsapp:     StringPtr("+1"),
		Role:         RoleUser,
		Username:     StringPtr("ana"),
		PasswordHash: StringPtr("$2a$10$hash"),
	}

	anon := NewPersonView(p, false, false)
	assert.Nil(t, anon.Whatsapp)
	assert.Nil(t, anon.Username)
	assert.NotNil(t, anon.SideRelations)

	full := NewPersonView(p, true, true)
	assert.Equal(t, StringPtr("+1"), full.Whatsapp)
	assert.Equal(t, StringPtr("ana"), full.Username)

	out, err := json.Marshal(full)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hash")
}
