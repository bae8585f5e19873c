package validators

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/MKhiriev/go-family-tree/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldID targets the person identifier.
	FieldID = "id"

	// FieldName targets firstName and lastName together.
	FieldName = "name"

	// FieldAge targets the optional age.
	FieldAge = "age"

	// FieldRole targets the access tier.
	FieldRole = "role"

	// FieldRelations targets father/mother/spouse pointers and side relations.
	// Only self references and blank ids are caught here.
	FieldRelations = "relations"

	// FieldUsername targets the login of a credential or account change.
	FieldUsername = "username"

	// FieldPassword targets the plaintext password of a login request.
	FieldPassword = "password"
)

// PersonValidator implements [Validator] for person records, account
// changes and login requests.
type PersonValidator struct {
}

// NewPersonValidator constructs a new PersonValidator.
func NewPersonValidator() Validator {
	return &PersonValidator{}
}

// Validate dispatches on the dynamic type of obj. Supported types:
//   - models.Person / *models.Person
//   - models.AccountChange / *models.AccountChange
//   - models.LoginRequest / *models.LoginRequest
//
// Returns ErrUnsupportedType for anything else.
func (v *PersonValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Person:
		return v.validatePerson(ctx, value, fields...)
	case *models.Person:
		return v.validatePerson(ctx, *value, fields...)

	case models.AccountChange:
		return v.validateAccountChange(ctx, value, fields...)
	case *models.AccountChange:
		return v.validateAccountChange(ctx, *value, fields...)

	case models.LoginRequest:
		return v.validateLoginRequest(ctx, value, fields...)
	case *models.LoginRequest:
		return v.validateLoginRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validatePerson checks a merged person record.
//
// Default fields: ID, Name, Age, Role, Relations.
func (v *PersonValidator) validatePerson(_ context.Context, p models.Person, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldName, FieldAge, FieldRole, FieldRelations}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if strings.TrimSpace(p.ID) == "" {
				return ErrEmptyID
			}
		case FieldName:
			if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
				return ErrEmptyName
			}
		case FieldAge:
			if p.Age != nil && *p.Age < 0 {
				return ErrInvalidAge
			}
		case FieldRole:
			if p.Role != "" && !p.Role.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidRole, p.Role)
			}
		case FieldRelations:
			if err := validateRelations(p); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateRelations(p models.Person) error {
	for _, ref := range []*string{p.FatherID, p.MotherID, p.SpouseID} {
		if ref == nil {
			continue
		}
		if *ref == p.ID {
			return fmt.Errorf("%w: person cannot reference itself", ErrInvalidRelation)
		}
	}

	for _, rel := range p.SideRelations {
		if strings.TrimSpace(rel.ID) == "" {
			return fmt.Errorf("%w: side relation without id", ErrInvalidRelation)
		}
		if rel.ID == p.ID {
			return fmt.Errorf("%w: person cannot reference itself", ErrInvalidRelation)
		}
		if strings.TrimSpace(rel.RelationType) == "" {
			return ErrEmptyRelationType
		}
	}

	return nil
}

// validateAccountChange checks the account part of a create or update
// request. Empty values are allowed: they mean "keep".
//
// Default fields: Role, Username.
func (v *PersonValidator) validateAccountChange(_ context.Context, c models.AccountChange, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRole, FieldUsername}
	}

	for _, f := range fields {
		switch f {
		case FieldRole:
			if c.Role != "" && !c.Role.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidRole, c.Role)
			}
		case FieldUsername:
			if strings.IndexFunc(c.NewUsername, unicode.IsSpace) >= 0 {
				return ErrInvalidUsername
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateLoginRequest requires both username and password.
//
// Default fields: Username, Password.
func (v *PersonValidator) validateLoginRequest(_ context.Context, r models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if strings.TrimSpace(r.Username) == "" {
				return ErrEmptyUsername
			}
		case FieldPassword:
			if r.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
