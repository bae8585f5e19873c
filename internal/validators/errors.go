package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyID           = errors.New("id is required")
	ErrEmptyName         = errors.New("first and last name are required")
	ErrInvalidAge        = errors.New("age must not be negative")
	ErrInvalidRole       = errors.New("unknown role")
	ErrInvalidRelation   = errors.New("invalid relation")
	ErrEmptyUsername     = errors.New("username is required")
	ErrEmptyPassword     = errors.New("password is required")
	ErrInvalidUsername   = errors.New("username must not contain whitespace")
	ErrEmptyRelationType = errors.New("relation type is required")
)
