package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-family-tree/internal/validators"
)

var (
	// ErrValidation wraps every malformed or incomplete input. The specific
	// cause is joined to it, so both errors.Is checks hold.
	ErrValidation = errors.New("validation failed")

	ErrEmptyName        = validators.ErrEmptyName
	ErrInvalidAge       = validators.ErrInvalidAge
	ErrInvalidRole      = validators.ErrInvalidRole
	ErrInvalidRelation  = validators.ErrInvalidRelation
	ErrPasswordRequired = errors.New("password required for new account")
	ErrUsernameRequired = errors.New("username required for new account")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
	ErrIDMismatch       = errors.New("id in body does not match the target record")

	ErrUnauthenticated         = errors.New("authentication required")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrPasswordHashing         = errors.New("password hashing failed")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
	ErrSeedFile              = errors.New("error loading seed file")
)

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
