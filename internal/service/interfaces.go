package service

import (
	"context"

	"github.com/MKhiriev/go-family-tree/models"
)

// PersonService exposes the person directory to the transport layer.
// Every method takes the identity of the caller; reads return views
// sanitized for that viewer, writes enforce the role rules.
type PersonService interface {
	// List returns every person in insertion order.
	List(ctx context.Context, viewer models.Identity) ([]models.PersonView, error)

	// Get returns one person or store.ErrPersonNotFound.
	Get(ctx context.Context, viewer models.Identity, id string) (models.PersonView, error)

	// Create adds a person, provisioning an account when the request asks
	// for a role with login rights. Admin only.
	Create(ctx context.Context, actor models.Identity, req models.PersonCreate) (models.PersonView, error)

	// Update merges a partial update onto the record with id. Admins may
	// update anyone, users only themselves and never their own role.
	Update(ctx context.Context, actor models.Identity, id string, req models.PersonUpdate) (models.PersonView, error)

	// Delete removes a person, its account and every reference to it.
	// Admin only.
	Delete(ctx context.Context, actor models.Identity, id string) error

	// ChangePassword sets a new password on the account of person id.
	// Admin only.
	ChangePassword(ctx context.Context, actor models.Identity, id, newPassword string) error
}

// AuthService verifies credentials and manages session tokens.
type AuthService interface {
	// Authenticate checks username and password and returns the identity of
	// the matching account or ErrInvalidCredentials.
	Authenticate(ctx context.Context, req models.LoginRequest) (models.Identity, error)

	// Identify re-reads the current identity of person id. A person that no
	// longer exists or no longer has an account yields
	// ErrTokenIsExpiredOrInvalid.
	Identify(ctx context.Context, personID string) (models.Identity, error)

	CreateToken(ctx context.Context, identity models.Identity) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// DataService moves the whole directory in and out as a snapshot document.
type DataService interface {
	// Export returns the persisted document. Admin only.
	Export(ctx context.Context, actor models.Identity) (models.Snapshot, error)

	// Import validates snap and replaces the whole directory with it.
	// Plaintext passwords in the users collection are hashed first.
	// Admin only.
	Import(ctx context.Context, actor models.Identity, snap models.Snapshot) (models.ImportResponse, error)
}

// SeedService fills an empty directory on first start.
type SeedService interface {
	Bootstrap(ctx context.Context) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// IDGenerator issues identifiers for new persons.
type IDGenerator interface {
	Generate() string
}
