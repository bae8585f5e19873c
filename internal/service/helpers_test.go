package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-family-tree/internal/config"
	"github.com/MKhiriev/go-family-tree/internal/crypto"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/internal/store"
	"github.com/MKhiriev/go-family-tree/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminID       = "admin-1"
	adminUsername = "root"
	adminPassword = "rootpw"
)

var adminIdentity = models.Identity{ID: adminID, Username: adminUsername, Role: models.RoleAdmin}

func testConfig() config.StructuredConfig {
	return config.StructuredConfig{
		App: config.App{
			TokenSignKey:      "test-sign-key",
			TokenIssuer:       "go-family-tree",
			TokenDuration:     time.Hour,
			PasswordHashCost:  bcrypt.MinCost,
			ContactVisibility: config.ContactVisibilityAuthenticated,
			Version:           "test",
		},
	}
}

func testHasher(t *testing.T) crypto.PasswordHasher {
	t.Helper()
	h, err := crypto.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

// adminSnapshot holds a single admin account.
func adminSnapshot(t *testing.T) models.Snapshot {
	t.Helper()
	hash, err := testHasher(t).Hash(adminPassword)
	require.NoError(t, err)

	return models.Snapshot{
		Users: []models.Credential{{ID: adminID, Username: adminUsername, PasswordHash: hash}},
		Persons: []models.Person{{
			ID:           adminID,
			FirstName:    "Family",
			LastName:     "Admin",
			Role:         models.RoleAdmin,
			Username:     models.StringPtr(adminUsername),
			PasswordHash: models.StringPtr(hash),
		}},
	}
}

type testEnv struct {
	dir      *store.Directory
	backend  *store.MemoryBackend
	services *Services
}

func newTestEnv(t *testing.T, mutate ...func(cfg *config.StructuredConfig)) *testEnv {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	backend := store.NewMemoryBackendWith(adminSnapshot(t))
	dir, err := store.Open(context.Background(), backend, logger.Nop())
	require.NoError(t, err)

	services, err := NewServices(dir, cfg, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)

	return &testEnv{dir: dir, backend: backend, services: services}
}

func (e *testEnv) create(t *testing.T, req models.PersonCreate) models.PersonView {
	t.Helper()
	v, err := e.services.PersonService.Create(context.Background(), adminIdentity, req)
	require.NoError(t, err)
	return v
}

func (e *testEnv) person(t *testing.T, id string) models.Person {
	t.Helper()
	var p models.Person
	require.NoError(t, e.dir.View(func(v *store.View) error {
		var err error
		p, err = v.Get(id)
		return err
	}))
	return p
}

func (e *testEnv) login(username, password string) (models.Identity, error) {
	return e.services.AuthService.Authenticate(context.Background(), models.LoginRequest{Username: username, Password: password})
}

// assertAccountInvariant checks that every person has a credential exactly
// when its role has an account, with matching username and hash.
func assertAccountInvariant(t *testing.T, dir *store.Directory) {
	t.Helper()

	snap, err := dir.Snapshot()
	require.NoError(t, err)
	require.NoError(t, snap.Validate())

	creds := make(map[string]models.Credential, len(snap.Users))
	for _, c := range snap.Users {
		creds[c.ID] = c
	}

	for _, p := range snap.Persons {
		c, ok := creds[p.ID]
		assert.Equal(t, p.Role.HasAccount(), ok, "person %s", p.ID)
		if !ok {
			assert.Nil(t, p.Username, "person %s", p.ID)
			assert.Nil(t, p.PasswordHash, "person %s", p.ID)
			continue
		}
		require.NotNil(t, p.Username)
		require.NotNil(t, p.PasswordHash)
		assert.Equal(t, c.Username, *p.Username)
		assert.Equal(t, c.PasswordHash, *p.PasswordHash)
	}
}
