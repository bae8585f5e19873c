package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/internal/mock"
	"github.com/MKhiriev/go-family-tree/internal/store"
	"github.com/MKhiriev/go-family-tree/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func seedSnapshot() models.Snapshot {
	return models.Snapshot{
		Users: []models.Credential{{ID: "p1", Username: "admin", PasswordHash: "$2a$10$hash"}},
		Persons: []models.Person{
			{ID: "p1", FirstName: "Juan", LastName: "Perez", Role: models.RoleAdmin,
				Username: models.StringPtr("admin"), PasswordHash: models.StringPtr("$2a$10$hash")},
			{ID: "p2", FirstName: "Maria", LastName: "Perez", SpouseID: models.StringPtr("p1")},
		},
	}
}

func openDirectory(t *testing.T, backend store.Backend) *store.Directory {
	t.Helper()
	d, err := store.Open(context.Background(), backend, logger.Nop())
	require.NoError(t, err)
	return d
}

// ─── Open ────────────────────────────────────────────────────────────────────

// TestOpen_EmptyBackendIsFresh starts empty when nothing was stored.
func TestOpen_EmptyBackendIsFresh(t *testing.T) {
	d := openDirectory(t, store.NewMemoryBackend())

	assert.True(t, d.Fresh())
	require.NoError(t, d.View(func(v *store.View) error {
		assert.Zero(t, v.Len())
		return nil
	}))
}

// TestOpen_LoadsSnapshot exposes the stored records.
func TestOpen_LoadsSnapshot(t *testing.T) {
	d := openDirectory(t, store.NewMemoryBackendWith(seedSnapshot()))

	assert.False(t, d.Fresh())
	require.NoError(t, d.View(func(v *store.View) error {
		assert.Equal(t, 2, v.Len())
		c, ok := v.FindCredentialByUsername("admin")
		require.True(t, ok)
		assert.Equal(t, "p1", c.ID)
		return nil
	}))
}

// TestOpen_InconsistentSnapshot refuses to start on corrupt data.
func TestOpen_InconsistentSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *models.Snapshot)
	}{
		{"missing credential", func(s *models.Snapshot) { s.Users = nil }},
		{"stale person hash", func(s *models.Snapshot) { s.Persons[0].PasswordHash = models.StringPtr("$2a$10$stale") }},
		{"person hash missing", func(s *models.Snapshot) { s.Persons[0].PasswordHash = nil }},
		{"unlabeled side relation", func(s *models.Snapshot) {
			s.Persons[1].SideRelations = []models.SideRelation{{ID: "p1", RelationType: ""}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seedSnapshot()
			tt.mutate(&s)

			_, err := store.Open(context.Background(), store.NewMemoryBackendWith(s), logger.Nop())
			assert.ErrorIs(t, err, models.ErrInconsistentSnapshot)
		})
	}
}

// TestOpen_BackendError wraps load failures as persistence errors.
func TestOpen_BackendError(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mock.NewMockBackend(ctrl)
	backend.EXPECT().Load(gomock.Any()).Return(models.Snapshot{}, errors.New("disk on fire"))

	_, err := store.Open(context.Background(), backend, logger.Nop())
	assert.ErrorIs(t, err, store.ErrPersistence)
}

// ─── Update ──────────────────────────────────────────────────────────────────

// TestUpdate_SavesAndPublishes persists a change and makes it visible.
func TestUpdate_SavesAndPublishes(t *testing.T) {
	backend := store.NewMemoryBackendWith(seedSnapshot())
	d := openDirectory(t, backend)

	err := d.Update(context.Background(), func(tx *store.Tx) error {
		return tx.Insert(models.Person{ID: "p3", FirstName: "Luis", LastName: "Perez", FatherID: models.StringPtr("p1")})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.Saves())

	saved, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, saved.Persons, 3)

	require.NoError(t, d.View(func(v *store.View) error {
		p, err := v.Get("p3")
		require.NoError(t, err)
		assert.Equal(t, models.RoleNone, p.Role)
		return nil
	}))
}

// TestUpdate_SaveFailureRollsBack leaves the visible state unchanged when the backend fails.
func TestUpdate_SaveFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mock.NewMockBackend(ctrl)
	backend.EXPECT().Load(gomock.Any()).Return(seedSnapshot(), nil)
	backend.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	d := openDirectory(t, backend)

	err := d.Update(context.Background(), func(tx *store.Tx) error {
		if _, err := tx.Delete("p1"); err != nil {
			return err
		}
		return tx.UpdatePassword("admin", "x")
	})
	// the credential went away with the person, so the callback fails before saving
	require.ErrorIs(t, err, store.ErrCredentialNotFound)

	err = d.Update(context.Background(), func(tx *store.Tx) error {
		_, err := tx.Delete("p1")
		return err
	})
	require.ErrorIs(t, err, store.ErrPersistence)

	require.NoError(t, d.View(func(v *store.View) error {
		assert.Equal(t, 2, v.Len())
		maria, err := v.Get("p2")
		require.NoError(t, err)
		require.NotNil(t, maria.SpouseID)
		assert.Equal(t, "p1", *maria.SpouseID)
		_, ok := v.FindCredentialByID("p1")
		assert.True(t, ok)
		return nil
	}))
}

// TestUpdate_CallbackErrorSkipsSave never calls the backend when the callback fails.
func TestUpdate_CallbackErrorSkipsSave(t *testing.T) {
	backend := store.NewMemoryBackendWith(seedSnapshot())
	d := openDirectory(t, backend)

	boom := errors.New("boom")
	err := d.Update(context.Background(), func(tx *store.Tx) error {
		require.NoError(t, tx.Put(models.Person{ID: "p2", FirstName: "X", LastName: "Y"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, backend.Saves())

	require.NoError(t, d.View(func(v *store.View) error {
		p, _ := v.Get("p2")
		assert.Equal(t, "Maria", p.FirstName)
		return nil
	}))
}

// TestUpdate_ReadOnlySkipsSave does not persist when nothing changed.
func TestUpdate_ReadOnlySkipsSave(t *testing.T) {
	backend := store.NewMemoryBackendWith(seedSnapshot())
	d := openDirectory(t, backend)

	require.NoError(t, d.Update(context.Background(), func(tx *store.Tx) error {
		assert.True(t, tx.Exists("p1"))
		assert.False(t, tx.Exists("p9"))
		_, err := tx.Get("p1")
		return err
	}))
	assert.Zero(t, backend.Saves())
}

// TestUpdate_CredentialLookupsSkipSave persists only credential changes that took effect.
func TestUpdate_CredentialLookupsSkipSave(t *testing.T) {
	backend := store.NewMemoryBackendWith(seedSnapshot())
	d := openDirectory(t, backend)

	require.NoError(t, d.Update(context.Background(), func(tx *store.Tx) error {
		c, ok := tx.FindCredentialByID("p1")
		assert.True(t, ok)
		assert.Equal(t, "admin", c.Username)
		assert.False(t, tx.RemoveCredential("p2"))
		return tx.UpdateUsername("admin", "admin")
	}))
	assert.Zero(t, backend.Saves())

	err := d.Update(context.Background(), func(tx *store.Tx) error {
		return tx.InsertCredential("p2", "admin", "$2a$10$other")
	})
	require.ErrorIs(t, err, store.ErrUsernameTaken)
	assert.Zero(t, backend.Saves())

	require.NoError(t, d.Update(context.Background(), func(tx *store.Tx) error {
		return tx.UpdateUsername("admin", "root")
	}))
	assert.Equal(t, 1, backend.Saves())
}

// TestUpdate_DeleteSweepsReferences removes the person, its credential and every reference to it.
func TestUpdate_DeleteSweepsReferences(t *testing.T) {
	d := openDirectory(t, store.NewMemoryBackendWith(seedSnapshot()))

	var touched int
	require.NoError(t, d.Update(context.Background(), func(tx *store.Tx) error {
		var err error
		touched, err = tx.Delete("p1")
		return err
	}))
	assert.Equal(t, 1, touched)

	snap, err := d.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
	require.Len(t, snap.Persons, 1)
	assert.Nil(t, snap.Persons[0].SpouseID)
	require.NoError(t, snap.Validate())
}

// TestUpdate_DeleteUnknown reports a missing id.
func TestUpdate_DeleteUnknown(t *testing.T) {
	d := openDirectory(t, store.NewMemoryBackendWith(seedSnapshot()))

	err := d.Update(context.Background(), func(tx *store.Tx) error {
		_, err := tx.Delete("ghost")
		return err
	})
	assert.ErrorIs(t, err, store.ErrPersonNotFound)
}

// TestUpdate_ConcurrentWriters serializes mutations so none are lost.
func TestUpdate_ConcurrentWriters(t *testing.T) {
	backend := store.NewMemoryBackend()
	d := openDirectory(t, backend)

	const writers = 20
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := string(rune('a' + i))
			assert.NoError(t, d.Update(context.Background(), func(tx *store.Tx) error {
				return tx.Insert(models.Person{ID: id, FirstName: "F", LastName: "L"})
			}))
		}()
	}
	wg.Wait()

	require.NoError(t, d.View(func(v *store.View) error {
		assert.Equal(t, writers, v.Len())
		return nil
	}))
	assert.Equal(t, writers, backend.Saves())
	assert.False(t, d.Fresh())
}

// ─── View ────────────────────────────────────────────────────────────────────

// TestView_ReturnsCopies guarantees callers cannot mutate stored records.
func TestView_ReturnsCopies(t *testing.T) {
	d := openDirectory(t, store.NewMemoryBackendWith(seedSnapshot()))

	require.NoError(t, d.View(func(v *store.View) error {
		p, _ := v.Get("p2")
		*p.SpouseID = "mutated"
		list := v.List()
		list[0].FirstName = "mutated"
		return nil
	}))

	require.NoError(t, d.View(func(v *store.View) error {
		p, _ := v.Get("p2")
		assert.Equal(t, "p1", *p.SpouseID)
		first, _ := v.Get("p1")
		assert.Equal(t, "Juan", first.FirstName)
		return nil
	}))
}

// ─── Replace / Close ─────────────────────────────────────────────────────────

// TestReplace_SwapsWholeState installs a valid snapshot and rejects an invalid one.
func TestReplace_SwapsWholeState(t *testing.T) {
	backend := store.NewMemoryBackendWith(seedSnapshot())
	d := openDirectory(t, backend)

	next := models.Snapshot{Persons: []models.Person{{ID: "x1", FirstName: "Solo", LastName: "Person"}}}
	require.NoError(t, d.Replace(context.Background(), next))

	snap, err := d.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Persons, 1)
	assert.Equal(t, "x1", snap.Persons[0].ID)
	assert.Empty(t, snap.Users)

	bad := models.Snapshot{Persons: []models.Person{{ID: "y", FirstName: "", LastName: "Z"}}}
	assert.ErrorIs(t, d.Replace(context.Background(), bad), models.ErrInconsistentSnapshot)

	snap, _ = d.Snapshot()
	assert.Equal(t, "x1", snap.Persons[0].ID)
	assert.Equal(t, 1, backend.Saves())
}

// TestReplace_LeavesInputUntouched normalizes the stored copy, not the caller's snapshot.
func TestReplace_LeavesInputUntouched(t *testing.T) {
	d := openDirectory(t, store.NewMemoryBackendWith(seedSnapshot()))

	next := seedSnapshot()
	require.NoError(t, d.Replace(context.Background(), next))

	assert.Equal(t, seedSnapshot(), next)
	assert.Empty(t, next.Persons[1].Role)
	assert.Nil(t, next.Persons[1].SideRelations)

	require.NoError(t, d.View(func(v *store.View) error {
		p, err := v.Get("p2")
		require.NoError(t, err)
		assert.Equal(t, models.RoleNone, p.Role)
		assert.NotNil(t, p.SideRelations)
		return nil
	}))
}

// TestClose_RejectsLaterCalls closes the backend once and refuses further work.
func TestClose_RejectsLaterCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mock.NewMockBackend(ctrl)
	backend.EXPECT().Load(gomock.Any()).Return(models.Snapshot{}, store.ErrNoSnapshot)
	backend.EXPECT().Close().Return(nil).Times(1)

	d := openDirectory(t, backend)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	assert.ErrorIs(t, d.View(func(*store.View) error { return nil }), store.ErrClosed)
	assert.ErrorIs(t, d.Update(context.Background(), func(*store.Tx) error { return nil }), store.ErrClosed)
	_, err := d.Snapshot()
	assert.ErrorIs(t, err, store.ErrClosed)
}
