package store

import (
	"testing"

	"github.com/MKhiriev/go-family-tree/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func familySnapshot() models.Snapshot {
	return models.Snapshot{
		Users: []models.Credential{{ID: "p1", Username: "admin", PasswordHash: "$2a$10$hash"}},
		Persons: []models.Person{
			{ID: "p1", FirstName: "Juan", LastName: "Perez", Role: models.RoleAdmin,
				Username: models.StringPtr("admin"), PasswordHash: models.StringPtr("$2a$10$hash")},
			{ID: "p2", FirstName: "Maria", LastName: "Perez", SpouseID: models.StringPtr("p1")},
			{ID: "p3", FirstName: "Luis", LastName: "Perez", FatherID: models.StringPtr("p1"), MotherID: models.StringPtr("p2"),
				SideRelations: []models.SideRelation{{ID: "p2", RelationType: "godmother"}, {ID: "p1", RelationType: "mentor"}}},
			{ID: "p4", FirstName: "Ana", LastName: "Lopez"},
		},
	}
}

// ─── sweepRelations ──────────────────────────────────────────────────────────

// TestSweepRelations_ClearsEveryReference removes pointers and side relations to the deleted id.
func TestSweepRelations_ClearsEveryReference(t *testing.T) {
	g, err := graphFromSnapshot(familySnapshot())
	require.NoError(t, err)
	require.NoError(t, g.remove("p1"))

	touched := sweepRelations(g, "p1")
	assert.Equal(t, 2, touched)

	maria, err := g.get("p2")
	require.NoError(t, err)
	assert.Nil(t, maria.SpouseID)

	luis, err := g.get("p3")
	require.NoError(t, err)
	assert.Nil(t, luis.FatherID)
	require.NotNil(t, luis.MotherID)
	assert.Equal(t, "p2", *luis.MotherID)
	assert.Equal(t, []models.SideRelation{{ID: "p2", RelationType: "godmother"}}, luis.SideRelations)

	for _, p := range g.list() {
		assert.NotContains(t, p.References(), "p1")
	}
}

// TestSweepRelations_NothingToDo leaves unrelated records alone.
func TestSweepRelations_NothingToDo(t *testing.T) {
	g, err := graphFromSnapshot(familySnapshot())
	require.NoError(t, err)
	require.NoError(t, g.remove("p4"))

	assert.Zero(t, sweepRelations(g, "p4"))
	assert.Len(t, g.list(), 3)
}

// ─── graph ───────────────────────────────────────────────────────────────────

// TestGraph_RemoveReindexes keeps the id index in step with the slice.
func TestGraph_RemoveReindexes(t *testing.T) {
	g, err := graphFromSnapshot(familySnapshot())
	require.NoError(t, err)

	require.NoError(t, g.remove("p2"))
	for i, p := range g.persons {
		assert.Equal(t, i, g.index[p.ID])
	}
	_, err = g.get("p2")
	assert.ErrorIs(t, err, ErrPersonNotFound)
	assert.ErrorIs(t, g.remove("p2"), ErrPersonNotFound)
}

// TestGraph_InsertPut enforces unique ids and normalizes records.
func TestGraph_InsertPut(t *testing.T) {
	g := newGraph()
	require.NoError(t, g.insert(models.Person{ID: "a", FirstName: "A", LastName: "B"}))
	assert.ErrorIs(t, g.insert(models.Person{ID: "a", FirstName: "C", LastName: "D"}), ErrPersonExists)
	assert.ErrorIs(t, g.put(models.Person{ID: "zz"}), ErrPersonNotFound)

	p, err := g.get("a")
	require.NoError(t, err)
	assert.Equal(t, models.RoleNone, p.Role)
	assert.NotNil(t, p.SideRelations)

	p.FirstName = "Changed"
	require.NoError(t, g.put(p))
	got, _ := g.get("a")
	assert.Equal(t, "Changed", got.FirstName)
}

// TestGraph_CloneIsDeep verifies that mutating a clone leaves the original intact.
func TestGraph_CloneIsDeep(t *testing.T) {
	g, err := graphFromSnapshot(familySnapshot())
	require.NoError(t, err)

	c := g.clone()
	c.persons[1].SpouseID = nil
	c.persons[2].SideRelations[0].RelationType = "changed"
	require.NoError(t, c.creds.UpdatePassword("admin", "other"))

	orig, _ := g.get("p2")
	require.NotNil(t, orig.SpouseID)
	luis, _ := g.get("p3")
	assert.Equal(t, "godmother", luis.SideRelations[0].RelationType)
	cred, _ := g.creds.FindByID("p1")
	assert.Equal(t, "$2a$10$hash", cred.PasswordHash)
}

// TestGraphFromSnapshot_Inconsistent rejects a snapshot that fails validation.
func TestGraphFromSnapshot_Inconsistent(t *testing.T) {
	s := familySnapshot()
	s.Persons[3].FatherID = models.StringPtr("ghost")

	_, err := graphFromSnapshot(s)
	assert.ErrorIs(t, err, models.ErrInconsistentSnapshot)
}
