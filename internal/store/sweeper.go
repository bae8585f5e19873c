package store

import (
	"slices"

	"github.com/MKhiriev/go-family-tree/models"
)

// sweepRelations scrubs every reference to deletedID from the remaining
// persons: father/mother/spouse pointers equal to it are cleared and side
// relations naming it are dropped. It visits the whole graph and returns the
// number of persons that changed.
func sweepRelations(g *graph, deletedID string) int {
	touched := 0

	for i := range g.persons {
		p := &g.persons[i]
		changed := false

		for _, ptr := range []**string{&p.FatherID, &p.MotherID, &p.SpouseID} {
			if *ptr != nil && **ptr == deletedID {
				*ptr = nil
				changed = true
			}
		}

		before := len(p.SideRelations)
		p.SideRelations = slices.DeleteFunc(p.SideRelations, func(r models.SideRelation) bool {
			return r.ID == deletedID
		})
		if len(p.SideRelations) != before {
			changed = true
		}

		if changed {
			touched++
		}
	}

	return touched
}
