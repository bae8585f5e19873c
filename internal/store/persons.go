package store

import (
	"fmt"

	"github.com/MKhiriev/go-family-tree/models"
)

// graph is the in-memory state of a directory: the ordered person records,
// an id index into them, and the credential store.
type graph struct {
	persons []models.Person
	index   map[string]int
	creds   *CredentialStore
}

func newGraph() *graph {
	return &graph{
		index: make(map[string]int),
		creds: newCredentialStore(),
	}
}

// graphFromSnapshot validates s and builds a graph from it.
func graphFromSnapshot(s models.Snapshot) (*graph, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	g := newGraph()
	for _, p := range s.Persons {
		p = p.Clone()
		p.Normalize()
		g.index[p.ID] = len(g.persons)
		g.persons = append(g.persons, p)
	}
	for _, c := range s.Users {
		if err := g.creds.Insert(c.ID, c.Username, c.PasswordHash); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func (g *graph) clone() *graph {
	c := &graph{
		persons: make([]models.Person, len(g.persons)),
		index:   make(map[string]int, len(g.index)),
		creds:   g.creds.clone(),
	}
	for i, p := range g.persons {
		c.persons[i] = p.Clone()
	}
	for k, v := range g.index {
		c.index[k] = v
	}
	return c
}

func (g *graph) snapshot() models.Snapshot {
	s := models.Snapshot{
		Users:   g.creds.List(),
		Persons: make([]models.Person, len(g.persons)),
	}
	for i, p := range g.persons {
		s.Persons[i] = p.Clone()
	}
	return s
}

func (g *graph) get(id string) (models.Person, error) {
	i, ok := g.index[id]
	if !ok {
		return models.Person{}, fmt.Errorf("%w: %q", ErrPersonNotFound, id)
	}
	return g.persons[i].Clone(), nil
}

func (g *graph) list() []models.Person {
	out := make([]models.Person, len(g.persons))
	for i, p := range g.persons {
		out[i] = p.Clone()
	}
	return out
}

func (g *graph) insert(p models.Person) error {
	if _, exists := g.index[p.ID]; exists {
		return fmt.Errorf("%w: %q", ErrPersonExists, p.ID)
	}
	p.Normalize()
	g.index[p.ID] = len(g.persons)
	g.persons = append(g.persons, p.Clone())
	return nil
}

func (g *graph) put(p models.Person) error {
	i, ok := g.index[p.ID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPersonNotFound, p.ID)
	}
	p.Normalize()
	g.persons[i] = p.Clone()
	return nil
}

// remove deletes the record with id and reindexes the records after it.
func (g *graph) remove(id string) error {
	i, ok := g.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPersonNotFound, id)
	}

	g.persons = append(g.persons[:i], g.persons[i+1:]...)
	delete(g.index, id)
	for j := i; j < len(g.persons); j++ {
		g.index[g.persons[j].ID] = j
	}
	return nil
}
