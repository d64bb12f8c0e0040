// Package model holds the validated data model of a tenant: entities,
// relations and their attributes, and the generators deriving the
// relational schema and the JSON Schema documents from it.
//
// A Model is built once by Build and never mutated afterwards, so it is
// safe for concurrent readers.
package model

import "github.com/tordrt/tenantschema/internal/urn"

// Spec is the input tree of a model.
type Spec struct {
	Tenant    string     `json:"tenant" yaml:"tenant"`
	Entities  []Entity   `json:"entities" yaml:"entities"`
	Relations []Relation `json:"relations" yaml:"relations"`
}

// Model is a validated set of entities and relations.
type Model struct {
	tenant    string
	entities  []Entity
	relations []Relation

	byURN      map[string]int
	bySingular map[string]int
	byPlural   map[string]int
	relByURN   map[string]int
}

// FromSpec builds the model described by s.
func FromSpec(s Spec) (*Model, error) {
	return Build(s.Tenant, s.Entities, s.Relations)
}

// Build validates entities and relations and returns the model. The first
// violation found is returned. Inputs are copied.
func Build(tenant string, entities []Entity, relations []Relation) (*Model, error) {
	m := &Model{
		tenant:     tenant,
		entities:   make([]Entity, len(entities)),
		relations:  make([]Relation, len(relations)),
		byURN:      make(map[string]int, len(entities)),
		bySingular: make(map[string]int, len(entities)),
		byPlural:   make(map[string]int, len(entities)),
		relByURN:   make(map[string]int, len(relations)),
	}
	for i, e := range entities {
		m.entities[i] = e.clone()
		m.byURN[e.URN] = i
		m.bySingular[e.Singular] = i
		m.byPlural[e.Plural] = i
	}
	for i, r := range relations {
		m.relations[i] = r.clone()
		m.relByURN[r.URN] = i
	}

	for _, e := range m.entities {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	for _, r := range m.relations {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	if err := m.checkNames(); err != nil {
		return nil, err
	}
	if err := m.checkTableNames(); err != nil {
		return nil, err
	}
	if err := m.checkReferences(); err != nil {
		return nil, err
	}
	if err := m.checkConstraintRelations(); err != nil {
		return nil, err
	}
	if err := m.checkJoinTables(); err != nil {
		return nil, err
	}
	return m, nil
}

// checkNames rejects a basename shared by any two entities or relations.
func (m *Model) checkNames() error {
	seen := make(map[string]string, len(m.entities)+len(m.relations))
	check := func(u string) error {
		base := urn.Basename(u)
		if prev, ok := seen[base]; ok {
			return newError(NameCollision, u, "basename %q is already used by %q", base, prev)
		}
		seen[base] = u
		return nil
	}
	for _, e := range m.entities {
		if err := check(e.URN); err != nil {
			return err
		}
	}
	for _, r := range m.relations {
		if err := check(r.URN); err != nil {
			return err
		}
	}
	return nil
}

// checkTableNames rejects a plural that is another entity's plural or
// singular, since resolution and table names would become ambiguous.
func (m *Model) checkTableNames() error {
	singulars := make(map[string]string, len(m.entities))
	for _, e := range m.entities {
		singulars[e.Singular] = e.URN
	}
	plurals := make(map[string]string, len(m.entities))
	for _, e := range m.entities {
		if other, ok := plurals[e.Plural]; ok {
			return newError(DuplicateKey, e.URN, "plural %q is also the plural of %q", e.Plural, other)
		}
		if other, ok := singulars[e.Plural]; ok && other != e.URN {
			return newError(DuplicateKey, e.URN, "plural %q is the singular of %q", e.Plural, other)
		}
		plurals[e.Plural] = e.URN
	}
	return nil
}

func (m *Model) checkReferences() error {
	for _, r := range m.relations {
		if _, ok := m.byURN[r.Origin]; !ok {
			return newError(DanglingReference, r.URN, "origin %q is not an entity", r.Origin)
		}
		if _, ok := m.byURN[r.Destination]; !ok {
			return newError(DanglingReference, r.URN, "destination %q is not an entity", r.Destination)
		}
	}
	return nil
}

// checkConstraintRelations requires every relation named by a unique
// constraint to put a foreign key column on the constrained entity.
func (m *Model) checkConstraintRelations() error {
	for _, e := range m.entities {
		for _, uc := range e.UniqueConstraints {
			for _, ru := range uc.Relations {
				i, ok := m.relByURN[ru]
				if !ok {
					return newError(DanglingReference, e.URN, "unique constraint names unknown relation %q", ru)
				}
				if !m.relations[i].IsDestination(e.URN, OneToMany) {
					return newError(InvalidConstraintRelation, e.URN,
						"unique constraint relation %q is not a OneToMany relation to this entity", ru)
				}
			}
		}
	}
	return nil
}

// checkJoinTables rejects a join table name already taken by an entity
// table or by another join table.
func (m *Model) checkJoinTables() error {
	taken := make(map[string]string, len(m.entities))
	for _, e := range m.entities {
		taken[e.Plural] = e.URN
	}
	for _, r := range m.relations {
		if r.Cardinality != ManyToMany {
			continue
		}
		name := m.joinTableName(r)
		if other, ok := taken[name]; ok {
			return newError(DuplicateKey, r.URN, "join table %q is also the table of %q", name, other)
		}
		taken[name] = r.URN
	}
	return nil
}

// Tenant returns the tenant the model belongs to.
func (m *Model) Tenant() string {
	return m.tenant
}

// Entities returns copies of the entities in declaration order.
func (m *Model) Entities() []Entity {
	out := make([]Entity, len(m.entities))
	for i, e := range m.entities {
		out[i] = e.clone()
	}
	return out
}

// Relations returns copies of the relations in declaration order.
func (m *Model) Relations() []Relation {
	out := make([]Relation, len(m.relations))
	for i, r := range m.relations {
		out[i] = r.clone()
	}
	return out
}

// Entity returns the entity identified by urn.
func (m *Model) Entity(u string) (Entity, bool) {
	i, ok := m.byURN[u]
	if !ok {
		return Entity{}, false
	}
	return m.entities[i].clone(), true
}

// Relation returns the relation identified by urn.
func (m *Model) Relation(u string) (Relation, bool) {
	i, ok := m.relByURN[u]
	if !ok {
		return Relation{}, false
	}
	return m.relations[i].clone(), true
}

func (m *Model) entity(u string) *Entity {
	return &m.entities[m.byURN[u]]
}
