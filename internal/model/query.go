package model

import "slices"

// ResolveSingular returns the singular form of text, which may be either
// a plural or a singular.
func (m *Model) ResolveSingular(text string) (string, error) {
	if i, ok := m.byPlural[text]; ok {
		return m.entities[i].Singular, nil
	}
	if i, ok := m.bySingular[text]; ok {
		return m.entities[i].Singular, nil
	}
	return "", newError(NotFound, "", "no entity is named %q", text)
}

// ResolvePlural returns the plural form of text, which may be either a
// singular or a plural.
func (m *Model) ResolvePlural(text string) (string, error) {
	if i, ok := m.bySingular[text]; ok {
		return m.entities[i].Plural, nil
	}
	if i, ok := m.byPlural[text]; ok {
		return m.entities[i].Plural, nil
	}
	return "", newError(NotFound, "", "no entity is named %q", text)
}

// IsJoinTable reports whether name is the join table of a ManyToMany relation.
func (m *Model) IsJoinTable(name string) bool {
	return slices.Contains(m.joinTableNames(), name)
}

// TableNames returns entity tables then join tables, in declaration order.
func (m *Model) TableNames() []string {
	names := make([]string, 0, len(m.entities)+len(m.relations))
	for _, e := range m.entities {
		names = append(names, e.Plural)
	}
	return append(names, m.joinTableNames()...)
}

func (m *Model) joinTableNames() []string {
	var names []string
	for _, r := range m.relations {
		if r.Cardinality == ManyToMany {
			names = append(names, m.joinTableName(r))
		}
	}
	return names
}

// UniqueColumns lists the columns of the entity table plural that take
// part in a uniqueness rule: unique constraint columns first, then unique
// attributes. A column is listed once. The boolean is false when no
// entity has that plural.
func (m *Model) UniqueColumns(plural string) ([]string, bool) {
	i, ok := m.byPlural[plural]
	if !ok {
		return nil, false
	}
	e := m.entities[i]
	cols := []string{}
	add := func(c string) {
		if !slices.Contains(cols, c) {
			cols = append(cols, c)
		}
	}
	for _, uc := range e.UniqueConstraints {
		for _, c := range m.constraintColumns(uc) {
			add(c)
		}
	}
	for _, a := range e.Attributes {
		if a.Unique {
			add(a.ID)
		}
	}
	return cols, true
}
