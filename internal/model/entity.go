package model

import (
	"slices"

	"github.com/tordrt/tenantschema/internal/jsonschema"
	"github.com/tordrt/tenantschema/internal/schema"
	"github.com/tordrt/tenantschema/internal/urn"
)

// UniqueConstraint is a composite uniqueness rule over attribute ids and
// the foreign keys of OneToMany relations pointing at the entity.
type UniqueConstraint struct {
	Attributes []string `json:"attributes" yaml:"attributes"`
	Relations  []string `json:"relations" yaml:"relations"`
}

// Entity is a named record type stored in its own table.
type Entity struct {
	ID                int                `json:"id" yaml:"id"`
	URN               string             `json:"urn" yaml:"urn"`
	Singular          string             `json:"singular" yaml:"singular"`
	Plural            string             `json:"plural" yaml:"plural"`
	Name              string             `json:"name" yaml:"name"`
	Description       string             `json:"description,omitempty" yaml:"description,omitempty"`
	Visibility        Visibility         `json:"visibility" yaml:"visibility"`
	Attributes        []Attribute        `json:"attributes" yaml:"attributes"`
	UniqueConstraints []UniqueConstraint `json:"unique_constraints,omitempty" yaml:"unique_constraints,omitempty"`
}

// Validate checks the entity on its own. Cross-entity rules are checked
// by Build.
func (e Entity) Validate() error {
	if urn.Basename(e.URN) != e.Singular {
		return newError(EntityUrnMismatch, e.URN, "basename does not match singular %q", e.Singular)
	}
	if e.Singular == e.Plural {
		return newError(SingularEqualsPlural, e.URN, "singular and plural are both %q", e.Singular)
	}
	if e.Singular == "" || e.Plural == "" {
		return newError(EmptyName, e.URN, "entity needs both a singular and a plural name")
	}
	if len(e.Attributes) == 0 {
		return newError(NoAttributes, e.URN, "entity has no attributes")
	}
	if err := validateAttributes(e.Attributes, e.URN); err != nil {
		return err
	}
	for _, uc := range e.UniqueConstraints {
		for _, id := range uc.Attributes {
			if !e.hasAttribute(id) {
				return newError(UnknownConstraintAttribute, e.URN, "unique constraint names unknown attribute %q", id)
			}
		}
	}
	return nil
}

func (e Entity) hasAttribute(id string) bool {
	return slices.ContainsFunc(e.Attributes, func(a Attribute) bool { return a.ID == id })
}

// StorageTable returns the entity table with the implicit columns and one
// column per attribute. Relation columns are added by the model.
func (e Entity) StorageTable() schema.Table {
	t := schema.NewBaseTable(e.Plural)
	t.Comment = e.Name
	for _, a := range e.Attributes {
		t.Columns = append(t.Columns, a.Column())
	}
	return t
}

// UpdateTrigger returns the trigger refreshing updated_at.
func (e Entity) UpdateTrigger() schema.Trigger {
	return schema.NewUpdateTrigger(e.Plural)
}

// JSONSchema describes the entity attributes.
func (e Entity) JSONSchema() (*jsonschema.Document, error) {
	doc := jsonschema.New(e.URN)
	if err := addAttributeProperties(doc, e.Attributes); err != nil {
		return nil, err
	}
	return doc, nil
}

func (e Entity) clone() Entity {
	e.Attributes = slices.Clone(e.Attributes)
	if e.UniqueConstraints != nil {
		ucs := make([]UniqueConstraint, len(e.UniqueConstraints))
		for i, uc := range e.UniqueConstraints {
			ucs[i] = UniqueConstraint{
				Attributes: slices.Clone(uc.Attributes),
				Relations:  slices.Clone(uc.Relations),
			}
		}
		e.UniqueConstraints = ucs
	}
	return e
}
