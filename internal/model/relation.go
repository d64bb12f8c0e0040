package model

import (
	"slices"
	"strings"

	"github.com/tordrt/tenantschema/internal/jsonschema"
	"github.com/tordrt/tenantschema/internal/schema"
	"github.com/tordrt/tenantschema/internal/urn"
)

// Relation links an origin entity to a destination entity.
type Relation struct {
	ID          int         `json:"id" yaml:"id"`
	URN         string      `json:"urn" yaml:"urn"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Visibility  Visibility  `json:"visibility" yaml:"visibility"`
	Origin      string      `json:"origin" yaml:"origin"`
	Destination string      `json:"destination" yaml:"destination"`
	Cardinality Cardinality `json:"cardinality" yaml:"cardinality"`
	Attributes  []Attribute `json:"attributes" yaml:"attributes"`
}

// Validate checks the relation on its own. Whether origin and destination
// exist is checked by Build.
func (r Relation) Validate() error {
	if err := urn.IsValid(r.URN); err != nil {
		return &Error{Kind: InvalidIdentifierChar, URN: r.URN, Cause: err}
	}
	ns := urn.Namespace(r.URN)
	if urn.Namespace(r.Origin) != ns {
		return newError(NamespaceMismatch, r.URN, "origin %q is outside namespace %q", r.Origin, ns)
	}
	if urn.Namespace(r.Destination) != ns {
		return newError(NamespaceMismatch, r.URN, "destination %q is outside namespace %q", r.Destination, ns)
	}
	if r.Cardinality == OneToMany && len(r.Attributes) > 0 {
		return newError(AttributesNotAllowed, r.URN, "OneToMany relations cannot carry attributes")
	}
	for _, a := range r.Attributes {
		if strings.HasSuffix(a.ID, "_"+schema.BaseID) {
			return newError(ReservedAttributeSuffix, r.URN, "attribute id %q ends with _%s", a.ID, schema.BaseID)
		}
	}
	return validateAttributes(r.Attributes, r.URN)
}

// IsDestination reports whether the relation points at entity with the
// given cardinality.
func (r Relation) IsDestination(entity string, c Cardinality) bool {
	return r.Destination == entity && r.Cardinality == c
}

// JSONSchema describes a relation instance: both endpoint ids, then the
// relation attributes.
func (r Relation) JSONSchema() (*jsonschema.Document, error) {
	doc := jsonschema.New(r.URN)
	for _, end := range []string{r.Origin, r.Destination} {
		if err := doc.AddProperty(schema.ForeignKeyColumn(urn.Basename(end)), jsonschema.NewType("integer"), true); err != nil {
			return nil, err
		}
	}
	if err := addAttributeProperties(doc, r.Attributes); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r Relation) clone() Relation {
	r.Attributes = slices.Clone(r.Attributes)
	return r
}
