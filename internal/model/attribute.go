package model

import (
	"fmt"
	"slices"

	"github.com/tordrt/tenantschema/internal/jsonschema"
	"github.com/tordrt/tenantschema/internal/schema"
	"github.com/tordrt/tenantschema/internal/urn"
)

// reservedAttributeIDs are the implicit columns of every entity table.
var reservedAttributeIDs = []string{schema.BaseID, schema.CreatedAt, schema.UpdatedAt, "rev"}

// Attribute is a typed field of an entity or a relation.
type Attribute struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool          `json:"required,omitempty" yaml:"required,omitempty"`
	Unique      bool          `json:"unique,omitempty" yaml:"unique,omitempty"`
	Type        AttributeType `json:"type" yaml:"type"`
}

// Validate checks the attribute id. The returned error carries no urn;
// the owning entity or relation adds its own.
func (a Attribute) Validate() error {
	if slices.Contains(reservedAttributeIDs, a.ID) {
		return newError(ReservedIdentifier, "", "attribute id %q is reserved", a.ID)
	}
	if !urn.IsSnakeCase(a.ID) {
		return newError(InvalidCase, "", "attribute id %q is not snake case", a.ID)
	}
	return nil
}

// StorageType maps the attribute type to its column type.
func (a Attribute) StorageType() schema.Type {
	switch a.Type {
	case String:
		return schema.Text
	case Integer:
		return schema.Integer
	case Real:
		return schema.Real
	case Bool:
		return schema.Boolean
	case Timestamp:
		return schema.DateTime
	}
	panic(fmt.Sprintf("model: unknown attribute type %d", int(a.Type)))
}

// SchemaType maps the attribute type to its JSON Schema type. Timestamps
// travel as integers.
func (a Attribute) SchemaType() jsonschema.Type {
	switch a.Type {
	case String:
		return jsonschema.NewType("string")
	case Integer, Timestamp:
		return jsonschema.NewType("integer")
	case Real:
		return jsonschema.NewType("number")
	case Bool:
		return jsonschema.NewType("boolean")
	}
	panic(fmt.Sprintf("model: unknown attribute type %d", int(a.Type)))
}

// Column returns the column storing the attribute.
func (a Attribute) Column() schema.Column {
	col := schema.NewColumn(a.ID, a.StorageType())
	col.NotNull = a.Required
	col.IsUnique = a.Unique
	return col
}

func validateAttributes(attrs []Attribute, owner string) error {
	for _, a := range attrs {
		if err := a.Validate(); err != nil {
			return withURN(err, owner)
		}
	}
	return nil
}

func addAttributeProperties(doc *jsonschema.Document, attrs []Attribute) error {
	for _, a := range attrs {
		if err := doc.AddProperty(a.ID, a.SchemaType(), a.Required); err != nil {
			return err
		}
	}
	return nil
}
