// Package jsonschema builds draft-07 JSON Schema documents describing the
// properties of an entity or a relation.
package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Draft07 is the $schema of every generated document.
const Draft07 = "http://json-schema.org/draft-07/schema#"

// Null is the type name accepted by optional properties.
const Null = "null"

// ErrDuplicateProperty is returned when a property id is added twice.
var ErrDuplicateProperty = errors.New("duplicate property")

// Type is the "type" keyword of a property: a single type name or a set.
type Type struct {
	names []string
	set   bool
}

// NewType returns a single-name type.
func NewType(name string) Type {
	return Type{names: []string{name}}
}

// NewTypeSet returns a type accepting any of names.
func NewTypeSet(names ...string) Type {
	return Type{names: slices.Clone(names), set: true}
}

// Names returns the accepted type names.
func (t Type) Names() []string {
	return slices.Clone(t.names)
}

// IsSet reports whether the type is rendered as an array.
func (t Type) IsSet() bool {
	return t.set
}

// Nullable widens the type to also accept null. A single name becomes a
// two-element set; a set gains "null" unless it already has it.
func (t Type) Nullable() Type {
	names := slices.Clone(t.names)
	if !slices.Contains(names, Null) {
		names = append(names, Null)
	}
	return Type{names: names, set: true}
}

// MarshalJSON renders the property object holding the type keyword.
func (t Type) MarshalJSON() ([]byte, error) {
	if !t.set && len(t.names) == 1 {
		return json.Marshal(struct {
			Type string `json:"type"`
		}{t.names[0]})
	}
	names := t.names
	if names == nil {
		names = []string{}
	}
	return json.Marshal(struct {
		Type []string `json:"type"`
	}{names})
}

// UnmarshalJSON accepts both the single and the set form.
func (t *Type) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var name string
	if err := json.Unmarshal(raw.Type, &name); err == nil {
		*t = NewType(name)
		return nil
	}
	var names []string
	if err := json.Unmarshal(raw.Type, &names); err != nil {
		return fmt.Errorf("invalid type keyword: %w", err)
	}
	*t = NewTypeSet(names...)
	return nil
}

// Document is a generated JSON Schema.
type Document struct {
	ID         string          `json:"$id"`
	Schema     string          `json:"$schema"`
	Properties map[string]Type `json:"properties"`
	Required   []string        `json:"required"`

	order []string
}

// New creates an empty document identified by id.
func New(id string) *Document {
	return &Document{
		ID:         id,
		Schema:     Draft07,
		Properties: map[string]Type{},
		Required:   []string{},
	}
}

// AddProperty adds the property id. Required ids are listed in Required;
// optional ones get their type widened to accept null.
func (d *Document) AddProperty(id string, t Type, required bool) error {
	if _, ok := d.Properties[id]; ok {
		return fmt.Errorf("property %q already exists in %q: %w", id, d.ID, ErrDuplicateProperty)
	}
	if required {
		d.Required = append(d.Required, id)
	} else {
		t = t.Nullable()
	}
	d.Properties[id] = t
	d.order = append(d.order, id)
	return nil
}

// PropertyNames returns the property ids in the order they were added.
func (d *Document) PropertyNames() []string {
	return slices.Clone(d.order)
}
