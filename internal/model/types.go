package model

import "fmt"

// AttributeType is the declared type of an attribute.
type AttributeType int

const (
	String AttributeType = iota
	Integer
	Real
	Bool
	Timestamp
)

var attributeTypeTags = [...]string{
	String:    "string",
	Integer:   "integer",
	Real:      "real",
	Bool:      "bool",
	Timestamp: "timestamp",
}

func (t AttributeType) String() string {
	if t >= 0 && int(t) < len(attributeTypeTags) {
		return attributeTypeTags[t]
	}
	return fmt.Sprintf("AttributeType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t AttributeType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(attributeTypeTags) {
		return nil, fmt.Errorf("unknown attribute type %d", int(t))
	}
	return []byte(attributeTypeTags[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *AttributeType) UnmarshalText(text []byte) error {
	for i, tag := range attributeTypeTags {
		if tag == string(text) {
			*t = AttributeType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown attribute type %q", text)
}

// Visibility scopes who can see an entity or relation.
type Visibility int

const (
	User Visibility = iota
	Global
	Tenant
)

var visibilityTags = [...]string{
	User:   "User",
	Global: "Global",
	Tenant: "Tenant",
}

func (v Visibility) String() string {
	if v >= 0 && int(v) < len(visibilityTags) {
		return visibilityTags[v]
	}
	return fmt.Sprintf("Visibility(%d)", int(v))
}

// MarshalText implements encoding.TextMarshaler.
func (v Visibility) MarshalText() ([]byte, error) {
	if v < 0 || int(v) >= len(visibilityTags) {
		return nil, fmt.Errorf("unknown visibility %d", int(v))
	}
	return []byte(visibilityTags[v]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Visibility) UnmarshalText(text []byte) error {
	for i, tag := range visibilityTags {
		if tag == string(text) {
			*v = Visibility(i)
			return nil
		}
	}
	return fmt.Errorf("unknown visibility %q", text)
}

// Cardinality of a relation from origin to destination.
type Cardinality int

const (
	OneToMany Cardinality = iota
	ManyToMany
)

var cardinalityTags = [...]string{
	OneToMany:  "OneToMany",
	ManyToMany: "ManyToMany",
}

func (c Cardinality) String() string {
	if c >= 0 && int(c) < len(cardinalityTags) {
		return cardinalityTags[c]
	}
	return fmt.Sprintf("Cardinality(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Cardinality) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(cardinalityTags) {
		return nil, fmt.Errorf("unknown cardinality %d", int(c))
	}
	return []byte(cardinalityTags[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cardinality) UnmarshalText(text []byte) error {
	for i, tag := range cardinalityTags {
		if tag == string(text) {
			*c = Cardinality(i)
			return nil
		}
	}
	return fmt.Errorf("unknown cardinality %q", text)
}
