package model

import (
	"errors"
	"fmt"
)

// Kind classifies a model error. Every kind is an input error; none is
// transient.
type Kind int

const (
	ReservedIdentifier Kind = iota + 1
	InvalidCase
	InvalidIdentifierChar
	EntityUrnMismatch
	SingularEqualsPlural
	EmptyName
	NoAttributes
	UnknownConstraintAttribute
	NamespaceMismatch
	AttributesNotAllowed
	ReservedAttributeSuffix
	NameCollision
	DuplicateKey
	DanglingReference
	InvalidConstraintRelation
	NotFound
)

var kindNames = map[Kind]string{
	ReservedIdentifier:         "reserved identifier",
	InvalidCase:                "invalid case",
	InvalidIdentifierChar:      "invalid identifier char",
	EntityUrnMismatch:          "entity urn mismatch",
	SingularEqualsPlural:       "singular equals plural",
	EmptyName:                  "empty name",
	NoAttributes:               "no attributes",
	UnknownConstraintAttribute: "unknown constraint attribute",
	NamespaceMismatch:          "namespace mismatch",
	AttributesNotAllowed:       "attributes not allowed",
	ReservedAttributeSuffix:    "reserved attribute suffix",
	NameCollision:              "name collision",
	DuplicateKey:               "duplicate key",
	DanglingReference:          "dangling reference",
	InvalidConstraintRelation:  "invalid constraint relation",
	NotFound:                   "not found",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels for errors.Is. A *Error matches the sentinel of its kind.
var (
	ErrReservedIdentifier         = &Error{Kind: ReservedIdentifier}
	ErrInvalidCase                = &Error{Kind: InvalidCase}
	ErrInvalidIdentifierChar      = &Error{Kind: InvalidIdentifierChar}
	ErrEntityUrnMismatch          = &Error{Kind: EntityUrnMismatch}
	ErrSingularEqualsPlural       = &Error{Kind: SingularEqualsPlural}
	ErrEmptyName                  = &Error{Kind: EmptyName}
	ErrNoAttributes               = &Error{Kind: NoAttributes}
	ErrUnknownConstraintAttribute = &Error{Kind: UnknownConstraintAttribute}
	ErrNamespaceMismatch          = &Error{Kind: NamespaceMismatch}
	ErrAttributesNotAllowed       = &Error{Kind: AttributesNotAllowed}
	ErrReservedAttributeSuffix    = &Error{Kind: ReservedAttributeSuffix}
	ErrNameCollision              = &Error{Kind: NameCollision}
	ErrDuplicateKey               = &Error{Kind: DuplicateKey}
	ErrDanglingReference          = &Error{Kind: DanglingReference}
	ErrInvalidConstraintRelation  = &Error{Kind: InvalidConstraintRelation}
	ErrNotFound                   = &Error{Kind: NotFound}
)

// Error is the single error type of the model package.
type Error struct {
	Kind    Kind
	URN     string // offending entity or relation, if any
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := "model: " + e.Kind.String()
	if e.URN != "" {
		msg += fmt.Sprintf(" in %q", e.URN)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, urn, format string, args ...any) *Error {
	return &Error{Kind: kind, URN: urn, Message: fmt.Sprintf(format, args...)}
}

// withURN tags err with urn unless it already names one.
func withURN(err error, urn string) error {
	var e *Error
	if !errors.As(err, &e) || e.URN != "" {
		return err
	}
	tagged := *e
	tagged.URN = urn
	return &tagged
}
