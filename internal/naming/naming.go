// Package naming derives display names from model identifiers.
package naming

import (
	"github.com/go-openapi/inflect"

	"github.com/tordrt/tenantschema/internal/urn"
)

var rules = inflect.NewDefaultRuleset()

// TypeName returns the GraphQL type name of text. The whole text is used, so
// a namespace becomes part of the name: "ns:stock_item" -> "NsStockItem".
func TypeName(text string) string {
	return rules.Camelize(text)
}

// FieldName returns the GraphQL field name of text: "storageSiteId" -> "storage_site_id".
func FieldName(text string) string {
	return rules.Underscore(text)
}

// Title returns a human readable title: "storage_site" -> "Storage Site".
func Title(name string) string {
	base := urn.Basename(name)
	if base == "" {
		return ""
	}
	return rules.Titleize(base)
}

// Plural returns the inflected plural of a singular, for suggestions only.
// The model never infers plurals.
func Plural(singular string) string {
	return rules.Pluralize(urn.Basename(singular))
}
