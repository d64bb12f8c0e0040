package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const tenant = "sampleperry"

func partEntity() Entity {
	return Entity{
		ID:          1,
		URN:         "sampleperry:part",
		Singular:    "part",
		Plural:      "parts",
		Name:        "Part",
		Description: "A part",
		Visibility:  Tenant,
		Attributes: []Attribute{
			{ID: "label", Name: "Label", Required: true, Unique: true, Type: String},
			{ID: "stock", Name: "Stock Units", Type: Integer},
		},
	}
}

func categoryEntity() Entity {
	return Entity{
		ID:         2,
		URN:        "sampleperry:category",
		Singular:   "category",
		Plural:     "categories",
		Name:       "Category",
		Visibility: Tenant,
		Attributes: []Attribute{
			{ID: "name", Name: "Name", Required: true, Unique: true, Type: String},
		},
	}
}

func priceEntity() Entity {
	return Entity{
		ID:         3,
		URN:        "sampleperry:price",
		Singular:   "price",
		Plural:     "prices",
		Name:       "Price",
		Visibility: Tenant,
		Attributes: []Attribute{
			{ID: "value", Name: "Value", Required: true, Type: Real},
		},
	}
}

func priceSellerEntity() Entity {
	return Entity{
		ID:         4,
		URN:        "sampleperry:price_seller",
		Singular:   "price_seller",
		Plural:     "prices_seller",
		Name:       "Price With Seller",
		Visibility: Tenant,
		Attributes: []Attribute{
			{ID: "value", Name: "Value", Required: true, Type: Real},
			{ID: "seller", Name: "Seller", Required: true, Type: String},
		},
		UniqueConstraints: []UniqueConstraint{
			{Attributes: []string{"seller"}, Relations: []string{"sampleperry:pricedbyseller"}},
		},
	}
}

func relation(id int, name, origin, destination string, c Cardinality) Relation {
	return Relation{
		ID:          id,
		URN:         "sampleperry:" + name,
		Name:        name,
		Visibility:  Tenant,
		Origin:      "sampleperry:" + origin,
		Destination: "sampleperry:" + destination,
		Cardinality: c,
	}
}

func categorisedRelation() Relation {
	return relation(5, "categorisedby", "part", "category", ManyToMany)
}

func pricedByRelation() Relation {
	return relation(6, "pricedby", "part", "price", OneToMany)
}

func pricedBySellerRelation() Relation {
	return relation(7, "pricedbyseller", "part", "price_seller", OneToMany)
}

func hasPriceRelation() Relation {
	return relation(8, "hasprice", "category", "price", OneToMany)
}

func catalogModel(t *testing.T) *Model {
	t.Helper()
	m, err := Build(tenant,
		[]Entity{partEntity(), categoryEntity(), priceEntity(), priceSellerEntity()},
		[]Relation{categorisedRelation(), pricedByRelation(), pricedBySellerRelation()})
	require.NoError(t, err)
	return m
}

func sampleModel(t *testing.T) *Model {
	t.Helper()
	s, err := LoadFile(filepath.Join("testdata", "sampleperry.json"))
	require.NoError(t, err)
	m, err := FromSpec(s)
	require.NoError(t, err)
	return m
}

func golden(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return strings.TrimSuffix(string(b), "\n")
}
