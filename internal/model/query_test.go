package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	m, err := Build(tenant, []Entity{partEntity(), categoryEntity()}, nil)
	require.NoError(t, err)

	tests := []struct {
		text     string
		singular string
		plural   string
	}{
		{text: "parts", singular: "part", plural: "parts"},
		{text: "part", singular: "part", plural: "parts"},
		{text: "categories", singular: "category", plural: "categories"},
		{text: "category", singular: "category", plural: "categories"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s, err := m.ResolveSingular(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.singular, s)

			p, err := m.ResolvePlural(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.plural, p)
		})
	}

	_, err = m.ResolveSingular("foo")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = m.ResolvePlural("foo")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestIsJoinTable(t *testing.T) {
	m := catalogModel(t)

	assert.True(t, m.IsJoinTable("part_categories"))
	assert.False(t, m.IsJoinTable("parts"))
	// OneToMany relations have no table of their own.
	assert.False(t, m.IsJoinTable("part_prices"))
}

func TestTableNames(t *testing.T) {
	assert.Equal(t,
		[]string{"parts", "categories", "prices", "prices_seller", "part_categories"},
		catalogModel(t).TableNames())
}

func TestUniqueColumns(t *testing.T) {
	m := sampleModel(t)

	tests := []struct {
		table string
		want  []string
		found bool
	}{
		{table: "parts", want: []string{"label"}, found: true},
		{table: "stock_item_configs", want: []string{"storage_site_id", "part_id"}, found: true},
		{table: "stock_entries", want: []string{"storage_area_id", "part_id"}, found: true},
		{table: "prices", want: []string{}, found: true},
		{table: "part_categories"},
		{table: "part"},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			got, ok := m.UniqueColumns(tt.table)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestUniqueColumnsDeduplicated(t *testing.T) {
	ps := priceSellerEntity()
	ps.Attributes[1].Unique = true
	ps.UniqueConstraints = append(ps.UniqueConstraints, UniqueConstraint{Attributes: []string{"value", "seller"}})

	m, err := Build(tenant, []Entity{partEntity(), ps}, []Relation{pricedBySellerRelation()})
	require.NoError(t, err)

	got, ok := m.UniqueColumns("prices_seller")
	require.True(t, ok)
	assert.Equal(t, []string{"seller", "part_id", "value"}, got)
}
