package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNames(t *testing.T) {
	tests := []struct {
		name      string
		typeName  string
		fieldName string
		title     string
	}{
		{name: "sampleperry:stock_item_config", typeName: "SampleperryStockItemConfig", fieldName: "sampleperry_stock_item_config", title: "Stock Item Config"},
		{name: "part", typeName: "Part", fieldName: "part", title: "Part"},
		{name: "storage_site_id", typeName: "StorageSiteId", fieldName: "storage_site_id", title: "Storage Site Id"},
		{name: "storageSiteId", typeName: "StorageSiteId", fieldName: "storage_site_id", title: "Storage Site Id"},
		{name: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typeName, TypeName(tt.name))
			assert.Equal(t, tt.fieldName, FieldName(tt.name))
			assert.Equal(t, tt.title, Title(tt.name))
		})
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "parts", Plural("part"))
	assert.Equal(t, "categories", Plural("sampleperry:category"))
	assert.Equal(t, "stock_entries", Plural("stock_entry"))
}
