package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/tenantschema/internal/schema"
)

func testSchema() *schema.Schema {
	parts := schema.NewBaseTable("parts")
	parts.Comment = "Part"
	label := schema.NewColumn("label", schema.Text)
	label.NotNull = true
	label.IsUnique = true
	parts.Columns = append(parts.Columns, label)
	parts.Triggers = []schema.Trigger{schema.NewUpdateTrigger("parts")}

	joins := schema.Table{
		Name: "part_categories",
		Columns: []schema.Column{
			{Name: "part_id", Type: "INTEGER", NotNull: true},
		},
		ForeignKeys: []schema.ForeignKey{
			{SourceColumn: "part_id", TargetTable: "parts", TargetColumn: "id", OnDeleteCascade: true},
		},
		Uniques: []schema.Unique{{Columns: []string{"part_id"}}},
	}
	return &schema.Schema{Tables: []schema.Table{parts, joins}}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(&buf).Format(testSchema()))

	want := `TABLE parts (PK: id) -- Part
  id: INTEGER PK AUTOINCREMENT
  created_at: DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
  updated_at: DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
  label: TEXT UNIQUE NOT NULL

  TRIGGERS:
    parts_updated_at: updated_at = CURRENT_TIMESTAMP on update

TABLE part_categories
  part_id: INTEGER NOT NULL

  REFERENCES:
    part_id → parts.id (ON DELETE CASCADE)

  UNIQUE:
    (part_id)
`
	assert.Equal(t, want, buf.String())
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf).Format(testSchema()))

	out := buf.String()
	assert.Contains(t, out, "# Database Schema\n\n## parts\n\n_Part_\n\n### Columns\n\n")
	assert.Contains(t, out, "- **id:** INTEGER, PK, AUTOINCREMENT\n")
	assert.Contains(t, out, "- **label:** TEXT, UNIQUE, NOT NULL\n")
	assert.Contains(t, out, "- `parts_updated_at` sets updated_at to CURRENT_TIMESTAMP after update\n")
	// Tables without a comment get a title from their name.
	assert.Contains(t, out, "## part_categories\n\n_Part Categories_\n\n")
	assert.Contains(t, out, "### References\n\n- part_id → parts.id (ON DELETE CASCADE)\n")
	assert.Contains(t, out, "### Unique\n\n- (part_id)\n")
}

func TestMultiFileFormatter(t *testing.T) {
	tests := []struct {
		format   string
		ext      string
		overview string
		incoming string
	}{
		{
			format:   FormatMarkdown,
			ext:      ".md",
			overview: "- **part_categories** (references: parts)\n- **parts**\n",
			incoming: "### Referenced by\n\n- part_categories.part_id → id\n",
		},
		{
			format:   FormatText,
			ext:      ".txt",
			overview: "part_categories (references: parts)\nparts\n",
			incoming: "  REFERENCED BY:\n    part_categories.part_id → id\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "docs")
			require.NoError(t, NewMultiFileFormatter(dir, tt.format, 2).Format(testSchema()))

			overview, err := os.ReadFile(filepath.Join(dir, "_overview"+tt.ext))
			require.NoError(t, err)
			assert.Contains(t, string(overview), tt.overview)

			parts, err := os.ReadFile(filepath.Join(dir, "parts"+tt.ext))
			require.NoError(t, err)
			assert.Contains(t, string(parts), tt.incoming)

			_, err = os.Stat(filepath.Join(dir, "part_categories"+tt.ext))
			assert.NoError(t, err)
		})
	}
}
