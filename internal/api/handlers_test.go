package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/tenantschema/internal/model"
)

func catalogBody(t *testing.T) []byte {
	t.Helper()
	spec, err := model.LoadFile(filepath.Join("..", "model", "testdata", "catalog.yaml"))
	require.NoError(t, err)
	body, err := json.Marshal(spec)
	require.NoError(t, err)
	return body
}

func do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(zerolog.Nop())
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestSQLHandler(t *testing.T) {
	w := do(t, http.MethodPost, "/v1/sql", catalogBody(t))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Statements []string `json:"statements"`
	}](t, w)
	require.Len(t, resp.Statements, 9)
	assert.True(t, strings.HasPrefix(resp.Statements[0], "CREATE TABLE parts("))
	assert.True(t, strings.HasPrefix(resp.Statements[8], "CREATE TABLE part_categories("))
}

func TestSchemasHandler(t *testing.T) {
	w := do(t, http.MethodPost, "/v1/schemas", catalogBody(t))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Schemas []map[string]any `json:"schemas"`
	}](t, w)
	require.Len(t, resp.Schemas, 7)
	assert.Equal(t, "sampleperry:part", resp.Schemas[0]["$id"])
	assert.Equal(t, "sampleperry:categorisedby", resp.Schemas[4]["$id"])
}

func TestEntitySchemaHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantKind string
		wantURN  string
	}{
		{
			name: "valid",
			body: `{"id":1,"urn":"t:part","singular":"part","plural":"parts","name":"Part",
				"visibility":"Tenant","attributes":[{"id":"label","name":"Label","required":true,"type":"string"}]}`,
			wantCode: http.StatusOK,
		},
		{
			name: "reserved attribute",
			body: `{"id":1,"urn":"t:part","singular":"part","plural":"parts","name":"Part",
				"visibility":"Tenant","attributes":[{"id":"rev","name":"Rev","type":"integer"}]}`,
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "reserved identifier",
			wantURN:  "t:part",
		},
		{
			name: "duplicate attribute",
			body: `{"id":1,"urn":"t:part","singular":"part","plural":"parts","name":"Part",
				"visibility":"Tenant","attributes":[{"id":"a","name":"A","type":"string"},{"id":"a","name":"A","type":"bool"}]}`,
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "duplicate property",
		},
		{
			name:     "malformed",
			body:     `{"id":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown attribute type",
			body:     `{"urn":"t:part","attributes":[{"id":"a","type":"blob"}]}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, http.MethodPost, "/v1/schemas/entity", []byte(tt.body))
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantKind != "" {
				resp := decode[ErrorResponse](t, w)
				assert.Equal(t, tt.wantKind, resp.Kind)
				assert.Equal(t, tt.wantURN, resp.URN)
			}
		})
	}
}

func TestRelationSchemaHandler(t *testing.T) {
	body := `{"id":5,"urn":"t:categorisedby","name":"Categorised By","visibility":"Tenant",
		"origin":"t:part","destination":"t:category","cardinality":"ManyToMany",
		"attributes":[{"id":"weight","name":"Weight","type":"real"}]}`

	w := do(t, http.MethodPost, "/v1/schemas/relation", []byte(body))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[map[string]any](t, w)
	assert.Equal(t, []any{"part_id", "category_id"}, resp["required"])
	props := resp["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": []any{"number", "null"}}, props["weight"])
}

func TestRelationSchemaHandler_NamespaceMismatch(t *testing.T) {
	body := `{"urn":"t:rel","origin":"other:part","destination":"t:category","cardinality":"OneToMany"}`

	w := do(t, http.MethodPost, "/v1/schemas/relation", []byte(body))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "namespace mismatch", decode[ErrorResponse](t, w).Kind)
}

func TestTablesHandler(t *testing.T) {
	w := do(t, http.MethodPost, "/v1/tables", catalogBody(t))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Tables     []string `json:"tables"`
		JoinTables []string `json:"join_tables"`
	}](t, w)
	assert.Equal(t, []string{"parts", "categories", "prices", "prices_seller", "part_categories"}, resp.Tables)
	assert.Equal(t, []string{"part_categories"}, resp.JoinTables)
}

func TestUniqueColumnsHandler(t *testing.T) {
	tests := []struct {
		table    string
		wantCode int
		want     []string
	}{
		{"prices_seller", http.StatusOK, []string{"seller", "part_id"}},
		{"parts", http.StatusOK, []string{"label"}},
		{"prices", http.StatusOK, []string{}},
		{"part_categories", http.StatusNotFound, nil},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			w := do(t, http.MethodPost, "/v1/tables/"+tt.table+"/unique", catalogBody(t))
			require.Equal(t, tt.wantCode, w.Code)
			if tt.want != nil {
				resp := decode[struct {
					Columns []string `json:"columns"`
				}](t, w)
				assert.Equal(t, tt.want, resp.Columns)
			}
		})
	}
}

func TestResolveHandler(t *testing.T) {
	tests := []struct {
		path     string
		wantCode int
		want     string
	}{
		{"/v1/resolve/singular/categories", http.StatusOK, "category"},
		{"/v1/resolve/singular/category", http.StatusOK, "category"},
		{"/v1/resolve/plural/part", http.StatusOK, "parts"},
		{"/v1/resolve/plural/widgets", http.StatusNotFound, ""},
		{"/v1/resolve/dual/part", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(t, http.MethodPost, tt.path, catalogBody(t))
			require.Equal(t, tt.wantCode, w.Code)
			if tt.want != "" {
				assert.Equal(t, tt.want, decode[map[string]string](t, w)["name"])
			}
		})
	}
}

func TestBuildErrorIs422(t *testing.T) {
	body := `{"tenant":"t","entities":[],"relations":[{"id":1,"urn":"t:rel","origin":"t:a","destination":"t:b","cardinality":"OneToMany"}]}`

	w := do(t, http.MethodPost, "/v1/sql", []byte(body))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, "dangling reference", resp.Kind)
	assert.Equal(t, "t:rel", resp.URN)
}

func TestNamingHandler(t *testing.T) {
	tests := []struct {
		name string
		want map[string]string
	}{
		{name: "priceSeller", want: map[string]string{"type_name": "PriceSeller", "field_name": "price_seller"}},
		{name: "sampleperry:price_seller", want: map[string]string{"type_name": "SampleperryPriceSeller", "field_name": "sampleperry_price_seller"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, http.MethodGet, "/v1/naming/"+tt.name, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, decode[map[string]string](t, w))
		})
	}
}

func TestRequestID(t *testing.T) {
	w := do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)

	id := w.Header().Get(RequestIDHeader)
	_, err := ulid.ParseStrict(id)
	assert.NoError(t, err)

	router := NewRouter(zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	router := NewRouter(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodPost, "/v1/sql", strings.NewReader("not json"))
	router.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/v1/sql", line["path"])
	assert.EqualValues(t, 400, line["status"])
	assert.NotEmpty(t, line["request_id"])
}
