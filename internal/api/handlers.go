package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/tenantschema/internal/jsonschema"
	"github.com/tordrt/tenantschema/internal/model"
	"github.com/tordrt/tenantschema/internal/naming"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	URN   string `json:"urn,omitempty"`
}

// HealthHandler reports that the server is up.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// SQLHandler compiles the body and returns the DDL statements.
func SQLHandler() gin.HandlerFunc {
	return withModel(func(c *gin.Context, m *model.Model) {
		c.JSON(http.StatusOK, gin.H{"statements": m.GenerateSQL()})
	})
}

// SchemasHandler returns the JSON Schema of every entity and relation.
func SchemasHandler() gin.HandlerFunc {
	return withModel(func(c *gin.Context, m *model.Model) {
		docs, err := m.JSONSchemas()
		if err != nil {
			abortModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"schemas": docs})
	})
}

// EntitySchemaHandler validates one entity record and returns its document.
func EntitySchemaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var e model.Entity
		if !bind(c, &e) {
			return
		}
		if err := e.Validate(); err != nil {
			abortModelError(c, err)
			return
		}
		doc, err := e.JSONSchema()
		if err != nil {
			abortModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

// RelationSchemaHandler validates one relation record and returns its document.
func RelationSchemaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var r model.Relation
		if !bind(c, &r) {
			return
		}
		if err := r.Validate(); err != nil {
			abortModelError(c, err)
			return
		}
		doc, err := r.JSONSchema()
		if err != nil {
			abortModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

// TablesHandler lists every table of the model and which of them are join tables.
func TablesHandler() gin.HandlerFunc {
	return withModel(func(c *gin.Context, m *model.Model) {
		var joins []string
		for _, name := range m.TableNames() {
			if m.IsJoinTable(name) {
				joins = append(joins, name)
			}
		}
		if joins == nil {
			joins = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"tables": m.TableNames(), "join_tables": joins})
	})
}

// UniqueColumnsHandler lists the unique columns of the entity table :name.
func UniqueColumnsHandler() gin.HandlerFunc {
	return withModel(func(c *gin.Context, m *model.Model) {
		name := c.Param("name")
		cols, ok := m.UniqueColumns(name)
		if !ok {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "no entity table named " + name,
				Kind:  model.NotFound.String(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"columns": cols})
	})
}

// ResolveHandler maps :name to its singular or plural form.
func ResolveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var resolve func(*model.Model, string) (string, error)
		switch form := c.Param("form"); form {
		case "singular":
			resolve = (*model.Model).ResolveSingular
		case "plural":
			resolve = (*model.Model).ResolvePlural
		default:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "form must be singular or plural, got " + form})
			return
		}

		withModel(func(c *gin.Context, m *model.Model) {
			name, err := resolve(m, c.Param("name"))
			if err != nil {
				abortModelError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"name": name})
		})(c)
	}
}

// NamingHandler returns the GraphQL type and field names of :name.
func NamingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		c.JSON(http.StatusOK, gin.H{
			"type_name":  naming.TypeName(name),
			"field_name": naming.FieldName(name),
		})
	}
}

// withModel binds the body as an input tree, builds the model and hands it
// to next. Build failures end the request.
func withModel(next func(*gin.Context, *model.Model)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var spec model.Spec
		if !bind(c, &spec) {
			return
		}
		m, err := model.FromSpec(spec)
		if err != nil {
			abortModelError(c, err)
			return
		}
		next(c, m)
	}
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid json: " + err.Error()})
		return false
	}
	return true
}

// abortModelError maps model errors to 422 and NotFound to 404.
func abortModelError(c *gin.Context, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var me *model.Error
	switch {
	case errors.As(err, &me):
		resp.Kind = me.Kind.String()
		resp.URN = me.URN
	case errors.Is(err, jsonschema.ErrDuplicateProperty):
		resp.Kind = "duplicate property"
	default:
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	status := http.StatusUnprocessableEntity
	if me != nil && me.Kind == model.NotFound {
		status = http.StatusNotFound
	}
	c.JSON(status, resp)
}
