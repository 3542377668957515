// Package schema describes the accepted shape of a sales transaction as a
// static, JSON-Schema shaped data structure.
package schema

import "encoding/json"

// JSON Schema type names.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
)

// FormatDateTime is an annotation; validators do not assert it.
const FormatDateTime = "date-time"

const draft07 = "http://json-schema.org/draft-07/schema#"

// Schema is one node of a schema tree. Order lists property names in the
// order validators visit them; it always matches the keys of Properties.
type Schema struct {
	Type       string             `json:"type"`
	Format     string             `json:"format,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Order      []string           `json:"-"`
	Required   []string           `json:"required,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Minimum    *float64           `json:"minimum,omitempty"`
}

// Field is a named property of an object schema.
type Field struct {
	Name     string
	Schema   *Schema
	Required bool
}

// Required declares a property that must be present.
func Required(name string, s *Schema) Field {
	return Field{Name: name, Schema: s, Required: true}
}

// Optional declares a property that may be absent.
func Optional(name string, s *Schema) Field {
	return Field{Name: name, Schema: s}
}

// Object builds an object schema from fields, keeping their declaration order.
func Object(fields ...Field) *Schema {
	s := &Schema{
		Type:       TypeObject,
		Properties: make(map[string]*Schema, len(fields)),
		Order:      make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		s.Properties[f.Name] = f.Schema
		s.Order = append(s.Order, f.Name)
		if f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

// Array builds an array schema whose elements must match items.
func Array(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

func String() *Schema  { return &Schema{Type: TypeString} }
func Number() *Schema  { return &Schema{Type: TypeNumber} }
func Integer() *Schema { return &Schema{Type: TypeInteger} }

// Min sets an inclusive lower bound on a numeric schema.
func (s *Schema) Min(v float64) *Schema {
	s.Minimum = &v
	return s
}

// WithFormat attaches a format annotation.
func (s *Schema) WithFormat(format string) *Schema {
	s.Format = format
	return s
}

// Document renders the schema as a standalone draft-07 JSON Schema document.
func (s *Schema) Document() ([]byte, error) {
	return json.Marshal(struct {
		Dialect string `json:"$schema"`
		*Schema
	}{Dialect: draft07, Schema: s})
}
