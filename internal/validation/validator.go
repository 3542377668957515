package validation

import (
	"fmt"
	"math"
	"strconv"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-sales-ingest/internal/schema"
)

// Validator checks decoded JSON values against a schema tree.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	schema *schema.Schema
	bounds *validatorv10.Validate
}

// New returns a validator for sales transactions.
func New() *Validator {
	return NewWithSchema(schema.SalesTransaction())
}

// NewWithSchema returns a validator for an arbitrary schema tree.
func NewWithSchema(s *schema.Schema) *Validator {
	return &Validator{
		schema: s,
		bounds: validatorv10.New(),
	}
}

// Validate reports whether input conforms to the schema. On failure the
// message names the offending field and the violated constraint.
func (v *Validator) Validate(input any) (bool, string) {
	if err := v.Check(input); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// Check is Validate in error form. A non-nil result is always a *Violation.
func (v *Validator) Check(input any) error {
	if vi := v.check("", v.schema, input); vi != nil {
		return vi
	}
	return nil
}

// check walks s and value together and stops at the first violation:
// type first, then required properties, then each declared property in
// order, then the numeric minimum.
func (v *Validator) check(path string, s *schema.Schema, value any) *Violation {
	if !isType(s.Type, value) {
		return violation(path, "%s is not of type '%s'", describe(value), s.Type)
	}

	switch s.Type {
	case schema.TypeObject:
		obj := value.(map[string]any)
		for _, name := range s.Required {
			if _, ok := obj[name]; !ok {
				return violation(path, "'%s' is a required property", name)
			}
		}
		for _, name := range s.Order {
			child, ok := obj[name]
			if !ok {
				continue
			}
			if vi := v.check(join(path, name), s.Properties[name], child); vi != nil {
				return vi
			}
		}

	case schema.TypeArray:
		if s.Items == nil {
			return nil
		}
		for i, el := range value.([]any) {
			if vi := v.check(fmt.Sprintf("%s[%d]", path, i), s.Items, el); vi != nil {
				return vi
			}
		}

	case schema.TypeNumber, schema.TypeInteger:
		if s.Minimum == nil {
			return nil
		}
		n, _ := toFloat(value)
		if err := v.bounds.Var(n, "gte="+formatFloat(*s.Minimum)); err != nil {
			return violation(path, "%s is less than the minimum of %s", describe(value), formatFloat(*s.Minimum))
		}
	}

	return nil
}

func isType(typ string, value any) bool {
	switch typ {
	case schema.TypeObject:
		_, ok := value.(map[string]any)
		return ok
	case schema.TypeArray:
		_, ok := value.([]any)
		return ok
	case schema.TypeString:
		_, ok := value.(string)
		return ok
	case schema.TypeNumber:
		_, ok := toFloat(value)
		return ok
	case schema.TypeInteger:
		f, ok := toFloat(value)
		return ok && f == math.Trunc(f)
	default:
		return false
	}
}

// toFloat accepts the numeric shapes produced by encoding/json (float64 or
// json.Number) plus plain Go numbers from programmatic callers. Booleans,
// NaN and infinities are not numbers.
func toFloat(value any) (float64, bool) {
	var f float64
	switch n := value.(type) {
	case interface{ Float64() (float64, error) }:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
