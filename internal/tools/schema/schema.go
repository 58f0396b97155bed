package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the JSON type a field accepts.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindArray  Kind = "array"
	KindObject Kind = "object"
)

// Field describes a single named argument of a tool.
//
// Constraints only apply to the kinds they make sense for: length and enum
// constraints to strings, Minimum/Maximum to numbers, item constraints to
// arrays and Properties to objects. Check reports descriptors that mix them.
type Field struct {
	Name        string
	Kind        Kind
	Required    bool
	Description string

	// String constraints. MinLength == MaxLength means a fixed length.
	MinLength *int
	MaxLength *int
	Enum      []string

	// Number constraints (inclusive).
	Minimum *float64
	Maximum *float64

	// Array constraints. Items describes each element, which must be an object.
	MinItems *int
	MaxItems *int
	Items    *Schema

	// Properties describes the members of an object field.
	Properties *Schema
}

// Schema is the ordered set of fields a tool accepts.
type Schema struct {
	Fields []Field
}

// New returns a schema with the given fields in declaration order.
func New(fields ...Field) Schema {
	return Schema{Fields: fields}
}

// Field returns the descriptor named name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RequiredFields returns the names of all required fields in declaration order.
func (s Schema) RequiredFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Check verifies the schema itself is well formed: unique non-empty names,
// known kinds, constraints matching the kind and consistent bounds.
func (s Schema) Check() error {
	var errs []error
	s.check("", &errs)
	return errors.Join(errs...)
}

func (s Schema) check(prefix string, errs *[]error) {
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		path := prefix + f.Name
		if strings.TrimSpace(f.Name) == "" {
			*errs = append(*errs, fmt.Errorf("%sfield with empty name", prefix))
			continue
		}
		if seen[f.Name] {
			*errs = append(*errs, fmt.Errorf("%s: duplicate field", path))
		}
		seen[f.Name] = true

		switch f.Kind {
		case KindString, KindNumber, KindArray, KindObject:
		default:
			*errs = append(*errs, fmt.Errorf("%s: unknown kind %q", path, f.Kind))
			continue
		}

		if f.Kind != KindString && (f.MinLength != nil || f.MaxLength != nil || len(f.Enum) > 0) {
			*errs = append(*errs, fmt.Errorf("%s: length and enum constraints require kind string", path))
		}
		if f.Kind != KindNumber && (f.Minimum != nil || f.Maximum != nil) {
			*errs = append(*errs, fmt.Errorf("%s: numeric bounds require kind number", path))
		}
		if f.Kind != KindArray && (f.MinItems != nil || f.MaxItems != nil || f.Items != nil) {
			*errs = append(*errs, fmt.Errorf("%s: item constraints require kind array", path))
		}
		if f.Kind != KindObject && f.Properties != nil {
			*errs = append(*errs, fmt.Errorf("%s: properties require kind object", path))
		}

		if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
			*errs = append(*errs, fmt.Errorf("%s: minLength %d exceeds maxLength %d", path, *f.MinLength, *f.MaxLength))
		}
		if f.Minimum != nil && f.Maximum != nil && *f.Minimum > *f.Maximum {
			*errs = append(*errs, fmt.Errorf("%s: minimum %v exceeds maximum %v", path, *f.Minimum, *f.Maximum))
		}
		if f.MinItems != nil && f.MaxItems != nil && *f.MinItems > *f.MaxItems {
			*errs = append(*errs, fmt.Errorf("%s: minItems %d exceeds maxItems %d", path, *f.MinItems, *f.MaxItems))
		}
		if negative(f.MinLength) || negative(f.MaxLength) || negative(f.MinItems) || negative(f.MaxItems) {
			*errs = append(*errs, fmt.Errorf("%s: negative bound", path))
		}

		if f.Items != nil {
			f.Items.check(path+"[].", errs)
		}
		if f.Properties != nil {
			f.Properties.check(path+".", errs)
		}
	}
}

func negative(v *int) bool {
	return v != nil && *v < 0
}

// Int returns a pointer to v, for use in Field constraint literals.
func Int(v int) *int {
	return &v
}

// Float returns a pointer to v, for use in Field constraint literals.
func Float(v float64) *float64 {
	return &v
}
