package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Violation is a single constraint a field failed.
type Violation struct {
	// Field is the path of the offending field, e.g. "amount" or "payments[1].lnAddress".
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ValidationError lists every violation found in a set of arguments.
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "invalid arguments: " + strings.Join(parts, "; ")
}

// Fields returns the paths of all violated fields in the order they were found.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Field
	}
	return out
}

// Has reports whether field appears among the violations.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Validate checks raw against s and returns the validated arguments.
//
// All fields are checked before returning; the error, if any, is a
// *ValidationError naming every violated field. Fields not declared in s are
// dropped from the result. Numbers are normalized to float64.
func Validate(raw map[string]any, s Schema) (Args, error) {
	var violations []Violation
	out := validateObject(raw, s, "", &violations)
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return out, nil
}

func validateObject(raw map[string]any, s Schema, prefix string, violations *[]Violation) Args {
	out := make(Args, len(s.Fields))
	for _, f := range s.Fields {
		path := prefix + f.Name
		value, present := raw[f.Name]
		if !present || value == nil {
			if f.Required {
				*violations = append(*violations, Violation{Field: path, Message: "is required"})
			}
			continue
		}
		if v, ok := validateValue(value, f, path, violations); ok {
			out[f.Name] = v
		}
	}
	return out
}

func validateValue(value any, f Field, path string, violations *[]Violation) (any, bool) {
	add := func(format string, args ...any) {
		*violations = append(*violations, Violation{Field: path, Message: fmt.Sprintf(format, args...)})
	}

	switch f.Kind {
	case KindString:
		s, ok := value.(string)
		if !ok {
			add("must be a string")
			return nil, false
		}
		n := utf8.RuneCountInString(s)
		valid := true
		switch {
		case f.MinLength != nil && f.MaxLength != nil && *f.MinLength == *f.MaxLength:
			if n != *f.MinLength {
				add("must be exactly %d characters", *f.MinLength)
				valid = false
			}
		default:
			if f.MinLength != nil && n < *f.MinLength {
				add("must be at least %d characters", *f.MinLength)
				valid = false
			}
			if f.MaxLength != nil && n > *f.MaxLength {
				add("must be at most %d characters", *f.MaxLength)
				valid = false
			}
		}
		if len(f.Enum) > 0 && !contains(f.Enum, s) {
			add("must be one of: %s", strings.Join(f.Enum, ", "))
			valid = false
		}
		return s, valid

	case KindNumber:
		n, ok := toFloat(value)
		if !ok {
			add("must be a number")
			return nil, false
		}
		valid := true
		if f.Minimum != nil && n < *f.Minimum {
			add("must be greater than or equal to %v", *f.Minimum)
			valid = false
		}
		if f.Maximum != nil && n > *f.Maximum {
			add("must be less than or equal to %v", *f.Maximum)
			valid = false
		}
		return n, valid

	case KindArray:
		items, ok := asArray(value)
		if !ok {
			add("must be an array")
			return nil, false
		}
		valid := true
		if f.MinItems != nil && len(items) < *f.MinItems {
			add("must contain at least %d items", *f.MinItems)
			valid = false
		}
		if f.MaxItems != nil && len(items) > *f.MaxItems {
			add("must contain at most %d items", *f.MaxItems)
			valid = false
		}
		if f.Items == nil {
			return items, valid
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			obj, isObj := asObject(item)
			if !isObj {
				*violations = append(*violations, Violation{Field: itemPath, Message: "must be an object"})
				valid = false
				continue
			}
			before := len(*violations)
			args := validateObject(obj, *f.Items, itemPath+".", violations)
			if len(*violations) > before {
				valid = false
			}
			out = append(out, args)
		}
		return out, valid

	case KindObject:
		obj, ok := asObject(value)
		if !ok {
			add("must be an object")
			return nil, false
		}
		if f.Properties == nil {
			return obj, true
		}
		before := len(*violations)
		args := validateObject(obj, *f.Properties, path+".", violations)
		return args, len(*violations) == before
	}

	add("has unsupported kind %q", f.Kind)
	return nil, false
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asArray(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, true
	case []Args:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func asObject(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Args:
		return v, true
	}
	return nil, false
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
