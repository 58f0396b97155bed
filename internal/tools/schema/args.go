package schema

import "fmt"

// Args is a validated argument mapping. Only fields declared in the schema
// are present; numbers are float64 and arrays of objects hold Args values.
type Args map[string]any

// Has reports whether the argument was supplied.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns the string argument key, or "" if it is absent.
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// OptionalString returns the string argument key and whether it was supplied.
func (a Args) OptionalString(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// Number returns the numeric argument key and whether it was supplied.
func (a Args) Number(key string) (float64, bool) {
	n, ok := a[key].(float64)
	return n, ok
}

// Objects returns the array-of-objects argument key.
func (a Args) Objects(key string) ([]Args, error) {
	raw, ok := a[key]
	if !ok {
		return nil, fmt.Errorf("%s is required", key)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array", key)
	}
	out := make([]Args, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case Args:
			out = append(out, v)
		case map[string]any:
			out = append(out, Args(v))
		default:
			return nil, fmt.Errorf("%s[%d] must be an object", key, i)
		}
	}
	return out, nil
}
