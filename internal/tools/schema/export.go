package schema

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/invopop/jsonschema"
	compiler "github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchema renders the schema as a JSON Schema object document.
// Properties keep their declaration order.
func (s Schema) JSONSchema() *jsonschema.Schema {
	out := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for _, f := range s.Fields {
		out.Properties.Set(f.Name, f.jsonSchema())
		if f.Required {
			out.Required = append(out.Required, f.Name)
		}
	}
	return out
}

func (f Field) jsonSchema() *jsonschema.Schema {
	js := &jsonschema.Schema{
		Type:        string(f.Kind),
		Description: f.Description,
	}

	switch f.Kind {
	case KindString:
		js.MinLength = toUint(f.MinLength)
		js.MaxLength = toUint(f.MaxLength)
		for _, e := range f.Enum {
			js.Enum = append(js.Enum, e)
		}
	case KindNumber:
		js.Minimum = toNumber(f.Minimum)
		js.Maximum = toNumber(f.Maximum)
	case KindArray:
		js.MinItems = toUint(f.MinItems)
		js.MaxItems = toUint(f.MaxItems)
		if f.Items != nil {
			js.Items = f.Items.JSONSchema()
		}
	case KindObject:
		if f.Properties != nil {
			nested := f.Properties.JSONSchema()
			js.Properties = nested.Properties
			js.Required = nested.Required
		}
	}
	return js
}

// MarshalJSON renders the schema as its JSON Schema document.
func (s Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.JSONSchema())
}

// Compile compiles the exported JSON Schema document, proving that what is
// advertised to clients is itself a valid schema.
func (s Schema) Compile() (*compiler.Schema, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	compiled, err := compiler.CompileString("", string(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return compiled, nil
}

func toUint(v *int) *uint64 {
	if v == nil || *v < 0 {
		return nil
	}
	u := uint64(*v)
	return &u
}

func toNumber(v *float64) json.Number {
	if v == nil {
		return ""
	}
	return json.Number(strconv.FormatFloat(*v, 'f', -1, 64))
}
