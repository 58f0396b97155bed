// Package schema describes tool arguments and validates raw argument maps
// against those descriptions.
//
// A Schema is an ordered list of Field descriptors (kind plus constraints).
// Validate interprets a Schema against the untyped arguments received from
// the transport and either returns the validated Args or a *ValidationError
// that names every violated field, never only the first one.
//
// The same Schema is exported as a JSON Schema document (JSONSchema,
// MarshalJSON) for tool listings, and Compile checks that exported document
// before a tool is registered.
package schema
