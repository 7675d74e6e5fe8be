package tool

import (
	"fmt"
)

// ParamType enumerates the argument types a capability may declare.
type ParamType string

const (
	// String is a JSON string.
	String ParamType = "string"
	// Number is a JSON number bound as float64.
	Number ParamType = "number"
	// Integer is a whole JSON number bound as int.
	Integer ParamType = "integer"
	// Boolean is a JSON boolean.
	Boolean ParamType = "boolean"
	// StringArray is a JSON array of strings bound as []string.
	StringArray ParamType = "array"
	// Object is a JSON object bound as map[string]any.
	Object ParamType = "object"
)

// Valid reports whether t is a supported parameter type.
func (t ParamType) Valid() bool {
	switch t {
	case String, Number, Integer, Boolean, StringArray, Object:
		return true
	}
	return false
}

// Parameter declares a single named argument.
type Parameter struct {
	Name        string
	Type        ParamType
	Description string
	Optional    bool // Parameters are required unless marked optional
}

// Schema is the explicit, static parameter declaration of a capability.
type Schema struct {
	Parameters []Parameter
}

// NewSchema builds a schema from parameters.
func NewSchema(params ...Parameter) Schema { return Schema{Parameters: params} }

// Validate checks names are present and unique and types are supported.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Parameters))
	for _, p := range s.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter without name")
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate parameter %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if !p.Type.Valid() {
			return fmt.Errorf("parameter %q has unsupported type %q", p.Name, p.Type)
		}
	}
	return nil
}

// JSONSchema renders the object schema sent to the model transport.
func (s Schema) JSONSchema() map[string]any {
	properties := make(map[string]any, len(s.Parameters))
	required := make([]string, 0, len(s.Parameters))

	for _, p := range s.Parameters {
		prop := map[string]any{"type": string(p.Type)}
		if p.Type == StringArray {
			prop["items"] = map[string]any{"type": "string"}
		}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
		if !p.Optional {
			required = append(required, p.Name)
		}
	}

	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

// Args holds bound arguments. Accessors return the zero value when the
// argument is absent (only possible for optional parameters).
type Args map[string]any

// Float returns a number argument.
func (a Args) Float(name string) float64 {
	v, _ := a[name].(float64)
	return v
}

// Int returns an integer argument.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// String returns a string argument.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Bool returns a boolean argument.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// Strings returns an array-of-string argument.
func (a Args) Strings(name string) []string {
	v, _ := a[name].([]string)
	return v
}

// Object returns an object argument.
func (a Args) Object(name string) map[string]any {
	v, _ := a[name].(map[string]any)
	return v
}

// Has reports whether the argument was supplied.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}
