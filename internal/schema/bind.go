// Package schema binds model supplied arguments to a capability's declared
// JSON schema. It lives in internal to avoid committing to public API
// stability prematurely.
package schema

import (
	"fmt"
	"math"
	"reflect"
	"sort"
)

// ValidationError represents parameter binding errors with detailed information.
type ValidationError struct {
	Field   string `json:"field"`   // Field that failed validation
	Value   any    `json:"value"`   // Value that was provided
	Message string `json:"message"` // Human-readable error message
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Bind checks args against schema and returns a new map with values
// converted to their Go representation:
//
//	integer -> int
//	number  -> float64
//	array   -> []string (items must be strings)
//	object  -> map[string]any
//
// Missing required fields, unknown fields (unless additionalProperties is
// true) and mistyped values yield a *ValidationError. Fields are checked in
// sorted order so the reported error is deterministic.
func Bind(args map[string]any, schema map[string]any) (map[string]any, error) {
	if args == nil {
		args = map[string]any{}
	}

	required := requiredFields(schema)
	isRequired := make(map[string]bool, len(required))
	for _, fieldName := range required {
		isRequired[fieldName] = true
		if _, exists := args[fieldName]; !exists {
			return nil, &ValidationError{
				Field:   fieldName,
				Message: "required field is missing",
			}
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	allowExtra, _ := schema["additionalProperties"].(bool)

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	bound := make(map[string]any, len(args))
	for _, fieldName := range names {
		value := args[fieldName]
		propSchema, exists := properties[fieldName]
		if !exists {
			if allowExtra {
				bound[fieldName] = value
				continue
			}
			return nil, &ValidationError{
				Field:   fieldName,
				Value:   value,
				Message: "unexpected field",
			}
		}

		if value == nil && !isRequired[fieldName] {
			continue // explicit null for an optional field means absent
		}

		propMap, _ := propSchema.(map[string]any)
		expectedType, _ := propMap["type"].(string)

		converted, ok := convert(value, expectedType)
		if !ok {
			return nil, &ValidationError{
				Field:   fieldName,
				Value:   value,
				Message: fmt.Sprintf("expected type %s, got %T", expectedType, value),
			}
		}
		bound[fieldName] = converted
	}

	return bound, nil
}

func requiredFields(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// convert checks value against the expected JSON schema type.
func convert(value any, expectedType string) (any, bool) {
	if value == nil {
		return nil, expectedType == ""
	}

	switch expectedType {
	case "string":
		s, ok := value.(string)
		return s, ok
	case "integer":
		switch v := value.(type) {
		case int:
			return v, true
		case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return toInt(v)
		case float64: // JSON unmarshaling produces float64 for numbers
			if v != math.Trunc(v) || v < float64(math.MinInt) || v >= float64(math.MaxInt) {
				return nil, false
			}
			return int(v), true
		case float32:
			return convert(float64(v), expectedType)
		}
		return nil, false
	case "number":
		switch v := value.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int:
			return float64(v), true
		case int8, int16, int32, int64:
			i, _ := toInt(v)
			return float64(i.(int)), true
		case uint, uint8, uint16, uint32, uint64:
			return float64(reflect.ValueOf(v).Uint()), true
		}
		return nil, false
	case "boolean":
		b, ok := value.(bool)
		return b, ok
	case "array":
		switch v := value.(type) {
		case []string:
			return v, true
		case []any:
			out := make([]string, len(v))
			for i, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, false
				}
				out[i] = s
			}
			return out, true
		}
		return nil, false
	case "object":
		m, ok := value.(map[string]any)
		return m, ok
	default:
		return value, true // Unknown types are assumed valid
	}
}

// toInt widens a sized integer to int. Values outside the int range are
// rejected instead of wrapping.
func toInt(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < math.MinInt || n > math.MaxInt {
			return nil, false
		}
		return int(n), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := rv.Uint()
		if n > math.MaxInt {
			return nil, false
		}
		return int(n), true
	}
	return nil, false
}
