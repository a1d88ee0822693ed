// Package schema defines ordered argument schemas for tools and validates
// raw tool-call arguments against them. Argument declaration order is
// preserved both for prompt rendering and for error reporting.
package schema

import (
	"fmt"
	"sort"
)

// Type identifies the expected JSON type of an argument.
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeNumber Type = "number"
	TypeBool   Type = "bool"
	TypeObject Type = "object"
	TypeArray  Type = "array"
)

// Argument describes a single tool argument.
type Argument struct {
	Name        string
	Type        Type
	Required    bool
	Description string
}

// Schema is an ordered list of argument specs. Build it with Add; the
// declaration order is preserved for rendering and validation.
type Schema struct {
	args  []Argument
	index map[string]int
}

// New creates an empty schema.
func New() *Schema {
	return &Schema{index: make(map[string]int)}
}

// Add appends an argument spec in declaration order and returns the schema
// for fluent chaining. Adding a duplicate name panics; schemas are built
// statically at tool construction time, so this is a programming error.
func (s *Schema) Add(name string, typ Type, required bool, description string) *Schema {
	if _, exists := s.index[name]; exists {
		panic(fmt.Sprintf("schema: duplicate argument %q", name))
	}
	s.index[name] = len(s.args)
	s.args = append(s.args, Argument{
		Name:        name,
		Type:        typ,
		Required:    required,
		Description: description,
	})
	return s
}

// Arguments returns the argument specs in declaration order.
// The returned slice must not be modified.
func (s *Schema) Arguments() []Argument {
	return s.args
}

// Len returns the number of declared arguments.
func (s *Schema) Len() int {
	return len(s.args)
}

// Validate checks raw arguments against the schema. It returns the validated
// arguments on success, or a *ValidationError enumerating every missing,
// mistyped, and unexpected field, in declaration order, never just the first.
func (s *Schema) Validate(raw map[string]any) (map[string]any, error) {
	verr := &ValidationError{}
	validated := make(map[string]any, len(raw))

	for _, arg := range s.args {
		value, present := raw[arg.Name]
		if !present {
			if arg.Required {
				verr.addf("missing required argument %q (%s)", arg.Name, arg.Type)
			}
			continue
		}
		coerced, err := coerce(value, arg.Type)
		if err != nil {
			verr.addf("argument %q: %v", arg.Name, err)
			continue
		}
		validated[arg.Name] = coerced
	}

	var unknown []string
	for name := range raw {
		if _, declared := s.index[name]; !declared {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		verr.addf("unexpected argument %q", name)
	}

	if len(verr.Problems) > 0 {
		return nil, verr
	}
	return validated, nil
}

// coerce checks a decoded JSON value against the expected type. Integers
// arrive as float64 from encoding/json; integral floats are accepted for
// TypeInt and returned as int.
func coerce(value any, typ Type) (any, error) {
	switch typ {
	case TypeString:
		v, ok := value.(string)
		if !ok {
			return nil, typeError(typ, value)
		}
		return v, nil
	case TypeInt:
		switch v := value.(type) {
		case float64:
			if v != float64(int64(v)) {
				return nil, fmt.Errorf("expected int, got non-integer number %v", v)
			}
			return int(v), nil
		case int:
			return v, nil
		}
		return nil, typeError(typ, value)
	case TypeNumber:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
		return nil, typeError(typ, value)
	case TypeBool:
		v, ok := value.(bool)
		if !ok {
			return nil, typeError(typ, value)
		}
		return v, nil
	case TypeObject:
		v, ok := value.(map[string]any)
		if !ok {
			return nil, typeError(typ, value)
		}
		return v, nil
	case TypeArray:
		v, ok := value.([]any)
		if !ok {
			return nil, typeError(typ, value)
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown argument type %q", typ)
}

func typeError(expected Type, got any) error {
	return fmt.Errorf("expected %s, got %s", expected, jsonTypeName(got))
}

// jsonTypeName names a decoded JSON value's type the way the model sees it.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, int:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}
