package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Type defines the contract for parameter validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "integer").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// Described is implemented by types that carry a one-line description.
type Described interface {
	Description() string
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string        { return "string" }
func (t *StringType) Description() string { return "Text value" }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntegerType validates integer values.
type IntegerType struct{}

func (t *IntegerType) Name() string        { return "integer" }
func (t *IntegerType) Description() string { return "Whole number" }

func (t *IntegerType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case float64:
		// JSON and YAML decoders may hand us whole numbers as floats.
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected integer, got float (not a whole number)")
	default:
		return fmt.Errorf("expected integer, got %T", value)
	}
}

// FloatType validates floating-point values.
type FloatType struct{}

func (t *FloatType) Name() string        { return "float" }
func (t *FloatType) Description() string { return "Decimal number" }

func (t *FloatType) Validate(value any) error {
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64:
		return nil
	default:
		return fmt.Errorf("expected float, got %T", value)
	}
}

// BooleanType validates boolean values.
type BooleanType struct{}

func (t *BooleanType) Name() string        { return "boolean" }
func (t *BooleanType) Description() string { return "true or false" }

func (t *BooleanType) Validate(value any) error {
	_, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected boolean, got %T", value)
	}
	return nil
}

// HashType validates nested mappings.
type HashType struct{}

func (t *HashType) Name() string        { return "hash" }
func (t *HashType) Description() string { return "Nested mapping of parameters" }

func (t *HashType) Validate(value any) error {
	if value == nil {
		return fmt.Errorf("expected hash, got nil")
	}
	if reflect.TypeOf(value).Kind() != reflect.Map {
		return fmt.Errorf("expected hash, got %T", value)
	}
	return nil
}

// ArrayType validates sequences, optionally constraining the element type.
type ArrayType struct {
	elemType Type
}

func (t *ArrayType) Name() string {
	if t.elemType == nil {
		return "array"
	}
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *ArrayType) Description() string {
	if t.elemType == nil {
		return "Sequence of values"
	}
	return fmt.Sprintf("Sequence of %s values", t.elemType.Name())
}

func (t *ArrayType) Validate(value any) error {
	if value == nil {
		return fmt.Errorf("expected array, got nil")
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected array, got %T", value)
	}
	if t.elemType == nil {
		return nil
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Integer creates an integer type validator.
func Integer() Type { return &IntegerType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Boolean creates a boolean type validator.
func Boolean() Type { return &BooleanType{} }

// Hash creates a nested mapping validator.
func Hash() Type { return &HashType{} }

// Array creates a sequence validator. A nil element type accepts any elements.
func Array(elemType Type) Type {
	return &ArrayType{elemType: elemType}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// Types returns the catalog of built-in parameter types.
func Types() []Type {
	return []Type{String(), Integer(), Float(), Boolean(), Hash(), Array(nil)}
}

// ParseType converts a type name to a Type.
// Supports "string", "integer", "float", "boolean", "hash", "array" and "[T]".
func ParseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(strings.ToLower(typeStr))

	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemType, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Array(elemType), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "integer", "int":
		return Integer(), nil
	case "float":
		return Float(), nil
	case "boolean", "bool":
		return Boolean(), nil
	case "hash", "object":
		return Hash(), nil
	case "array":
		return Array(nil), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts a map of field names to type strings into a Schema.
// Example: {"segment": "string", "retries": "integer"}
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema)
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[strings.ToLower(key)] = t
	}
	return result, nil
}
