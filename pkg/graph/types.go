package graph

import (
	"fmt"
	"strconv"
)

// ValueType represents the type of a flat attribute value
type ValueType uint8

const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
	TypeBool
)

// Value is a typed attribute value. The persisted graph format only allows
// flat string/number attributes, so nested structures never appear here.
type Value struct {
	Type ValueType
	str  string
	num  float64
	i    int64
	b    bool
}

// Helper functions to create typed values
func StringValue(s string) Value {
	return Value{Type: TypeString, str: s}
}

func IntValue(i int64) Value {
	return Value{Type: TypeInt, i: i}
}

func FloatValue(f float64) Value {
	return Value{Type: TypeFloat, num: f}
}

func BoolValue(b bool) Value {
	return Value{Type: TypeBool, b: b}
}

// AsString returns the string payload
func (v Value) AsString() (string, error) {
	if v.Type != TypeString {
		return "", fmt.Errorf("value is not a string")
	}
	return v.str, nil
}

// AsInt returns the integer payload
func (v Value) AsInt() (int64, error) {
	if v.Type != TypeInt {
		return 0, fmt.Errorf("value is not an int")
	}
	return v.i, nil
}

// AsFloat returns the float payload
func (v Value) AsFloat() (float64, error) {
	if v.Type != TypeFloat {
		return 0, fmt.Errorf("value is not a float")
	}
	return v.num, nil
}

// AsBool returns the bool payload
func (v Value) AsBool() (bool, error) {
	if v.Type != TypeBool {
		return false, fmt.Errorf("value is not a bool")
	}
	return v.b, nil
}

// String renders the value for serialization
func (v Value) String() string {
	switch v.Type {
	case TypeString:
		return v.str
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case TypeBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// GraphMLType returns the GraphML attr.type keyword for the value
func (v Value) GraphMLType() string {
	switch v.Type {
	case TypeInt:
		return "long"
	case TypeFloat:
		return "double"
	case TypeBool:
		return "boolean"
	default:
		return "string"
	}
}
