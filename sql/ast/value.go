package ast

import (
	"strconv"
	"strings"
)

// Value is the value side of a WITH option.
type Value interface {
	isValue()
	String() string
}

type (
	// String is a quoted string literal
	String string
	// Number is a numeric literal, kept in its textual form
	Number string
	// Boolean is a TRUE/FALSE literal
	Boolean bool
	// Array is a bracketed list of values
	Array []Value
	// Secret references a catalog secret by its id
	Secret struct {
		ID string
	}
)

func (String) isValue()  {}
func (Number) isValue()  {}
func (Boolean) isValue() {}
func (Array) isValue()   {}
func (Secret) isValue()  {}

func (s String) String() string { return string(s) }
func (n Number) String() string { return string(n) }
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }
func (s Secret) String() string { return "SECRET " + s.ID }

func (a Array) String() string {
	parts := make([]string, len(a))
	for i := range a {
		parts[i] = a[i].String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// NumberFromInt returns the numeric literal of n.
func NumberFromInt(n int64) Number {
	return Number(strconv.FormatInt(n, 10))
}

func cloneValue(v Value) Value {
	a, ok := v.(Array)
	if !ok {
		return v
	}
	c := make(Array, len(a))
	for i := range a {
		c[i] = cloneValue(a[i])
	}
	return c
}
