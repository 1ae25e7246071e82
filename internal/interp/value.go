// Package interp provides the tree-walking evaluator and runtime for mscript.
package interp

import "strconv"

// Value represents a runtime value: a scalar (string or number), an array
// node, or an indirect reference stored in an environment slot.
// All runtime values implement this interface.
type Value interface {
	// Type returns the type name of the value (e.g. "STRING", "NUMBER")
	Type() string
	// String returns the string representation of the value
	String() string
}

// StringValue represents a string scalar.
type StringValue struct {
	Value string
}

// Type returns "STRING".
func (s *StringValue) Type() string {
	return "STRING"
}

// String returns the string value itself.
func (s *StringValue) String() string {
	return s.Value
}

// NumberValue represents a numeric scalar (a finite IEEE-754 double).
type NumberValue struct {
	Value float64
}

// Type returns "NUMBER".
func (n *NumberValue) Type() string {
	return "NUMBER"
}

// String returns the canonical decimal rendering of the number: integers
// without a decimal point, otherwise the shortest form that round-trips.
func (n *NumberValue) String() string {
	return formatNumber(n.Value)
}

// RefValue is an indirect reference: a value stored in an environment slot
// that redirects name lookup to another frame and name. By-reference call
// arguments bind these into the callee's frame.
type RefValue struct {
	Frame int // index into the environment stack
	Name  string
}

// Type returns "REFERENCE".
func (r *RefValue) Type() string {
	return "REFERENCE"
}

// String identifies the referenced slot; references are never rendered by
// programs, only by debug output.
func (r *RefValue) String() string {
	return "*" + r.Name + "@" + strconv.Itoa(r.Frame)
}

// Empty is the empty-string scalar, the value of every unset slot.
var Empty = &StringValue{Value: ""}

// Bool returns the numeric truth value: 1 for true, 0 for false.
func Bool(b bool) *NumberValue {
	if b {
		return &NumberValue{Value: 1}
	}
	return &NumberValue{Value: 0}
}

// toScalar collapses a value to its scalar: array nodes yield their
// self-value, or the empty string when they have none.
func toScalar(v Value) Value {
	if v == nil {
		return Empty
	}
	if arr, ok := v.(*ArrayValue); ok {
		if arr.Self != nil {
			return arr.Self
		}
		return Empty
	}
	return v
}
