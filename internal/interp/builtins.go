package interp

import (
	"github.com/Zorbn/mscript/pkg/ast"
)

// evalBuiltin dispatches an intrinsic function call. Arity was enforced at
// parse time.
func (i *Interp) evalBuiltin(call *ast.BuiltinCall) (Value, bool) {
	switch call.Name {
	case "order":
		return i.evalOrder(call)
	case "length":
		return i.evalLength(call)
	case "extract":
		return i.evalExtract(call)
	case "find":
		return i.evalFind(call)
	case "random":
		return i.evalRandom(call)
	case "ascii":
		return i.evalAscii(call)
	case "char":
		return i.evalChar(call)
	}

	i.runtimeError(call, "Unimplemented builtin $"+call.Name)
	return nil, false
}

// evalOrder returns the next (or, with direction -1, previous) child key of
// the parent array after the key given by the variable's final subscript.
// The empty string marks either end of the key sequence. A parent that is
// not an array yields "".
func (i *Interp) evalOrder(call *ast.BuiltinCall) (Value, bool) {
	v, isVar := call.Args[0].(*ast.VariableExpression)
	if !isVar {
		i.runtimeError(call, "Expected a variable as the first argument of $order")
		return nil, false
	}

	dir := 1.0
	if len(call.Args) == 2 {
		d, ok := i.evalExpression(call.Args[1])
		if !ok {
			return nil, false
		}
		dir = ToNumber(d)
		if dir != 1 && dir != -1 {
			i.runtimeError(call, "Invalid direction for $order")
			return nil, false
		}
	}

	if len(v.Subscripts) == 0 {
		// No parent array to traverse.
		return Empty, true
	}

	ref, ok := i.resolveName(v.Name, v)
	if !ok {
		return nil, false
	}
	cur, exists := i.refGet(ref)

	// Walk down to the parent of the final subscript.
	for _, sub := range v.Subscripts[:len(v.Subscripts)-1] {
		if !exists {
			return Empty, true
		}
		node, isArr := cur.(*ArrayValue)
		if !isArr {
			return Empty, true
		}
		subVal, ok := i.evalExpression(sub)
		if !ok {
			return nil, false
		}
		cur, exists = node.Get(ToString(subVal))
	}

	if !exists {
		return Empty, true
	}
	parent, isArr := cur.(*ArrayValue)
	if !isArr {
		return Empty, true
	}

	// The final subscript is the traversal key; "" starts from either end.
	keyVal, ok := i.evalExpression(v.Subscripts[len(v.Subscripts)-1])
	if !ok {
		return nil, false
	}
	key := ToString(keyVal)

	if dir == 1 {
		return &StringValue{Value: parent.NextKey(key)}, true
	}
	return &StringValue{Value: parent.PrevKey(key)}, true
}

// evalLength returns the length of the scalar's string form in code points.
func (i *Interp) evalLength(call *ast.BuiltinCall) (Value, bool) {
	v, ok := i.evalExpression(call.Args[0])
	if !ok {
		return nil, false
	}
	n := 0
	for range ToString(v) {
		n++
	}
	return &NumberValue{Value: float64(n)}, true
}

// evalExtract returns a substring: the first code point with one argument,
// the n-th with two, and the inclusive 1-based range [a, b] with three,
// clamped to the string.
func (i *Interp) evalExtract(call *ast.BuiltinCall) (Value, bool) {
	v, ok := i.evalExpression(call.Args[0])
	if !ok {
		return nil, false
	}
	runes := []rune(ToString(v))

	start := 1
	if len(call.Args) >= 2 {
		sv, ok := i.evalExpression(call.Args[1])
		if !ok {
			return nil, false
		}
		start = int(ToNumber(sv))
	}
	end := start
	if len(call.Args) == 3 {
		ev, ok := i.evalExpression(call.Args[2])
		if !ok {
			return nil, false
		}
		end = int(ToNumber(ev))
	}

	if start < 1 {
		start = 1
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start > end {
		return Empty, true
	}
	return &StringValue{Value: string(runes[start-1 : end])}, true
}

// evalFind returns the 1-based position after the first occurrence of the
// needle at or after start, 0 when absent. An empty needle always finds at
// position 1.
func (i *Interp) evalFind(call *ast.BuiltinCall) (Value, bool) {
	hayV, ok := i.evalExpression(call.Args[0])
	if !ok {
		return nil, false
	}
	needleV, ok := i.evalExpression(call.Args[1])
	if !ok {
		return nil, false
	}

	start := 1
	if len(call.Args) == 3 {
		sv, ok := i.evalExpression(call.Args[2])
		if !ok {
			return nil, false
		}
		start = int(ToNumber(sv))
	}
	if start < 1 {
		start = 1
	}

	needle := []rune(ToString(needleV))
	if len(needle) == 0 {
		return &NumberValue{Value: 1}, true
	}
	hay := []rune(ToString(hayV))

	for idx := start - 1; idx+len(needle) <= len(hay); idx++ {
		if string(hay[idx:idx+len(needle)]) == string(needle) {
			return &NumberValue{Value: float64(idx + len(needle) + 1)}, true
		}
	}
	return &NumberValue{Value: 0}, true
}

// evalRandom returns a uniformly distributed integer in [0, n].
func (i *Interp) evalRandom(call *ast.BuiltinCall) (Value, bool) {
	v, ok := i.evalExpression(call.Args[0])
	if !ok {
		return nil, false
	}
	n := int(ToNumber(v))
	if n < 0 {
		i.runtimeError(call, "Invalid range for $random")
		return nil, false
	}
	return &NumberValue{Value: float64(i.rand.Intn(n + 1))}, true
}

// evalAscii returns the code point of the first character, or -1 for "".
func (i *Interp) evalAscii(call *ast.BuiltinCall) (Value, bool) {
	v, ok := i.evalExpression(call.Args[0])
	if !ok {
		return nil, false
	}
	for _, r := range ToString(v) {
		return &NumberValue{Value: float64(r)}, true
	}
	return &NumberValue{Value: -1}, true
}

// evalChar returns the single-character string with the given code point;
// negative code points yield "".
func (i *Interp) evalChar(call *ast.BuiltinCall) (Value, bool) {
	v, ok := i.evalExpression(call.Args[0])
	if !ok {
		return nil, false
	}
	n := int(ToNumber(v))
	if n < 0 {
		return Empty, true
	}
	return &StringValue{Value: string(rune(n))}, true
}

// evalSelect returns the value of the first case whose condition is true.
// Conditions evaluate in order and only the chosen value is evaluated; all
// conditions false is an error.
func (i *Interp) evalSelect(call *ast.SelectCall) (Value, bool) {
	for _, c := range call.Cases {
		cond, ok := i.evalExpression(c.Cond)
		if !ok {
			return nil, false
		}
		if ToBool(cond) {
			return i.evalExpression(c.Value)
		}
	}
	i.runtimeError(call, "All select conditions were false")
	return nil, false
}
