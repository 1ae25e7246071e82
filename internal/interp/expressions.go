package interp

import (
	"math"

	"github.com/Zorbn/mscript/pkg/ast"
)

// evalExpression evaluates an expression to a scalar. The second result is
// false when a diagnostic was reported; the caller halts.
func (i *Interp) evalExpression(expr ast.Expression) (Value, bool) {
	switch expr := expr.(type) {
	case *ast.NumberLiteral:
		return &NumberValue{Value: expr.Value}, true

	case *ast.StringLiteral:
		return &StringValue{Value: expr.Value}, true

	case *ast.VariableExpression:
		return i.evalVariable(expr)

	case *ast.GroupedExpression:
		return i.evalExpression(expr.Expression)

	case *ast.PrefixExpression:
		return i.evalPrefix(expr)

	case *ast.InfixExpression:
		return i.evalInfix(expr)

	case *ast.CallExpression:
		result, ctl := i.call(expr)
		if ctl == controlHalt {
			return nil, false
		}
		return result, true

	case *ast.BuiltinCall:
		return i.evalBuiltin(expr)

	case *ast.SelectCall:
		return i.evalSelect(expr)
	}

	i.runtimeError(expr, "Unimplemented expression")
	return nil, false
}

// evalVariable reads a variable. Missing slots yield the empty string;
// array nodes collapse to their self-value.
func (i *Interp) evalVariable(v *ast.VariableExpression) (Value, bool) {
	ref, ok := i.resolveVariable(v, false)
	if !ok {
		return nil, false
	}
	if ref == nil {
		return Empty, true
	}
	val, exists := i.refGet(ref)
	if !exists {
		return Empty, true
	}
	return toScalar(val), true
}

// evalPrefix evaluates the unary operators ', + and -.
func (i *Interp) evalPrefix(expr *ast.PrefixExpression) (Value, bool) {
	right, ok := i.evalExpression(expr.Right)
	if !ok {
		return nil, false
	}

	switch expr.Operator {
	case "'":
		return Bool(!ToBool(right)), true
	case "+":
		return &NumberValue{Value: ToNumber(right)}, true
	case "-":
		return &NumberValue{Value: -ToNumber(right)}, true
	}

	i.runtimeError(expr, "Unimplemented operator "+expr.Operator)
	return nil, false
}

// evalInfix evaluates a binary operation. Both operands are always
// evaluated; there is no short-circuiting, matching strict left-to-right
// evaluation. A negated operator inverts the result's truth value.
func (i *Interp) evalInfix(expr *ast.InfixExpression) (Value, bool) {
	left, ok := i.evalExpression(expr.Left)
	if !ok {
		return nil, false
	}
	right, ok := i.evalExpression(expr.Right)
	if !ok {
		return nil, false
	}

	var result Value
	switch expr.Operator {
	case "!":
		result = Bool(ToBool(left) || ToBool(right))
	case "&":
		result = Bool(ToBool(left) && ToBool(right))
	case "=":
		result = Bool(ToString(left) == ToString(right))
	case "<":
		result = Bool(ToNumber(left) < ToNumber(right))
	case ">":
		result = Bool(ToNumber(left) > ToNumber(right))
	case "+":
		result = &NumberValue{Value: ToNumber(left) + ToNumber(right)}
	case "-":
		result = &NumberValue{Value: ToNumber(left) - ToNumber(right)}
	case "*":
		result = &NumberValue{Value: ToNumber(left) * ToNumber(right)}
	case "**":
		result = &NumberValue{Value: math.Pow(ToNumber(left), ToNumber(right))}
	case "/":
		result = &NumberValue{Value: ToNumber(left) / ToNumber(right)}
	case "\\":
		result = &NumberValue{Value: math.Floor(ToNumber(left) / ToNumber(right))}
	case "#":
		result = &NumberValue{Value: math.Mod(ToNumber(left), ToNumber(right))}
	case "_":
		result = &StringValue{Value: ToString(left) + ToString(right)}
	default:
		i.runtimeError(expr, "Unimplemented operator "+expr.Operator)
		return nil, false
	}

	if expr.Negated {
		result = Bool(!ToBool(result))
	}
	return result, true
}
