package mscript

import (
	"fmt"
	"reflect"

	"github.com/Zorbn/mscript/internal/interp"
)

// RegisterFunction makes a native Go function callable from scripts as
// $name(...) or $$name(...). The function signature is validated at
// registration time; supported parameter and return types are string,
// float64, int64, int and bool, with at most one return value (or none).
//
// Script arguments are coerced to the parameter types; missing arguments
// coerce from the empty string. By-reference arguments resolve to their
// current scalar value before the call.
func (e *Engine) RegisterFunction(name string, fn any) error {
	if name == "" {
		return fmt.Errorf("function name must not be empty")
	}
	if e.registered[name] {
		return fmt.Errorf("function %q is already registered", name)
	}
	if fn == nil {
		return fmt.Errorf("function %q must not be nil", name)
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return fmt.Errorf("function %q is not a function: %T", name, fn)
	}
	if fnType.IsVariadic() {
		return fmt.Errorf("function %q: variadic functions are not supported", name)
	}

	for i := 0; i < fnType.NumIn(); i++ {
		if !supportedKind(fnType.In(i).Kind()) {
			return fmt.Errorf("function %q: unsupported parameter type %s", name, fnType.In(i))
		}
	}
	switch fnType.NumOut() {
	case 0:
	case 1:
		if !supportedKind(fnType.Out(0).Kind()) {
			return fmt.Errorf("function %q: unsupported return type %s", name, fnType.Out(0))
		}
	default:
		return fmt.Errorf("function %q: at most one return value is supported", name)
	}

	e.interp.RegisterHost(name, func(args []interp.Value) (interp.Value, bool) {
		in := make([]reflect.Value, fnType.NumIn())
		for i := range in {
			var arg interp.Value = interp.Empty
			if i < len(args) {
				arg = args[i]
			}
			in[i] = convertArg(arg, fnType.In(i))
		}

		out := fnVal.Call(in)
		if len(out) == 0 {
			return nil, false
		}
		return convertResult(out[0]), true
	})
	e.registered[name] = true
	return nil
}

// supportedKind reports whether a Go type kind can cross the FFI boundary.
func supportedKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Float64, reflect.Int64, reflect.Int, reflect.Bool:
		return true
	}
	return false
}

// convertArg coerces a script value to a Go parameter value.
func convertArg(v interp.Value, t reflect.Type) reflect.Value {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(interp.ToString(v)).Convert(t)
	case reflect.Float64:
		return reflect.ValueOf(interp.ToNumber(v)).Convert(t)
	case reflect.Int64, reflect.Int:
		return reflect.ValueOf(int64(interp.ToNumber(v))).Convert(t)
	case reflect.Bool:
		return reflect.ValueOf(interp.ToBool(v)).Convert(t)
	}
	// Registration validated the type; this is unreachable.
	return reflect.Zero(t)
}

// convertResult coerces a Go return value to a script scalar.
func convertResult(v reflect.Value) interp.Value {
	switch v.Kind() {
	case reflect.String:
		return &interp.StringValue{Value: v.String()}
	case reflect.Float64:
		return &interp.NumberValue{Value: v.Float()}
	case reflect.Int64, reflect.Int:
		return &interp.NumberValue{Value: float64(v.Int())}
	case reflect.Bool:
		if v.Bool() {
			return &interp.NumberValue{Value: 1}
		}
		return &interp.NumberValue{Value: 0}
	}
	return interp.Empty
}
