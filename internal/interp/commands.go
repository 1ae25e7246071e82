package interp

import (
	"fmt"
	"strings"

	"github.com/Zorbn/mscript/pkg/ast"
)

// execWrite executes each write argument in order, updating the output
// buffer and column.
func (i *Interp) execWrite(cmd *ast.WriteCommand) control {
	for _, arg := range cmd.Args {
		switch arg := arg.(type) {
		case *ast.WriteReset:
			i.resetOutput()

		case *ast.WriteNewline:
			i.writeText("\n")

		case *ast.WriteColumn:
			v, ok := i.evalExpression(arg.Expr)
			if !ok {
				return controlHalt
			}
			// Pad up to the requested minimum column, never retract.
			want := int(ToNumber(v))
			if want > i.outColumn {
				i.writeText(strings.Repeat(" ", want-i.outColumn))
			}

		case *ast.WriteExpression:
			v, ok := i.evalExpression(arg.Expr)
			if !ok {
				return controlHalt
			}
			i.writeText(ToString(v))
		}
	}
	return controlContinue
}

// execQuit evaluates the optional return expression and unwinds the
// innermost block. An argumentless quit clears any pending return value.
func (i *Interp) execQuit(cmd *ast.QuitCommand) control {
	if cmd.Value == nil {
		i.retval = nil
		return controlQuit
	}
	v, ok := i.evalExpression(cmd.Value)
	if !ok {
		return controlHalt
	}
	i.retval = toScalar(v)
	return controlQuit
}

// execDoBlock runs a nested block. A quit inside the block ends the block,
// not the enclosing construct.
func (i *Interp) execDoBlock(cmd *ast.DoBlockCommand) control {
	ctl := i.execScoped(cmd.Body)
	if ctl == controlQuit {
		return controlContinue
	}
	return ctl
}

// execDoCall calls a tag or host function as a statement, discarding any
// return value.
func (i *Interp) execDoCall(cmd *ast.DoCallCommand) control {
	_, ctl := i.call(cmd.Call)
	return ctl
}

// execIf evaluates the conditions in order. The first false condition sets
// $TEST to 0 and skips the line's remaining commands; otherwise $TEST
// becomes 1 and they run.
func (i *Interp) execIf(cmd *ast.IfCommand) control {
	if len(cmd.Conditions) == 0 {
		// Argumentless if: run the body when $TEST is true, leaving
		// $TEST untouched.
		test, _ := i.envs[0].Get(testVar)
		if test == nil || !ToBool(test) {
			return controlContinue
		}
		return i.execSeq(cmd.Body)
	}

	for _, cond := range cmd.Conditions {
		v, ok := i.evalExpression(cond)
		if !ok {
			return controlHalt
		}
		if !ToBool(v) {
			i.envs[0].Set(testVar, Bool(false))
			return controlContinue
		}
	}
	i.envs[0].Set(testVar, Bool(true))
	return i.execSeq(cmd.Body)
}

// execElse runs the line's remaining commands when $TEST is false.
func (i *Interp) execElse(cmd *ast.ElseCommand) control {
	test, _ := i.envs[0].Get(testVar)
	if test != nil && ToBool(test) {
		return controlContinue
	}
	return i.execSeq(cmd.Body)
}

// execFor runs the loop body per the for parameters; see the sweep helpers
// below. A quit from the body ends the whole loop and yields Continue.
func (i *Interp) execFor(cmd *ast.ForCommand) control {
	if cmd.Var == nil {
		// Argumentless form: repeat until the body quits.
		for {
			ctl := i.runForBody(cmd.Body)
			if ctl == controlQuit {
				return controlContinue
			}
			if ctl != controlContinue {
				return ctl
			}
		}
	}

	for _, param := range cmd.Parameters {
		ctl := i.runSweep(cmd, param)
		if ctl == controlQuit {
			// A quit inside any sweep ends the entire for.
			return controlContinue
		}
		if ctl != controlContinue {
			return ctl
		}
	}
	return controlContinue
}

// runForBody executes one iteration of a for body in its own scope.
func (i *Interp) runForBody(body []ast.Command) control {
	if i.maxSteps > 0 {
		i.steps++
		if i.steps > i.maxSteps {
			return i.runtimeError(nil, "Execution step limit exceeded")
		}
	}
	return i.execScoped(body)
}

// runSweep drives the loop variable through one for parameter.
func (i *Interp) runSweep(cmd *ast.ForCommand, param *ast.ForParameter) control {
	start, ok := i.evalExpression(param.Start)
	if !ok {
		return controlHalt
	}

	// Single value: assign and run the body once.
	if param.Step == nil {
		if !i.setForVar(cmd.Var, toScalar(start)) {
			return controlHalt
		}
		return i.runForBody(cmd.Body)
	}

	stepV, ok := i.evalExpression(param.Step)
	if !ok {
		return controlHalt
	}
	step := ToNumber(stepV)

	limited := param.Limit != nil
	var limit float64
	if limited {
		limitV, ok := i.evalExpression(param.Limit)
		if !ok {
			return controlHalt
		}
		limit = ToNumber(limitV)
	}

	cur := ToNumber(start)
	for {
		if limited {
			if step >= 0 && cur > limit {
				return controlContinue
			}
			if step < 0 && cur < limit {
				return controlContinue
			}
		}

		if !i.setForVar(cmd.Var, &NumberValue{Value: cur}) {
			return controlHalt
		}
		ctl := i.runForBody(cmd.Body)
		if ctl != controlContinue {
			return ctl
		}
		cur += step
	}
}

// setForVar assigns the loop variable.
func (i *Interp) setForVar(v *ast.VariableExpression, value Value) bool {
	ref, ok := i.resolveVariable(v, true)
	if !ok {
		return false
	}
	i.refSet(ref, value)
	return true
}

// execSet evaluates each assignment left to right.
func (i *Interp) execSet(cmd *ast.SetCommand) control {
	for _, assign := range cmd.Assignments {
		v, ok := i.evalExpression(assign.Value)
		if !ok {
			return controlHalt
		}
		value := toScalar(v)

		switch target := assign.Target.(type) {
		case *ast.VariableExpression:
			ref, ok := i.resolveVariable(target, true)
			if !ok {
				return controlHalt
			}
			i.refSet(ref, value)

		case *ast.ExtractTarget:
			if ctl := i.execSetExtract(target, value); ctl != controlContinue {
				return ctl
			}
		}
	}
	return controlContinue
}

// execSetExtract splices a value into a variable's string form over the
// extract range, using the same start/end clamping as the builtin.
func (i *Interp) execSetExtract(target *ast.ExtractTarget, value Value) control {
	ref, ok := i.resolveVariable(target.Var, true)
	if !ok {
		return controlHalt
	}

	cur, _ := i.refGet(ref)
	runes := []rune(ToString(cur))

	start := 1
	if target.Start != nil {
		v, ok := i.evalExpression(target.Start)
		if !ok {
			return controlHalt
		}
		start = int(ToNumber(v))
	}
	end := start
	if target.End != nil {
		v, ok := i.evalExpression(target.End)
		if !ok {
			return controlHalt
		}
		end = int(ToNumber(v))
	}

	// Clamp the half-open splice range [start-1, end) to the string.
	lo := start - 1
	if lo < 0 {
		lo = 0
	}
	if lo > len(runes) {
		lo = len(runes)
	}
	hi := end
	if hi < lo {
		hi = lo
	}
	if hi > len(runes) {
		hi = len(runes)
	}

	spliced := string(runes[:lo]) + ToString(value) + string(runes[hi:])
	i.refSet(ref, &StringValue{Value: spliced})
	return controlContinue
}

// execNew pushes an environment frame binding each listed name to "". The
// frame pops when the enclosing block or tag exits.
func (i *Interp) execNew(cmd *ast.NewCommand) control {
	if len(cmd.Names) == 0 {
		return controlContinue
	}
	frame := NewEnvironment()
	for _, name := range cmd.Names {
		frame.Set(name.Value, Empty)
	}
	i.envs = append(i.envs, frame)
	return controlContinue
}

// execKill deletes variables. With no arguments the environment stack is
// replaced by a single fresh global frame.
func (i *Interp) execKill(cmd *ast.KillCommand) control {
	if len(cmd.Vars) == 0 {
		i.envs = []*Environment{NewEnvironment()}
		return controlContinue
	}

	for _, v := range cmd.Vars {
		ref, ok := i.resolveVariable(v, false)
		if !ok {
			return controlHalt
		}
		if ref != nil {
			i.refDelete(ref)
		}
	}
	return controlContinue
}

// execMerge deep-copies every subtree of the source into the target.
// Overlapping source and target are rejected.
func (i *Interp) execMerge(cmd *ast.MergeCommand) control {
	overlap, ok := i.mergeOverlaps(cmd)
	if !ok {
		return controlHalt
	}
	if overlap {
		return i.runtimeError(cmd, "Cannot merge overlapping variables")
	}

	srcRef, ok := i.resolveVariable(cmd.Source, false)
	if !ok {
		return controlHalt
	}
	if srcRef == nil {
		return controlContinue
	}
	srcVal, exists := i.refGet(srcRef)
	if !exists {
		return controlContinue
	}
	srcNode, isArr := srcVal.(*ArrayValue)
	if !isArr {
		// A scalar source has no subtree to copy.
		return controlContinue
	}

	dstRef, ok := i.resolveVariable(cmd.Target, true)
	if !ok {
		return controlHalt
	}
	dstNode, ok := i.descend(dstRef, true)
	if !ok {
		return controlHalt
	}

	mergeInto(dstNode, srcNode)
	return controlContinue
}

// mergeOverlaps reports whether source and target address the same root
// with one subscript path a prefix of the other.
func (i *Interp) mergeOverlaps(cmd *ast.MergeCommand) (overlap, ok bool) {
	if cmd.Target.Name != cmd.Source.Name {
		return false, true
	}

	tPath, ok := i.evalSubscripts(cmd.Target)
	if !ok {
		return false, false
	}
	sPath, ok := i.evalSubscripts(cmd.Source)
	if !ok {
		return false, false
	}

	short := tPath
	long := sPath
	if len(short) > len(long) {
		short, long = long, short
	}
	for idx, key := range short {
		if long[idx] != key {
			return false, true
		}
	}
	return true, true
}

// evalSubscripts evaluates a variable's subscripts to their string keys.
func (i *Interp) evalSubscripts(v *ast.VariableExpression) ([]string, bool) {
	keys := make([]string, 0, len(v.Subscripts))
	for _, sub := range v.Subscripts {
		val, ok := i.evalExpression(sub)
		if !ok {
			return nil, false
		}
		keys = append(keys, ToString(val))
	}
	return keys, true
}

// mergeInto recursively copies src's children into dst. Value-bearing
// positions of src overwrite dst; keys present only in dst are preserved.
func mergeInto(dst, src *ArrayValue) {
	for _, key := range src.Keys() {
		child, _ := src.Get(key)

		srcChild, isArr := child.(*ArrayValue)
		if !isArr {
			// Scalar: overwrite the value, keeping any dst subtree.
			if cur, exists := dst.Get(key); exists {
				if node, curIsArr := cur.(*ArrayValue); curIsArr {
					node.Self = child
					continue
				}
			}
			dst.Set(key, child)
			continue
		}

		// Subtree: ensure a dst node, promote a scalar if present.
		var node *ArrayValue
		if cur, exists := dst.Get(key); exists {
			if n, curIsArr := cur.(*ArrayValue); curIsArr {
				node = n
			} else {
				node = NewArray()
				node.Self = cur
				dst.Set(key, node)
			}
		} else {
			node = NewArray()
			dst.Set(key, node)
		}

		if srcChild.Self != nil {
			node.Self = srcChild.Self
		}
		mergeInto(node, srcChild)
	}
}

// call invokes a user-defined tag or a registered host function. The
// returned value is the collected quit value ("" when none) and is only
// meaningful to callers expecting one.
func (i *Interp) call(call *ast.CallExpression) (Value, control) {
	if tag, isTag := i.routine.Tags[call.Name]; isTag {
		return i.callTag(tag, call)
	}
	if fn, isHost := i.hosts[call.Name]; isHost {
		return i.callHost(fn, call)
	}
	return nil, i.runtimeError(call, fmt.Sprintf("Unknown tag %q", call.Name))
}

// callTag executes a tag body: the routine's commands from the tag's entry
// index onward. A frame is pushed only when the tag declares parameters.
func (i *Interp) callTag(tag *ast.Tag, call *ast.CallExpression) (Value, control) {
	pushFrame := len(tag.Params) > 0

	var frame *Environment
	if pushFrame {
		frame = NewEnvironment()
		for idx, param := range tag.Params {
			if idx >= len(call.Args) {
				frame.Set(param, Empty)
				continue
			}
			v, ok := i.evalCallArg(call.Args[idx])
			if !ok {
				return nil, controlHalt
			}
			frame.Set(param, v)
		}
		// Extra arguments beyond the parameter list are discarded, but
		// still evaluated for their effects.
		for idx := len(tag.Params); idx < len(call.Args); idx++ {
			if _, ok := i.evalCallArg(call.Args[idx]); !ok {
				return nil, controlHalt
			}
		}
	} else {
		for _, arg := range call.Args {
			if _, ok := i.evalCallArg(arg); !ok {
				return nil, controlHalt
			}
		}
	}

	depth := len(i.envs)
	if pushFrame {
		i.envs = append(i.envs, frame)
	}

	i.retval = nil
	ctl := i.execSeq(i.routine.Commands[tag.Index:])
	i.envs = i.envs[:depth]

	var result Value = Empty
	if ctl == controlQuit && i.retval != nil {
		result = i.retval
	}
	i.retval = nil

	if ctl == controlHalt {
		return nil, controlHalt
	}
	return result, controlContinue
}

// callHost evaluates the argument list with the same by-reference handling
// as tag calls and invokes the native function. By-reference arguments
// resolve to their current scalar value before the call.
func (i *Interp) callHost(fn HostFunc, call *ast.CallExpression) (Value, control) {
	args := make([]Value, 0, len(call.Args))
	for _, arg := range call.Args {
		v, ok := i.evalCallArg(arg)
		if !ok {
			return nil, controlHalt
		}
		if ref, isRef := v.(*RefValue); isRef {
			slot, exists := i.envs[ref.Frame].Get(ref.Name)
			if !exists {
				slot = Empty
			}
			v = toScalar(slot)
		}
		args = append(args, v)
	}

	result, returned := fn(args)
	if !returned || result == nil {
		result = Empty
	}
	return result, controlContinue
}

// evalCallArg evaluates one call argument. A by-reference argument yields
// an indirect reference to the caller's slot; the name must exist.
func (i *Interp) evalCallArg(arg *ast.CallArgument) (Value, bool) {
	if arg.ByRef {
		frame, name, ok := i.resolveFrame(arg.Name, arg)
		if !ok {
			return nil, false
		}
		return &RefValue{Frame: frame, Name: name}, true
	}
	v, ok := i.evalExpression(arg.Value)
	if !ok {
		return nil, false
	}
	return toScalar(v), true
}
