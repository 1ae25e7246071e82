package interp

import (
	"math/rand"
	"strings"

	"github.com/Zorbn/mscript/pkg/ast"
	"github.com/Zorbn/mscript/pkg/token"
)

// control is the result of executing one command. Halt propagates through
// every enclosing construct and terminates the program; Quit unwinds the
// innermost do block, for sweep, or tag body.
type control int

const (
	controlContinue control = iota
	controlQuit
	controlHalt
)

// Diagnostic is one accumulated error with the 0-indexed position of the
// offending token.
type Diagnostic struct {
	Message string
	Pos     token.Position
}

// HostFunc is a host-provided native function. It receives the evaluated
// argument values and returns a result scalar; ok reports whether a value
// was returned at all.
type HostFunc func(args []Value) (result Value, ok bool)

// positioned is any node that knows its source position; all AST nodes do.
type positioned interface {
	Pos() token.Position
}

// testVar is the key of the $TEST special variable in the global frame.
// The if and else commands are its only readers and writers; a $ never
// appears in a source identifier, so programs cannot collide with it.
const testVar = "$TEST"

// Interp executes a parsed routine against an in-memory variable store,
// producing a linear text output and a list of diagnostics. It is
// single-threaded and fully synchronous; one Interp must not be shared
// between goroutines.
type Interp struct {
	routine *ast.Routine
	envs    []*Environment
	hosts   map[string]HostFunc
	rand    *rand.Rand

	output    []string
	outColumn int

	errors []Diagnostic

	// retval holds the value of the most recent quit expression; tag calls
	// expecting a return value collect it.
	retval Value

	maxSteps int
	steps    int
}

// New creates an interpreter. The random source is deterministic by
// default; use SetRand to replace it.
func New() *Interp {
	return &Interp{
		hosts: make(map[string]HostFunc),
		rand:  rand.New(rand.NewSource(1)),
	}
}

// SetRand replaces the random number source used by $random.
func (i *Interp) SetRand(r *rand.Rand) {
	i.rand = r
}

// SetMaxSteps bounds the number of steps taken in one Run: each command
// executed and each for-loop iteration counts as one step. Zero means
// unlimited. Exceeding the bound halts execution with a diagnostic.
func (i *Interp) SetMaxSteps(n int) {
	i.maxSteps = n
}

// RegisterHost registers a native function callable by name from scripts.
// Registering the same name twice replaces the earlier function.
func (i *Interp) RegisterHost(name string, fn HostFunc) {
	i.hosts[name] = fn
}

// Errors returns the diagnostics accumulated by the last Run.
func (i *Interp) Errors() []Diagnostic {
	return i.errors
}

// Run executes a routine from its first command and returns the accumulated
// output. Execution state is reset on every call, so an Interp can run
// routines repeatedly; registered host functions persist across runs.
func (i *Interp) Run(routine *ast.Routine) string {
	i.routine = routine
	i.envs = []*Environment{NewEnvironment()}
	i.output = nil
	i.outColumn = 0
	i.errors = nil
	i.retval = nil
	i.steps = 0

	i.execSeq(routine.Commands)

	return strings.Join(i.output, "")
}

// execSeq executes commands in order until one of them quits or halts.
func (i *Interp) execSeq(cmds []ast.Command) control {
	for _, cmd := range cmds {
		if ctl := i.execCommand(cmd); ctl != controlContinue {
			return ctl
		}
	}
	return controlContinue
}

// execScoped executes a command sequence as a block: environment frames
// pushed inside it are popped on every exit path.
func (i *Interp) execScoped(cmds []ast.Command) control {
	depth := len(i.envs)
	ctl := i.execSeq(cmds)
	i.envs = i.envs[:depth]
	return ctl
}

// execCommand evaluates one command's postconditional and dispatches to its
// evaluator.
func (i *Interp) execCommand(cmd ast.Command) control {
	if i.maxSteps > 0 {
		i.steps++
		if i.steps > i.maxSteps {
			return i.runtimeError(cmd, "Execution step limit exceeded")
		}
	}

	if cond := cmd.Postcondition(); cond != nil {
		v, ok := i.evalExpression(cond)
		if !ok {
			return controlHalt
		}
		if !ToBool(v) {
			return controlContinue
		}
	}

	switch cmd := cmd.(type) {
	case *ast.WriteCommand:
		return i.execWrite(cmd)
	case *ast.QuitCommand:
		return i.execQuit(cmd)
	case *ast.DoBlockCommand:
		return i.execDoBlock(cmd)
	case *ast.DoCallCommand:
		return i.execDoCall(cmd)
	case *ast.IfCommand:
		return i.execIf(cmd)
	case *ast.ElseCommand:
		return i.execElse(cmd)
	case *ast.ForCommand:
		return i.execFor(cmd)
	case *ast.SetCommand:
		return i.execSet(cmd)
	case *ast.NewCommand:
		return i.execNew(cmd)
	case *ast.KillCommand:
		return i.execKill(cmd)
	case *ast.MergeCommand:
		return i.execMerge(cmd)
	case *ast.HaltCommand:
		return controlHalt
	}

	return i.runtimeError(cmd, "Unimplemented command")
}

// runtimeError records a diagnostic and halts execution.
func (i *Interp) runtimeError(node positioned, msg string) control {
	pos := token.Position{}
	if node != nil {
		pos = node.Pos()
	}
	i.errors = append(i.errors, Diagnostic{Message: msg, Pos: pos})
	return controlHalt
}

// writeText appends text to the output, tracking the current column in code
// points since the last newline.
func (i *Interp) writeText(s string) {
	if s == "" {
		return
	}
	i.output = append(i.output, s)
	for _, r := range s {
		if r == '\n' {
			i.outColumn = 0
		} else {
			i.outColumn++
		}
	}
}

// resetOutput discards all accumulated output and resets the column.
func (i *Interp) resetOutput() {
	i.output = nil
	i.outColumn = 0
}
