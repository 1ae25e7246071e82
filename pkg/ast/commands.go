package ast

import (
	"bytes"

	"github.com/Zorbn/mscript/pkg/token"
)

// cond renders a postconditional suffix for String methods.
func cond(c Expression) string {
	if c == nil {
		return ""
	}
	return ":" + c.String()
}

// WriteArg is one argument of a write command: an expression, or one of the
// output formatters (#, !, ?expr).
type WriteArg interface {
	Node
	writeArgNode()
}

// WriteExpression writes the value of an expression.
type WriteExpression struct {
	Expr Expression
}

func (wa *WriteExpression) writeArgNode()        {}
func (wa *WriteExpression) TokenLiteral() string { return wa.Expr.TokenLiteral() }
func (wa *WriteExpression) String() string       { return wa.Expr.String() }
func (wa *WriteExpression) Pos() token.Position  { return wa.Expr.Pos() }

// WriteReset is the # formatter: clear accumulated output and reset the column.
type WriteReset struct {
	Token token.Token
}

func (wa *WriteReset) writeArgNode()        {}
func (wa *WriteReset) TokenLiteral() string { return wa.Token.Literal }
func (wa *WriteReset) String() string       { return "#" }
func (wa *WriteReset) Pos() token.Position  { return wa.Token.Pos }

// WriteNewline is the ! formatter: emit a newline and reset the column.
type WriteNewline struct {
	Token token.Token
}

func (wa *WriteNewline) writeArgNode()        {}
func (wa *WriteNewline) TokenLiteral() string { return wa.Token.Literal }
func (wa *WriteNewline) String() string       { return "!" }
func (wa *WriteNewline) Pos() token.Position  { return wa.Token.Pos }

// WriteColumn is the ?expr formatter: pad with spaces up to a minimum column.
type WriteColumn struct {
	Token token.Token // the '?' token
	Expr  Expression
}

func (wa *WriteColumn) writeArgNode()        {}
func (wa *WriteColumn) TokenLiteral() string { return wa.Token.Literal }
func (wa *WriteColumn) String() string       { return "?" + wa.Expr.String() }
func (wa *WriteColumn) Pos() token.Position  { return wa.Token.Pos }

// WriteCommand appends to the program output.
type WriteCommand struct {
	Token token.Token
	Cond  Expression
	Args  []WriteArg
}

func (c *WriteCommand) commandNode()              {}
func (c *WriteCommand) Postcondition() Expression { return c.Cond }
func (c *WriteCommand) TokenLiteral() string      { return c.Token.Literal }
func (c *WriteCommand) Pos() token.Position       { return c.Token.Pos }
func (c *WriteCommand) String() string {
	return "write" + cond(c.Cond) + " " + joinStrings(c.Args, ",")
}

// QuitCommand unwinds the innermost block, for sweep, or tag body. Value is
// the optional return expression.
type QuitCommand struct {
	Token token.Token
	Cond  Expression
	Value Expression // nil when no return value
}

func (c *QuitCommand) commandNode()              {}
func (c *QuitCommand) Postcondition() Expression { return c.Cond }
func (c *QuitCommand) TokenLiteral() string      { return c.Token.Literal }
func (c *QuitCommand) Pos() token.Position       { return c.Token.Pos }
func (c *QuitCommand) String() string {
	if c.Value == nil {
		return "quit" + cond(c.Cond)
	}
	return "quit" + cond(c.Cond) + " " + c.Value.String()
}

// DoBlockCommand is the argumentless do: it opens a nested block of body
// lines indented one dot level deeper.
type DoBlockCommand struct {
	Token token.Token
	Cond  Expression
	Body  []Command
}

func (c *DoBlockCommand) commandNode()              {}
func (c *DoBlockCommand) Postcondition() Expression { return c.Cond }
func (c *DoBlockCommand) TokenLiteral() string      { return c.Token.Literal }
func (c *DoBlockCommand) Pos() token.Position       { return c.Token.Pos }
func (c *DoBlockCommand) String() string {
	var out bytes.Buffer
	out.WriteString("do" + cond(c.Cond))
	for _, cmd := range c.Body {
		out.WriteString("\n. ")
		out.WriteString(cmd.String())
	}
	return out.String()
}

// DoCallCommand is the call form of do: execute a tag or host function for
// its side effects.
type DoCallCommand struct {
	Token token.Token
	Cond  Expression
	Call  *CallExpression
}

func (c *DoCallCommand) commandNode()              {}
func (c *DoCallCommand) Postcondition() Expression { return c.Cond }
func (c *DoCallCommand) TokenLiteral() string      { return c.Token.Literal }
func (c *DoCallCommand) Pos() token.Position       { return c.Token.Pos }
func (c *DoCallCommand) String() string {
	return "do" + cond(c.Cond) + " " + c.Call.String()
}

// IfCommand evaluates its conditions, records the result in $TEST, and runs
// the remaining commands of the line only when every condition is true.
type IfCommand struct {
	Token      token.Token
	Cond       Expression
	Conditions []Expression
	Body       []Command // the in-line commands following the conditions
}

func (c *IfCommand) commandNode()              {}
func (c *IfCommand) Postcondition() Expression { return c.Cond }
func (c *IfCommand) TokenLiteral() string      { return c.Token.Literal }
func (c *IfCommand) Pos() token.Position       { return c.Token.Pos }
func (c *IfCommand) String() string {
	var out bytes.Buffer
	out.WriteString("if" + cond(c.Cond) + " ")
	out.WriteString(joinStrings(c.Conditions, ","))
	if len(c.Body) > 0 {
		out.WriteString(" ")
		out.WriteString(joinStrings(c.Body, " "))
	}
	return out.String()
}

// ElseCommand runs its in-line body when $TEST is false.
type ElseCommand struct {
	Token token.Token
	Cond  Expression
	Body  []Command
}

func (c *ElseCommand) commandNode()              {}
func (c *ElseCommand) Postcondition() Expression { return c.Cond }
func (c *ElseCommand) TokenLiteral() string      { return c.Token.Literal }
func (c *ElseCommand) Pos() token.Position       { return c.Token.Pos }
func (c *ElseCommand) String() string {
	var out bytes.Buffer
	out.WriteString("else" + cond(c.Cond))
	if len(c.Body) > 0 {
		out.WriteString(" ")
		out.WriteString(joinStrings(c.Body, " "))
	}
	return out.String()
}

// ForParameter is one value sweep of a for loop variable: start alone,
// start:step, or start:step:limit.
type ForParameter struct {
	Start Expression
	Step  Expression // nil for a single-value sweep
	Limit Expression // nil for an open-ended sweep
}

func (fp *ForParameter) String() string {
	var out bytes.Buffer
	out.WriteString(fp.Start.String())
	if fp.Step != nil {
		out.WriteString(":")
		out.WriteString(fp.Step.String())
	}
	if fp.Limit != nil {
		out.WriteString(":")
		out.WriteString(fp.Limit.String())
	}
	return out.String()
}

// ForCommand repeats its in-line body. Without parameters it loops until the
// body quits; with parameters it sweeps the loop variable through each one.
type ForCommand struct {
	Token      token.Token
	Cond       Expression
	Var        *VariableExpression // nil for an argumentless for
	Parameters []*ForParameter
	Body       []Command
}

func (c *ForCommand) commandNode()              {}
func (c *ForCommand) Postcondition() Expression { return c.Cond }
func (c *ForCommand) TokenLiteral() string      { return c.Token.Literal }
func (c *ForCommand) Pos() token.Position       { return c.Token.Pos }
func (c *ForCommand) String() string {
	var out bytes.Buffer
	out.WriteString("for" + cond(c.Cond))
	if c.Var != nil {
		out.WriteString(" ")
		out.WriteString(c.Var.String())
		out.WriteString("=")
		for i, p := range c.Parameters {
			if i > 0 {
				out.WriteString(",")
			}
			out.WriteString(p.String())
		}
	}
	if len(c.Body) > 0 {
		out.WriteString(" ")
		out.WriteString(joinStrings(c.Body, " "))
	}
	return out.String()
}

// SetTarget is the left side of one set assignment: a variable, or an
// extract form that splices into a variable's string value.
type SetTarget interface {
	Node
	setTargetNode()
}

// ExtractTarget is the $E(var, start[, end]) form on the left of a set
// assignment.
type ExtractTarget struct {
	Token token.Token // the '$' token
	Var   *VariableExpression
	Start Expression // nil means 1
	End   Expression // nil means Start
}

func (et *ExtractTarget) setTargetNode()       {}
func (et *ExtractTarget) TokenLiteral() string { return et.Token.Literal }
func (et *ExtractTarget) Pos() token.Position  { return et.Token.Pos }
func (et *ExtractTarget) String() string {
	var out bytes.Buffer
	out.WriteString("$extract(")
	out.WriteString(et.Var.String())
	if et.Start != nil {
		out.WriteString(",")
		out.WriteString(et.Start.String())
	}
	if et.End != nil {
		out.WriteString(",")
		out.WriteString(et.End.String())
	}
	out.WriteString(")")
	return out.String()
}

func (ve *VariableExpression) setTargetNode() {}

// SetAssignment is one target=expr pair of a set command.
type SetAssignment struct {
	Target SetTarget
	Value  Expression
}

func (sa *SetAssignment) String() string {
	return sa.Target.String() + "=" + sa.Value.String()
}

// SetCommand assigns values to one or more targets.
type SetCommand struct {
	Token       token.Token
	Cond        Expression
	Assignments []*SetAssignment
}

func (c *SetCommand) commandNode()              {}
func (c *SetCommand) Postcondition() Expression { return c.Cond }
func (c *SetCommand) TokenLiteral() string      { return c.Token.Literal }
func (c *SetCommand) Pos() token.Position       { return c.Token.Pos }
func (c *SetCommand) String() string {
	var out bytes.Buffer
	out.WriteString("set" + cond(c.Cond) + " ")
	for i, a := range c.Assignments {
		if i > 0 {
			out.WriteString(",")
		}
		out.WriteString(a.String())
	}
	return out.String()
}

// NewCommand pushes an environment frame binding each listed name to "".
type NewCommand struct {
	Token token.Token
	Cond  Expression
	Names []*Identifier
}

func (c *NewCommand) commandNode()              {}
func (c *NewCommand) Postcondition() Expression { return c.Cond }
func (c *NewCommand) TokenLiteral() string      { return c.Token.Literal }
func (c *NewCommand) Pos() token.Position       { return c.Token.Pos }
func (c *NewCommand) String() string {
	return "new" + cond(c.Cond) + " " + joinStrings(c.Names, ",")
}

// KillCommand deletes variables. With no arguments it clears all locals.
type KillCommand struct {
	Token token.Token
	Cond  Expression
	Vars  []*VariableExpression
}

func (c *KillCommand) commandNode()              {}
func (c *KillCommand) Postcondition() Expression { return c.Cond }
func (c *KillCommand) TokenLiteral() string      { return c.Token.Literal }
func (c *KillCommand) Pos() token.Position       { return c.Token.Pos }
func (c *KillCommand) String() string {
	if len(c.Vars) == 0 {
		return "kill" + cond(c.Cond)
	}
	return "kill" + cond(c.Cond) + " " + joinStrings(c.Vars, ",")
}

// MergeCommand deep-copies the subtree of Source into Target.
type MergeCommand struct {
	Token  token.Token
	Cond   Expression
	Target *VariableExpression
	Source *VariableExpression
}

func (c *MergeCommand) commandNode()              {}
func (c *MergeCommand) Postcondition() Expression { return c.Cond }
func (c *MergeCommand) TokenLiteral() string      { return c.Token.Literal }
func (c *MergeCommand) Pos() token.Position       { return c.Token.Pos }
func (c *MergeCommand) String() string {
	return "merge" + cond(c.Cond) + " " + c.Target.String() + "=" + c.Source.String()
}

// HaltCommand terminates the program.
type HaltCommand struct {
	Token token.Token
	Cond  Expression
}

func (c *HaltCommand) commandNode()              {}
func (c *HaltCommand) Postcondition() Expression { return c.Cond }
func (c *HaltCommand) TokenLiteral() string      { return c.Token.Literal }
func (c *HaltCommand) Pos() token.Position       { return c.Token.Pos }
func (c *HaltCommand) String() string            { return "halt" + cond(c.Cond) }
