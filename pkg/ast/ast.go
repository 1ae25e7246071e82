// Package ast defines the Abstract Syntax Tree node types for mscript.
//
// The root node is Routine: a flat, ordered sequence of commands plus a map
// from tag name to entry descriptor. Tags are entry points into the command
// sequence, not containers — a tag's body runs from its index to the end of
// the sequence (or until quit/halt), so control falls through from one tag
// into the next.
package ast

import (
	"bytes"
	"strings"

	"github.com/Zorbn/mscript/pkg/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// TokenLiteral returns the literal value of the token this node is
	// associated with.
	TokenLiteral() string

	// String returns a string representation of the node for debugging.
	String() string

	// Pos returns the position of the node in the source code.
	Pos() token.Position
}

// Expression represents any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Command represents one imperative statement on a line. Every command may
// carry a postconditional expression gating its execution.
type Command interface {
	Node
	commandNode()

	// Postcondition returns the command's gating expression, or nil.
	Postcondition() Expression
}

// Tag describes a named entry point into a routine's command sequence.
type Tag struct {
	Token  token.Token // the IDENT token at column 0
	Name   string
	Index  int      // entry index into Routine.Commands
	Params []string // parameter names; empty when the tag declares none
}

// Routine is the root node of the AST.
type Routine struct {
	Commands []Command
	Tags     map[string]*Tag
}

func (r *Routine) TokenLiteral() string {
	if len(r.Commands) > 0 {
		return r.Commands[0].TokenLiteral()
	}
	return ""
}

func (r *Routine) Pos() token.Position {
	if len(r.Commands) > 0 {
		return r.Commands[0].Pos()
	}
	return token.Position{}
}

func (r *Routine) String() string {
	var out bytes.Buffer
	for i, cmd := range r.Commands {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(cmd.String())
	}
	return out.String()
}

// Identifier represents a bare name (new targets, parameter names).
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }

// joinStrings renders a slice of nodes separated by sep.
func joinStrings[T Node](nodes []T, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}
