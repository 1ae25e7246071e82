package parser

import (
	"fmt"

	"github.com/Zorbn/mscript/pkg/token"
)

// Error represents a structured parsing error with position information.
// Positions are 0-indexed line and column of the offending token.
type Error struct {
	Message string
	Code    string
	Pos     token.Position
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

// NewError creates a new Error with the given parameters.
func NewError(pos token.Position, message, code string) *Error {
	return &Error{
		Message: message,
		Pos:     pos,
		Code:    code,
	}
}

// Error code constants for programmatic error handling.
const (
	// ErrExpectedCommand indicates a token where a command name was required
	ErrExpectedCommand = "E_EXPECTED_COMMAND"

	// ErrUnknownCommand indicates a name matching no command prefix
	ErrUnknownCommand = "E_UNKNOWN_COMMAND"

	// ErrUnknownBuiltin indicates a $name matching no builtin prefix
	ErrUnknownBuiltin = "E_UNKNOWN_BUILTIN"

	// ErrUnexpectedToken indicates an unexpected token
	ErrUnexpectedToken = "E_UNEXPECTED_TOKEN"

	// ErrMissingRParen indicates a missing closing parenthesis
	ErrMissingRParen = "E_MISSING_RPAREN"

	// ErrMissingSeparator indicates a missing space after an indent marker
	ErrMissingSeparator = "E_MISSING_SEPARATOR"

	// ErrBadIndent indicates a body line indented deeper than its block
	ErrBadIndent = "E_BAD_INDENT"

	// ErrBadArity indicates the wrong number of arguments for a builtin
	ErrBadArity = "E_BAD_ARITY"

	// ErrExpectedVariable indicates a non-variable where a variable reference
	// was required (e.g. the first argument of $order)
	ErrExpectedVariable = "E_EXPECTED_VARIABLE"

	// ErrExpectedExpression indicates a token that cannot start an expression
	ErrExpectedExpression = "E_EXPECTED_EXPRESSION"

	// ErrExpectedLine indicates a line that is neither a tag line nor a body line
	ErrExpectedLine = "E_EXPECTED_LINE"
)
