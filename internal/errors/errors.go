// Package errors provides diagnostic formatting for the mscript toolchain.
// It renders diagnostics with source context, line/column information, and a
// caret pointing at the offending column.
package errors

import (
	"fmt"
	"strings"

	"github.com/Zorbn/mscript/pkg/token"
)

// Diagnostic is a single error with position and source context. Positions
// are 0-indexed, as reported by the lexer, parser, and interpreter.
type Diagnostic struct {
	Message string
	Source  string
	Pos     token.Position
}

// New creates a diagnostic over the given source text.
func New(pos token.Position, message, source string) *Diagnostic {
	return &Diagnostic{
		Pos:     pos,
		Message: message,
		Source:  source,
	}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Format renders the diagnostic with its source line and a caret. If color
// is true, ANSI color codes are used for terminal output.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error at line %d:%d\n", d.Pos.Line, d.Pos.Column))

	if line, ok := d.sourceLine(d.Pos.Line); ok {
		lineNum := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNum)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNum)+d.Pos.Column))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// sourceLine extracts the 0-indexed line from the source text.
func (d *Diagnostic) sourceLine(num int) (string, bool) {
	if d.Source == "" {
		return "", false
	}
	lines := strings.Split(d.Source, "\n")
	if num < 0 || num >= len(lines) {
		return "", false
	}
	return lines[num], true
}

// FormatAll formats multiple diagnostics, each with source context.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Failed with %d error(s):\n\n", len(diags)))
	for i, d := range diags {
		sb.WriteString(fmt.Sprintf("[Error %d of %d]\n", i+1, len(diags)))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
