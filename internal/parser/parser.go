// Package parser implements the mscript parser.
//
// The grammar is line-oriented and column-significant, so the parser works
// over the lexer's token grid rather than a flat stream. Key mechanics:
//
//   - Tag lines start with an identifier at column 0 and register an entry
//     index into the routine's flat command sequence.
//   - Body lines start with leading whitespace followed by single-space
//     separated '.' markers, one per nested do-block level.
//   - An argumentless do opens a block: the lines that follow at one dot
//     level deeper form its body, shared by every argumentless do on the
//     opening line.
//   - Whitespace tokens are consumed explicitly; a run of spaces separates
//     commands and terminates command arguments.
//
// Errors accumulate; recovery is per-line. An error abandons the rest of the
// offending line and parsing resumes at the next line, so one bad line does
// not take down the rest of the file.
package parser

import (
	"fmt"
	"strings"

	"github.com/Zorbn/mscript/pkg/ast"
	"github.com/Zorbn/mscript/pkg/token"
)

// Parser parses a token grid into an ast.Routine.
type Parser struct {
	lines   [][]token.Token
	lineIdx int
	toks    []token.Token
	tokIdx  int

	routine *ast.Routine
	errors  []*Error

	// pending collects the argumentless do commands of the line currently
	// being parsed; the block that follows the line becomes their shared body.
	pending []*ast.DoBlockCommand

	// lineFailed marks the current line as abandoned after an error.
	lineFailed bool
}

// New creates a Parser for the given token grid.
func New(lines [][]token.Token) *Parser {
	return &Parser{lines: lines}
}

// Errors returns the list of parsing errors.
func (p *Parser) Errors() []*Error {
	return p.errors
}

// Parse parses the entire token grid and returns the routine. It never
// fails outright: errors accumulate and the partial routine is returned.
func (p *Parser) Parse() *ast.Routine {
	p.routine = &ast.Routine{Tags: make(map[string]*ast.Tag)}

	for p.lineIdx < len(p.lines) {
		p.beginLine()
		first := p.cur()

		switch {
		case first.Type == token.TRAILING_WS || first.Type == token.COMMENT:
			p.lineIdx++

		case first.Type == token.IDENT:
			p.parseTagLine()

		case first.Type == token.LEADING_WS:
			p.parseBodyLine(0, &p.routine.Commands)

		default:
			p.addError(first.Pos, "Expected tag name or leading whitespace", ErrExpectedLine)
			p.lineIdx++
		}
	}

	return p.routine
}

// beginLine points the token cursor at the start of the current line.
func (p *Parser) beginLine() {
	p.toks = p.lines[p.lineIdx]
	p.tokIdx = 0
	p.lineFailed = false
	p.pending = nil
}

// cur returns the current token of the current line. Past the end of the
// line it returns a synthetic EOF token, which no parse function accepts.
func (p *Parser) cur() token.Token {
	if p.tokIdx < len(p.toks) {
		return p.toks[p.tokIdx]
	}
	return p.endToken()
}

// peek returns the token after the current one.
func (p *Parser) peek() token.Token {
	if p.tokIdx+1 < len(p.toks) {
		return p.toks[p.tokIdx+1]
	}
	return p.endToken()
}

func (p *Parser) endToken() token.Token {
	col := 0
	if n := len(p.toks); n > 0 {
		last := p.toks[n-1]
		col = last.Pos.Column + last.Length()
	}
	return token.Token{Type: token.EOF, Pos: token.Position{Line: p.lineIdx, Column: col}}
}

// advance moves to the next token of the current line.
func (p *Parser) advance() {
	if p.tokIdx < len(p.toks) {
		p.tokIdx++
	}
}

// curIs checks the type of the current token.
func (p *Parser) curIs(t token.Type) bool {
	return p.cur().Type == t
}

// atLineEnd reports whether the current line has no further commands:
// only trailing whitespace, a comment, or nothing at all remains.
func (p *Parser) atLineEnd() bool {
	switch p.cur().Type {
	case token.TRAILING_WS, token.COMMENT, token.EOF:
		return true
	}
	return false
}

// addError appends an error to the parser's error list.
func (p *Parser) addError(pos token.Position, msg, code string) {
	p.errors = append(p.errors, NewError(pos, msg, code))
}

// abandonLine records a failed line so command parsing stops; recovery
// resumes at the next source line.
func (p *Parser) abandonLine() {
	p.lineFailed = true
	p.tokIdx = len(p.toks)
}

// expect consumes a token of the given type or reports an error and
// abandons the line.
func (p *Parser) expect(t token.Type, msg, code string) (token.Token, bool) {
	tok := p.cur()
	if tok.Type != t {
		p.addError(tok.Pos, msg, code)
		p.abandonLine()
		return tok, false
	}
	p.advance()
	return tok, true
}

// parseTagLine parses a tag-defining line: an identifier at column 0, an
// optional parenthesized parameter list, then inline commands. The tag's
// entry index is the current length of the routine's command sequence.
func (p *Parser) parseTagLine() {
	nameTok := p.cur()
	p.advance()

	tag := &ast.Tag{
		Token: nameTok,
		Name:  nameTok.Literal,
		Index: len(p.routine.Commands),
	}

	if p.curIs(token.LPAREN) {
		p.advance()
		for !p.curIs(token.RPAREN) {
			paramTok, ok := p.expect(token.IDENT, "Expected parameter name", ErrUnexpectedToken)
			if !ok {
				p.lineIdx++
				return
			}
			tag.Params = append(tag.Params, paramTok.Literal)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, ok := p.expect(token.RPAREN, "Expected closing parenthesis", ErrMissingRParen); !ok {
			p.lineIdx++
			return
		}
	}

	p.routine.Tags[tag.Name] = tag

	if !p.atLineEnd() {
		if _, ok := p.expect(token.SPACE, "Expected whitespace after tag", ErrUnexpectedToken); ok {
			p.parseLineCommands(&p.routine.Commands)
		}
	}

	p.finishLine(0, p.pending)
}

// parseBodyLine parses a body line known to start with leading whitespace.
// The dot prefix must match level exactly; the caller only dispatches here
// when that holds (or at the top level, where extra dots are an error).
func (p *Parser) parseBodyLine(level int, dest *[]ast.Command) {
	p.advance() // LEADING_WS

	dots := p.consumeDotPrefix()
	if p.lineFailed {
		p.lineIdx++
		return
	}
	if dots > level {
		p.addError(p.cur().Pos, "Unexpected indentation", ErrBadIndent)
		p.lineIdx++
		return
	}

	p.parseLineCommands(dest)
	p.finishLine(level, p.pending)
}

// finishLine advances past the parsed line and, when the line opened any
// do blocks, parses the following deeper lines as their shared body.
func (p *Parser) finishLine(level int, pending []*ast.DoBlockCommand) {
	p.lineIdx++
	if len(pending) == 0 {
		return
	}
	body := p.parseBlockLines(level + 1)
	for _, blk := range pending {
		blk.Body = body
	}
}

// parseBlockLines parses consecutive lines whose dot prefix equals level,
// stopping at the first shallower line, tag line, or end of input. Lines
// indented deeper than expected are reported and skipped.
func (p *Parser) parseBlockLines(level int) []ast.Command {
	body := []ast.Command{}

	for p.lineIdx < len(p.lines) {
		line := p.lines[p.lineIdx]
		first := line[0]

		switch first.Type {
		case token.TRAILING_WS, token.COMMENT:
			p.lineIdx++
			continue

		case token.LEADING_WS:
			dots := peekDotCount(line)
			if dots < level {
				return body
			}

			p.beginLine()
			p.advance() // LEADING_WS
			consumed := p.consumeDotPrefix()
			if p.lineFailed {
				p.lineIdx++
				continue
			}
			if consumed > level {
				p.addError(p.cur().Pos, "Unexpected indentation", ErrBadIndent)
				p.lineIdx++
				continue
			}

			p.parseLineCommands(&body)
			p.finishLine(level, p.pending)

		default:
			// A tag line or malformed line ends the block; the outer loop
			// deals with it.
			return body
		}
	}

	return body
}

// consumeDotPrefix consumes the '.' indent markers at the start of a body
// line. Markers must be separated from what follows by whitespace.
func (p *Parser) consumeDotPrefix() int {
	dots := 0
	for p.curIs(token.DOT) {
		p.advance()
		dots++

		switch p.cur().Type {
		case token.SPACE:
			p.advance()
		case token.TRAILING_WS, token.EOF:
			// An indent-only line; treated as empty at its level.
		default:
			p.addError(p.cur().Pos, "Expected space after indent marker", ErrMissingSeparator)
			p.abandonLine()
			return dots
		}
	}
	return dots
}

// peekDotCount counts the dot markers of a body line without consuming
// anything. Used to decide whether a line belongs to the current block.
func peekDotCount(line []token.Token) int {
	dots := 0
	i := 1 // skip LEADING_WS
	for i < len(line) {
		if line[i].Type != token.DOT {
			break
		}
		dots++
		i++
		if i < len(line) && line[i].Type == token.SPACE {
			i++
		}
	}
	return dots
}

// commandNames lists the command names in canonical order. Prefix matching
// walks this table and picks the first hit, so an ambiguous abbreviation
// always resolves to the earlier entry.
var commandNames = []string{
	"write", "quit", "do", "if", "else", "for",
	"set", "new", "kill", "merge", "halt",
}

// matchCommand resolves a case-insensitive command abbreviation. Any
// non-empty prefix of a command name matches.
func matchCommand(word string) (string, bool) {
	lower := strings.ToLower(word)
	for _, name := range commandNames {
		if strings.HasPrefix(name, lower) {
			return name, true
		}
	}
	return "", false
}

// parseLineCommands parses the remaining commands of the current line into
// dest. On entry the cursor is at the first command name (whitespace before
// it already consumed).
func (p *Parser) parseLineCommands(dest *[]ast.Command) {
	for !p.atLineEnd() && !p.lineFailed {
		cmd := p.parseCommand()
		if cmd != nil {
			*dest = append(*dest, cmd)
		}
		if p.lineFailed {
			return
		}

		// Commands are separated by a single run of whitespace.
		switch p.cur().Type {
		case token.SPACE:
			p.advance()
		case token.TRAILING_WS, token.COMMENT, token.EOF:
			return
		default:
			p.addError(p.cur().Pos, "Expected whitespace between commands", ErrUnexpectedToken)
			p.abandonLine()
			return
		}
	}
}

// parseCommand parses one command: NAME[:COND] and its arguments.
func (p *Parser) parseCommand() ast.Command {
	tok := p.cur()
	if tok.Type != token.IDENT {
		p.addError(tok.Pos, "Expected command name", ErrExpectedCommand)
		p.abandonLine()
		return nil
	}

	name, ok := matchCommand(tok.Literal)
	if !ok {
		p.addError(tok.Pos, fmt.Sprintf("Unknown command name %q", tok.Literal), ErrUnknownCommand)
		p.abandonLine()
		return nil
	}
	p.advance()

	var postcond ast.Expression
	if p.curIs(token.COLON) {
		p.advance()
		postcond = p.parseExpression()
		if p.lineFailed {
			return nil
		}
	}

	switch name {
	case "write":
		return p.parseWrite(tok, postcond)
	case "quit":
		return p.parseQuit(tok, postcond)
	case "do":
		return p.parseDo(tok, postcond)
	case "if":
		return p.parseIf(tok, postcond)
	case "else":
		return p.parseElse(tok, postcond)
	case "for":
		return p.parseFor(tok, postcond)
	case "set":
		return p.parseSet(tok, postcond)
	case "new":
		return p.parseNew(tok, postcond)
	case "kill":
		return p.parseKill(tok, postcond)
	case "merge":
		return p.parseMerge(tok, postcond)
	case "halt":
		return &ast.HaltCommand{Token: tok, Cond: postcond}
	}

	// matchCommand only returns names from the table above.
	p.addError(tok.Pos, fmt.Sprintf("Unknown command name %q", tok.Literal), ErrUnknownCommand)
	p.abandonLine()
	return nil
}

// consumeArgSpace consumes the whitespace between a command name and its
// arguments. Returns false when the command has no arguments: the name is
// followed directly by the line end, or the line ends right after the space.
func (p *Parser) consumeArgSpace() bool {
	if p.atLineEnd() {
		return false
	}
	if _, ok := p.expect(token.SPACE, "Expected whitespace after command name", ErrUnexpectedToken); !ok {
		return false
	}
	return !p.atLineEnd()
}

// consumeOptionalArgSpace is consumeArgSpace for commands whose argument
// list may be omitted mid-line (quit, kill, new, if). A run of more than
// one space after the command name means the argument is absent; the run is
// left in place to separate the next command.
func (p *Parser) consumeOptionalArgSpace() bool {
	if p.atLineEnd() {
		return false
	}
	tok := p.cur()
	if tok.Type != token.SPACE {
		p.addError(tok.Pos, "Expected whitespace after command name", ErrUnexpectedToken)
		p.abandonLine()
		return false
	}
	if tok.Length() > 1 {
		return false
	}
	p.advance()
	return !p.atLineEnd()
}
