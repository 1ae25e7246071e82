package parser

import (
	"github.com/Zorbn/mscript/pkg/ast"
	"github.com/Zorbn/mscript/pkg/token"
)

// parseWrite parses the comma list of write arguments: expressions and the
// #, ! and ?expr formatters.
func (p *Parser) parseWrite(tok token.Token, cond ast.Expression) ast.Command {
	cmd := &ast.WriteCommand{Token: tok, Cond: cond}
	if !p.consumeArgSpace() {
		return cmd
	}

	for {
		arg := p.parseWriteArg()
		if p.lineFailed {
			return nil
		}
		cmd.Args = append(cmd.Args, arg)

		if !p.curIs(token.COMMA) {
			return cmd
		}
		p.advance()
	}
}

// parseWriteArg parses one write argument.
func (p *Parser) parseWriteArg() ast.WriteArg {
	tok := p.cur()
	switch tok.Type {
	case token.HASH:
		p.advance()
		return &ast.WriteReset{Token: tok}
	case token.BANG:
		p.advance()
		return &ast.WriteNewline{Token: tok}
	case token.QUESTION:
		p.advance()
		expr := p.parseExpression()
		if p.lineFailed {
			return nil
		}
		return &ast.WriteColumn{Token: tok, Expr: expr}
	default:
		expr := p.parseExpression()
		if p.lineFailed {
			return nil
		}
		return &ast.WriteExpression{Expr: expr}
	}
}

// parseQuit parses quit with its optional return expression. The expression
// is absent at the line end, or mid-line when the command name is followed
// by a run of more than one space.
func (p *Parser) parseQuit(tok token.Token, cond ast.Expression) ast.Command {
	cmd := &ast.QuitCommand{Token: tok, Cond: cond}
	if !p.consumeOptionalArgSpace() {
		return cmd
	}
	cmd.Value = p.parseExpression()
	if p.lineFailed {
		return nil
	}
	return cmd
}

// parseDo parses both forms of do. A call argument follows the command name
// directly or after a single space; otherwise the do has no argument and
// opens a nested block whose body lines follow at one dot level deeper.
func (p *Parser) parseDo(tok token.Token, cond ast.Expression) ast.Command {
	if p.curIs(token.SPACE) && p.cur().Length() == 1 && p.peek().Type == token.DOLLAR {
		p.advance()
	}
	if p.curIs(token.DOLLAR) {
		call := p.parseCall()
		if p.lineFailed {
			return nil
		}
		return &ast.DoCallCommand{Token: tok, Cond: cond, Call: call}
	}

	switch p.cur().Type {
	case token.SPACE, token.TRAILING_WS, token.COMMENT, token.EOF:
		blk := &ast.DoBlockCommand{Token: tok, Cond: cond}
		p.pending = append(p.pending, blk)
		return blk
	}

	p.addError(p.cur().Pos, "Expected whitespace or call after do", ErrUnexpectedToken)
	p.abandonLine()
	return nil
}

// parseIf parses the comma list of conditions and then the rest of the line
// as the in-line body.
func (p *Parser) parseIf(tok token.Token, cond ast.Expression) ast.Command {
	cmd := &ast.IfCommand{Token: tok, Cond: cond}

	if p.consumeOptionalArgSpace() {
		for {
			expr := p.parseExpression()
			if p.lineFailed {
				return nil
			}
			cmd.Conditions = append(cmd.Conditions, expr)
			if !p.curIs(token.COMMA) {
				break
			}
			p.advance()
		}
	}

	if p.curIs(token.SPACE) {
		p.advance()
		p.parseLineCommands(&cmd.Body)
		if p.lineFailed {
			return nil
		}
	}
	return cmd
}

// parseElse parses else; the rest of the line is its in-line body.
func (p *Parser) parseElse(tok token.Token, cond ast.Expression) ast.Command {
	cmd := &ast.ElseCommand{Token: tok, Cond: cond}
	if !p.consumeArgSpace() {
		return cmd
	}
	p.parseLineCommands(&cmd.Body)
	if p.lineFailed {
		return nil
	}
	return cmd
}

// parseFor parses the optional for-argument and the in-line body. The
// for-argument is recognized by a variable followed by '='; anything else
// after the command name is the body of an argumentless for.
func (p *Parser) parseFor(tok token.Token, cond ast.Expression) ast.Command {
	cmd := &ast.ForCommand{Token: tok, Cond: cond}
	if !p.consumeArgSpace() {
		return cmd
	}

	if p.curIs(token.IDENT) && (p.peek().Type == token.EQ || p.peek().Type == token.LPAREN) {
		cmd.Var = p.parseVariable()
		if p.lineFailed {
			return nil
		}
		if _, ok := p.expect(token.EQ, "Expected = in for argument", ErrUnexpectedToken); !ok {
			return nil
		}

		for {
			param := p.parseForParameter()
			if p.lineFailed {
				return nil
			}
			cmd.Parameters = append(cmd.Parameters, param)
			if !p.curIs(token.COMMA) {
				break
			}
			p.advance()
		}

		if !p.curIs(token.SPACE) {
			return cmd
		}
		p.advance()
	}

	p.parseLineCommands(&cmd.Body)
	if p.lineFailed {
		return nil
	}
	return cmd
}

// parseForParameter parses one sweep: start, start:step, or start:step:limit.
func (p *Parser) parseForParameter() *ast.ForParameter {
	param := &ast.ForParameter{}

	param.Start = p.parseExpression()
	if p.lineFailed {
		return nil
	}
	if !p.curIs(token.COLON) {
		return param
	}
	p.advance()

	param.Step = p.parseExpression()
	if p.lineFailed {
		return nil
	}
	if !p.curIs(token.COLON) {
		return param
	}
	p.advance()

	param.Limit = p.parseExpression()
	if p.lineFailed {
		return nil
	}
	return param
}

// parseSet parses the comma list of target=expr assignments. A target is a
// variable or an extract form spliced into a variable's string value.
func (p *Parser) parseSet(tok token.Token, cond ast.Expression) ast.Command {
	cmd := &ast.SetCommand{Token: tok, Cond: cond}
	if !p.consumeArgSpace() {
		if !p.lineFailed {
			p.addError(p.cur().Pos, "Expected assignments after set", ErrUnexpectedToken)
			p.abandonLine()
		}
		return nil
	}

	for {
		target := p.parseSetTarget()
		if p.lineFailed {
			return nil
		}
		if _, ok := p.expect(token.EQ, "Expected = in assignment", ErrUnexpectedToken); !ok {
			return nil
		}
		value := p.parseExpression()
		if p.lineFailed {
			return nil
		}
		cmd.Assignments = append(cmd.Assignments, &ast.SetAssignment{Target: target, Value: value})

		if !p.curIs(token.COMMA) {
			return cmd
		}
		p.advance()
	}
}

// parseSetTarget parses the left side of one assignment.
func (p *Parser) parseSetTarget() ast.SetTarget {
	if !p.curIs(token.DOLLAR) {
		if !p.curIs(token.IDENT) {
			p.addError(p.cur().Pos, "Expected variable in assignment", ErrExpectedVariable)
			p.abandonLine()
			return nil
		}
		return p.parseVariable()
	}

	dollarTok := p.cur()
	p.advance()

	nameTok, ok := p.expect(token.IDENT, "Expected builtin name after $", ErrUnknownBuiltin)
	if !ok {
		return nil
	}
	if name, matched := matchBuiltin(nameTok.Literal); !matched || name != "extract" {
		p.addError(nameTok.Pos, "Expected variable or extract target in assignment", ErrExpectedVariable)
		p.abandonLine()
		return nil
	}

	target := &ast.ExtractTarget{Token: dollarTok}
	if _, ok := p.expect(token.LPAREN, "Expected ( after $extract", ErrUnexpectedToken); !ok {
		return nil
	}
	if !p.curIs(token.IDENT) {
		p.addError(p.cur().Pos, "Expected a variable as the first argument of $extract", ErrExpectedVariable)
		p.abandonLine()
		return nil
	}
	target.Var = p.parseVariable()
	if p.lineFailed {
		return nil
	}

	for i := 0; i < 2 && p.curIs(token.COMMA); i++ {
		p.advance()
		expr := p.parseExpression()
		if p.lineFailed {
			return nil
		}
		if i == 0 {
			target.Start = expr
		} else {
			target.End = expr
		}
	}

	if _, ok := p.expect(token.RPAREN, "Expected closing parenthesis", ErrMissingRParen); !ok {
		return nil
	}
	return target
}

// parseNew parses the comma list of names to shield in a new frame.
func (p *Parser) parseNew(tok token.Token, cond ast.Expression) ast.Command {
	cmd := &ast.NewCommand{Token: tok, Cond: cond}
	if !p.consumeOptionalArgSpace() {
		return cmd
	}

	for {
		nameTok, ok := p.expect(token.IDENT, "Expected variable name", ErrUnexpectedToken)
		if !ok {
			return nil
		}
		cmd.Names = append(cmd.Names, &ast.Identifier{Token: nameTok, Value: nameTok.Literal})
		if !p.curIs(token.COMMA) {
			return cmd
		}
		p.advance()
	}
}

// parseKill parses the comma list of variables to delete; an empty list
// clears all locals.
func (p *Parser) parseKill(tok token.Token, cond ast.Expression) ast.Command {
	cmd := &ast.KillCommand{Token: tok, Cond: cond}
	if !p.consumeOptionalArgSpace() {
		return cmd
	}

	for {
		if !p.curIs(token.IDENT) {
			p.addError(p.cur().Pos, "Expected variable in kill", ErrExpectedVariable)
			p.abandonLine()
			return nil
		}
		cmd.Vars = append(cmd.Vars, p.parseVariable())
		if p.lineFailed {
			return nil
		}
		if !p.curIs(token.COMMA) {
			return cmd
		}
		p.advance()
	}
}

// parseMerge parses merge target=source.
func (p *Parser) parseMerge(tok token.Token, cond ast.Expression) ast.Command {
	if !p.consumeArgSpace() {
		if !p.lineFailed {
			p.addError(p.cur().Pos, "Expected arguments after merge", ErrUnexpectedToken)
			p.abandonLine()
		}
		return nil
	}

	if !p.curIs(token.IDENT) {
		p.addError(p.cur().Pos, "Expected variable in merge", ErrExpectedVariable)
		p.abandonLine()
		return nil
	}
	target := p.parseVariable()
	if p.lineFailed {
		return nil
	}

	if _, ok := p.expect(token.EQ, "Expected = in merge", ErrUnexpectedToken); !ok {
		return nil
	}

	if !p.curIs(token.IDENT) {
		p.addError(p.cur().Pos, "Expected variable in merge", ErrExpectedVariable)
		p.abandonLine()
		return nil
	}
	source := p.parseVariable()
	if p.lineFailed {
		return nil
	}

	return &ast.MergeCommand{Token: tok, Cond: cond, Target: target, Source: source}
}
