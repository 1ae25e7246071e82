package parser

import (
	"fmt"
	"strings"

	"github.com/Zorbn/mscript/pkg/ast"
	"github.com/Zorbn/mscript/pkg/token"
)

// binaryOps maps operator tokens to their source spelling. There is no
// precedence: expressions evaluate strictly left to right, with parentheses
// as the only grouping.
var binaryOps = map[token.Type]string{
	token.BANG:       "!",
	token.AMPERSAND:  "&",
	token.EQ:         "=",
	token.LESS:       "<",
	token.GREATER:    ">",
	token.PLUS:       "+",
	token.MINUS:      "-",
	token.ASTERISK:   "*",
	token.POWER:      "**",
	token.SLASH:      "/",
	token.BACKSLASH:  "\\",
	token.HASH:       "#",
	token.UNDERSCORE: "_",
}

// parseExpression parses a full expression: a unary operand followed by any
// number of binary operator / operand pairs, folded left to right.
func (p *Parser) parseExpression() ast.Expression {
	left := p.parseUnary()
	if p.lineFailed {
		return nil
	}

	for {
		opTok := p.cur()
		negated := false

		if opTok.Type == token.APOSTROPHE {
			if _, ok := binaryOps[p.peek().Type]; !ok {
				return left
			}
			negated = true
			p.advance()
			opTok = p.cur()
		}

		op, ok := binaryOps[opTok.Type]
		if !ok {
			return left
		}
		p.advance()

		right := p.parseUnary()
		if p.lineFailed {
			return nil
		}

		left = &ast.InfixExpression{
			Token:    opTok,
			Operator: op,
			Negated:  negated,
			Left:     left,
			Right:    right,
		}
	}
}

// parseUnary parses the prefix operators ', + and - applied to a primary.
func (p *Parser) parseUnary() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.APOSTROPHE, token.PLUS, token.MINUS:
		p.advance()
		right := p.parseUnary()
		if p.lineFailed {
			return nil
		}
		return &ast.PrefixExpression{Token: tok, Operator: tok.Literal, Right: right}
	}
	return p.parsePrimary()
}

// parsePrimary parses a literal, variable, parenthesized expression, call,
// or builtin invocation.
func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()

	switch tok.Type {
	case token.NUMBER:
		p.advance()
		return &ast.NumberLiteral{Token: tok, Value: tok.Value}

	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}

	case token.IDENT:
		return p.parseVariable()

	case token.LPAREN:
		p.advance()
		expr := p.parseExpression()
		if p.lineFailed {
			return nil
		}
		if _, ok := p.expect(token.RPAREN, "Expected closing parenthesis", ErrMissingRParen); !ok {
			return nil
		}
		return &ast.GroupedExpression{Token: tok, Expression: expr}

	case token.DOLLAR:
		if p.peek().Type == token.DOLLAR {
			return p.parseCall()
		}
		return p.parseBuiltin()
	}

	p.addError(tok.Pos, fmt.Sprintf("Unexpected token %s in expression", tok.Type), ErrExpectedExpression)
	p.abandonLine()
	return nil
}

// parseVariable parses a variable reference: a name with an optional
// parenthesized subscript list.
func (p *Parser) parseVariable() *ast.VariableExpression {
	nameTok, ok := p.expect(token.IDENT, "Expected variable name", ErrExpectedVariable)
	if !ok {
		return nil
	}
	v := &ast.VariableExpression{Token: nameTok, Name: nameTok.Literal}

	if !p.curIs(token.LPAREN) {
		return v
	}
	p.advance()

	for {
		sub := p.parseExpression()
		if p.lineFailed {
			return nil
		}
		v.Subscripts = append(v.Subscripts, sub)
		if !p.curIs(token.COMMA) {
			break
		}
		p.advance()
	}

	if _, ok := p.expect(token.RPAREN, "Expected closing parenthesis", ErrMissingRParen); !ok {
		return nil
	}
	return v
}

// parseCall parses a tag or host-function call. Statement calls use a single
// $, value calls use $$. The cursor is on the first $.
func (p *Parser) parseCall() *ast.CallExpression {
	dollarTok := p.cur()
	p.advance()

	withReturn := false
	if p.curIs(token.DOLLAR) {
		withReturn = true
		p.advance()
	}

	nameTok, ok := p.expect(token.IDENT, "Expected tag name after $", ErrUnexpectedToken)
	if !ok {
		return nil
	}

	call := &ast.CallExpression{
		Token:      dollarTok,
		Name:       nameTok.Literal,
		WithReturn: withReturn,
	}

	if !p.curIs(token.LPAREN) {
		return call
	}
	p.advance()

	if !p.curIs(token.RPAREN) {
		for {
			arg := p.parseCallArgument()
			if p.lineFailed {
				return nil
			}
			call.Args = append(call.Args, arg)
			if !p.curIs(token.COMMA) {
				break
			}
			p.advance()
		}
	}

	if _, ok := p.expect(token.RPAREN, "Expected closing parenthesis", ErrMissingRParen); !ok {
		return nil
	}
	return call
}

// parseCallArgument parses one call argument: a .name reference or an
// expression.
func (p *Parser) parseCallArgument() *ast.CallArgument {
	tok := p.cur()
	if tok.Type == token.DOT {
		p.advance()
		nameTok, ok := p.expect(token.IDENT, "Expected variable name after .", ErrExpectedVariable)
		if !ok {
			return nil
		}
		return &ast.CallArgument{Token: tok, ByRef: true, Name: nameTok.Literal}
	}

	expr := p.parseExpression()
	if p.lineFailed {
		return nil
	}
	return &ast.CallArgument{Token: tok, Value: expr}
}

// builtinNames lists the builtin names in canonical order. Like commands,
// builtins are matched by case-insensitive prefix against this table and an
// ambiguous abbreviation resolves to the earlier entry.
var builtinNames = []string{
	"order", "length", "extract", "select", "find", "random", "ascii", "char",
}

// builtinArity gives the fixed argument ranges enforced at parse time.
// Select is absent: its pair arguments are parsed separately.
var builtinArity = map[string][2]int{
	"order":   {1, 2},
	"length":  {1, 1},
	"extract": {1, 3},
	"find":    {2, 3},
	"random":  {1, 1},
	"ascii":   {1, 1},
	"char":    {1, 1},
}

// matchBuiltin resolves a case-insensitive builtin abbreviation.
func matchBuiltin(word string) (string, bool) {
	lower := strings.ToLower(word)
	for _, name := range builtinNames {
		if strings.HasPrefix(name, lower) {
			return name, true
		}
	}
	return "", false
}

// parseBuiltin parses a $name(...) builtin invocation. The cursor is on the $.
func (p *Parser) parseBuiltin() ast.Expression {
	dollarTok := p.cur()
	p.advance()

	nameTok, ok := p.expect(token.IDENT, "Expected builtin name after $", ErrUnknownBuiltin)
	if !ok {
		return nil
	}

	name, matched := matchBuiltin(nameTok.Literal)
	if !matched {
		p.addError(nameTok.Pos, fmt.Sprintf("Unknown builtin name %q", nameTok.Literal), ErrUnknownBuiltin)
		p.abandonLine()
		return nil
	}

	if name == "select" {
		return p.parseSelect(dollarTok)
	}

	if _, ok := p.expect(token.LPAREN, "Expected ( after builtin name", ErrUnexpectedToken); !ok {
		return nil
	}

	builtin := &ast.BuiltinCall{Token: dollarTok, Name: name}

	if name == "order" {
		// The first argument of $order is a variable reference, not a value.
		if !p.curIs(token.IDENT) {
			p.addError(p.cur().Pos, "Expected a variable as the first argument of $order", ErrExpectedVariable)
			p.abandonLine()
			return nil
		}
		builtin.Args = append(builtin.Args, p.parseVariable())
		if p.lineFailed {
			return nil
		}
		if p.curIs(token.COMMA) {
			p.advance()
			dir := p.parseExpression()
			if p.lineFailed {
				return nil
			}
			builtin.Args = append(builtin.Args, dir)
		}
	} else if !p.curIs(token.RPAREN) {
		for {
			arg := p.parseExpression()
			if p.lineFailed {
				return nil
			}
			builtin.Args = append(builtin.Args, arg)
			if !p.curIs(token.COMMA) {
				break
			}
			p.advance()
		}
	}

	if _, ok := p.expect(token.RPAREN, "Expected closing parenthesis", ErrMissingRParen); !ok {
		return nil
	}

	arity := builtinArity[name]
	if len(builtin.Args) < arity[0] || len(builtin.Args) > arity[1] {
		p.addError(dollarTok.Pos,
			fmt.Sprintf("Wrong number of arguments for $%s", name), ErrBadArity)
		p.abandonLine()
		return nil
	}

	return builtin
}

// parseSelect parses $select(c1:v1, c2:v2, ...). The cursor is past the
// builtin name.
func (p *Parser) parseSelect(dollarTok token.Token) ast.Expression {
	if _, ok := p.expect(token.LPAREN, "Expected ( after builtin name", ErrUnexpectedToken); !ok {
		return nil
	}

	sel := &ast.SelectCall{Token: dollarTok}
	for {
		cond := p.parseExpression()
		if p.lineFailed {
			return nil
		}
		if _, ok := p.expect(token.COLON, "Expected : in select case", ErrUnexpectedToken); !ok {
			return nil
		}
		value := p.parseExpression()
		if p.lineFailed {
			return nil
		}
		sel.Cases = append(sel.Cases, &ast.SelectCase{Cond: cond, Value: value})

		if !p.curIs(token.COMMA) {
			break
		}
		p.advance()
	}

	if _, ok := p.expect(token.RPAREN, "Expected closing parenthesis", ErrMissingRParen); !ok {
		return nil
	}
	if len(sel.Cases) == 0 {
		p.addError(dollarTok.Pos, "Wrong number of arguments for $select", ErrBadArity)
		p.abandonLine()
		return nil
	}
	return sel
}
