// Package parser implements a recursive-descent parser for Android Blueprint
// source, producing an *ast.File. The parser makes no error-recovery
// attempt: it reports the first failure as a *ParseError and stops.
package parser

import (
	"fmt"

	"github.com/martinbrook/bp2bst/internal/ast"
	"github.com/martinbrook/bp2bst/internal/lexer"
)

// ParseError is a lex or parse failure with a source position.
type ParseError struct {
	Message string
	Pos     lexer.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

const unsetSentinel = "__unset__"

// Parser consumes a pre-tokenized Blueprint source and produces an AST.
type Parser struct {
	tokens []lexer.Token
	pos    int
	name   string
}

// Parse tokenizes and parses src, returning the resulting File or the first
// error encountered.
func Parse(name, src string) (*ast.File, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			return nil, &ParseError{Message: lexErr.Message, Pos: lexErr.Pos}
		}
		return nil, err
	}
	p := &Parser{tokens: tokens, name: name}
	return p.parseFile()
}

func (p *Parser) peek() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Type: lexer.EOF}
}

func (p *Parser) peekAt(off int) lexer.Token {
	if p.pos+off < len(p.tokens) {
		return p.tokens[p.pos+off]
	}
	return lexer.Token{Type: lexer.EOF}
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) at(t lexer.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) match(t lexer.TokenType) (lexer.Token, bool) {
	if p.at(t) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	tok := p.advance()
	if tok.Type != t {
		return tok, &ParseError{
			Message: fmt.Sprintf("expected %s, got %s (%q)", t, tok.Type, tok.Value),
			Pos:     tok.Pos,
		}
	}
	return tok, nil
}

func (p *Parser) parseFile() (*ast.File, error) {
	file := &ast.File{Name: p.name}
	for !p.at(lexer.EOF) {
		def, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		file.Defs = append(file.Defs, def)
	}
	return file, nil
}

func (p *Parser) parseDefinition() (ast.Def, error) {
	tok := p.peek()
	if tok.Type != lexer.IDENT {
		return nil, &ParseError{
			Message: fmt.Sprintf("expected identifier at top level, got %s (%q)", tok.Type, tok.Value),
			Pos:     tok.Pos,
		}
	}

	next := p.peekAt(1)
	switch next.Type {
	case lexer.ASSIGN, lexer.PLUSEQ:
		return p.parseAssignment()
	case lexer.LBRACE:
		return p.parseModule()
	default:
		return nil, &ParseError{
			Message: fmt.Sprintf("expected '=', '+=', or '{' after identifier %q, got %s", tok.Value, next.Type),
			Pos:     next.Pos,
		}
	}
}

func (p *Parser) parseAssignment() (*ast.Assignment, error) {
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	var assigner string
	if _, ok := p.match(lexer.PLUSEQ); ok {
		assigner = "+="
	} else if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	} else {
		assigner = "="
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Name: nameTok.Value, Value: value, Assigner: assigner, Pos: nameTok.Pos}, nil
}

func (p *Parser) parseModule() (*ast.Module, error) {
	typeTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	props, err := p.parseMapBody()
	if err != nil {
		return nil, err
	}
	return &ast.Module{Type: typeTok.Value, Properties: props, Pos: typeTok.Pos}, nil
}

func (p *Parser) parseMapBody() ([]*ast.Property, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var props []*ast.Property
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
		p.match(lexer.COMMA)
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return props, nil
}

func (p *Parser) parseProperty() (*ast.Property, error) {
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Property{Name: nameTok.Value, Value: value, Pos: nameTok.Pos}, nil
}

func (p *Parser) parseExpr() (ast.Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.PLUS) {
		plusTok := p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &ast.Operator{Left: left, Op: "+", Right: right, Position: plusTok.Pos}
	}
	return left, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()

	switch tok.Type {
	case lexer.STRING:
		p.advance()
		return &ast.String{Value: tok.Value, Position: tok.Pos}, nil

	case lexer.INT:
		p.advance()
		var v int64
		neg := false
		s := tok.Value
		if len(s) > 0 && s[0] == '-' {
			neg = true
			s = s[1:]
		}
		for _, c := range s {
			v = v*10 + int64(c-'0')
		}
		if neg {
			v = -v
		}
		return &ast.Int{Value: v, Position: tok.Pos}, nil

	case lexer.LBRACKET:
		return p.parseList()

	case lexer.LBRACE:
		props, err := p.parseMapBody()
		if err != nil {
			return nil, err
		}
		return &ast.Map{Properties: props, Position: tok.Pos}, nil

	case lexer.IDENT:
		switch tok.Value {
		case "true":
			p.advance()
			return &ast.Bool{Value: true, Position: tok.Pos}, nil
		case "false":
			p.advance()
			return &ast.Bool{Value: false, Position: tok.Pos}, nil
		case "unset":
			p.advance()
			return &ast.String{Value: unsetSentinel, Position: tok.Pos}, nil
		case "select":
			return p.parseSelect()
		default:
			p.advance()
			return &ast.VariableRef{Name: tok.Value, Position: tok.Pos}, nil
		}
	}

	return nil, &ParseError{
		Message: fmt.Sprintf("unexpected token in expression: %s (%q)", tok.Type, tok.Value),
		Pos:     tok.Pos,
	}
}

func (p *Parser) parseList() (*ast.List, error) {
	lbrack, err := p.expect(lexer.LBRACKET)
	if err != nil {
		return nil, err
	}
	var values []ast.Expression
	for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		p.match(lexer.COMMA)
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.List{Values: values, Position: lbrack.Pos}, nil
}

func (p *Parser) parseSelect() (*ast.Select, error) {
	selectTok, err := p.expect(lexer.IDENT) // "select"
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	funcNameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var funcArgs []string
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		argTok, err := p.expect(lexer.STRING)
		if err != nil {
			return nil, err
		}
		funcArgs = append(funcArgs, argTok.Value)
		p.match(lexer.COMMA)
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COMMA); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var cases []ast.SelectCase
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		var patterns []*ast.String
		switch {
		case p.at(lexer.STRING):
			tok := p.advance()
			patterns = []*ast.String{{Value: tok.Value, Position: tok.Pos}}
		case p.at(lexer.IDENT):
			tok := p.advance()
			patterns = []*ast.String{{Value: tok.Value, Position: tok.Pos}}
		case p.at(lexer.LPAREN):
			p.advance()
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				strTok, err := p.expect(lexer.STRING)
				if err != nil {
					return nil, err
				}
				patterns = append(patterns, &ast.String{Value: strTok.Value, Position: strTok.Pos})
				p.match(lexer.COMMA)
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
		default:
			tok := p.peek()
			return nil, &ParseError{
				Message: fmt.Sprintf("expected pattern in select case, got %s", tok.Type),
				Pos:     tok.Pos,
			}
		}

		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cases = append(cases, ast.SelectCase{Patterns: patterns, Value: value})
		p.match(lexer.COMMA)
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	return &ast.Select{
		FuncName: funcNameTok.Value,
		FuncArgs: funcArgs,
		Cases:    cases,
		Position: selectTok.Pos,
	}, nil
}
