package parser

import (
	"strconv"

	"github.com/vio-lang/violang/ast"
	"github.com/vio-lang/violang/errz"
	"github.com/vio-lang/violang/token"
)

// Parser is a recursive-descent parser over a single token stream. Each
// instance is single-use: build one with New and call Parse once.
type Parser struct {
	lexer *Lexer
	cur   token.Token
	peek  token.Token
}

// New returns a Parser ready to parse source.
func New(source string) *Parser {
	p := &Parser{lexer: NewLexer(source)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lexer.Next()
}

// Parse reads exactly one top-level expression and reports an error if
// anything but end-of-input follows it. Callers that want a whole program
// wrap the source text in "(begin ...)" before calling Parse (see
// vm.Exec), so a Violang program is always, structurally, one expression.
func (p *Parser) Parse() (ast.Exp, error) {
	exp, err := p.parseExpr()
	if err != nil {
		return ast.Exp{}, err
	}
	if p.cur.Type != token.EOF {
		return ast.Exp{}, errz.New(errz.KindParse,
			"unexpected trailing input at line %d: %s", p.cur.Position.Line, p.cur)
	}
	return exp, nil
}

func (p *Parser) parseExpr() (ast.Exp, error) {
	switch p.cur.Type {
	case token.LPAREN:
		return p.parseList()
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		exp := ast.NewString(p.cur.Literal, p.cur.Position)
		p.next()
		return exp, nil
	case token.SYMBOL:
		exp := ast.NewSymbol(p.cur.Literal, p.cur.Position)
		p.next()
		return exp, nil
	case token.EOF:
		return ast.Exp{}, errz.New(errz.KindParse, "unexpected end of input")
	default:
		return ast.Exp{}, errz.New(errz.KindParse,
			"unexpected token at line %d: %s", p.cur.Position.Line, p.cur)
	}
}

func (p *Parser) parseNumber() (ast.Exp, error) {
	lit := p.cur.Literal
	pos := p.cur.Position
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return ast.Exp{}, errz.New(errz.KindParse,
			"invalid number %q at line %d", lit, pos.Line)
	}
	p.next()
	return ast.NewNumber(n, pos), nil
}

func (p *Parser) parseList() (ast.Exp, error) {
	pos := p.cur.Position
	p.next() // consume '('

	var items []ast.Exp
	for p.cur.Type != token.RPAREN {
		if p.cur.Type == token.EOF {
			return ast.Exp{}, errz.New(errz.KindParse,
				"unterminated list starting at line %d", pos.Line)
		}
		item, err := p.parseExpr()
		if err != nil {
			return ast.Exp{}, err
		}
		items = append(items, item)
	}
	p.next() // consume ')'

	return ast.NewList(items, pos), nil
}
