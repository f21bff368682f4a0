package cfsyntax

import (
	"unicode"

	"github.com/dekarrin/ctxfree/internal/cferrors"
	"github.com/dekarrin/ctxfree/internal/rex"
)

// ParseRE reads the parenthesized concrete syntax from
// original_source/rex.py's RexIterator: "(a,b)" for concatenation, "(a|b)"
// for union, "x*" for zero-or-more, and a bare run of letters or digits for
// a symbol. Unlike RexIterator (which accepted only single-letter symbols),
// a symbol token here is the maximal run of letters and digits, so
// multi-character tokens like "cat" or "n" parse as one Symbol rather than
// a concatenation of single characters — matching §4.5's note that a
// Symbol's payload may itself be multi-character. An empty string parses
// as Eps.
func ParseRE(text string) (rex.RE, error) {
	p := &reParser{src: []rune(text)}
	p.skipSpace()

	if p.atEnd() {
		return rex.Eps{}, nil
	}

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.atEnd() {
		return nil, cferrors.Malformedf("cfsyntax: unexpected trailing input %q", p.remainder())
	}

	return e, nil
}

type reParser struct {
	src []rune
	pos int
}

func (p *reParser) atEnd() bool  { return p.pos >= len(p.src) }
func (p *reParser) peek() rune   { return p.src[p.pos] }
func (p *reParser) advance()     { p.pos++ }
func (p *reParser) remainder() string {
	return string(p.src[p.pos:])
}

func (p *reParser) skipSpace() {
	for !p.atEnd() && unicode.IsSpace(p.peek()) {
		p.advance()
	}
}

func isSymbolRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (p *reParser) readSymbol() string {
	start := p.pos
	for !p.atEnd() && isSymbolRune(p.peek()) {
		p.advance()
	}
	return string(p.src[start:p.pos])
}

func (p *reParser) parseExpr() (rex.RE, error) {
	p.skipSpace()
	if p.atEnd() {
		return nil, cferrors.Malformedf("cfsyntax: unexpected end of regular expression")
	}

	var result rex.RE

	switch {
	case p.peek() == '(':
		p.advance()

		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if p.atEnd() || (p.peek() != ',' && p.peek() != '|') {
			return nil, cferrors.Malformedf("cfsyntax: expected ',' or '|' after '(', found %q", p.remainder())
		}
		op := p.peek()
		p.advance()

		second, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if p.atEnd() || p.peek() != ')' {
			return nil, cferrors.Malformedf("cfsyntax: expected ')', found %q", p.remainder())
		}
		p.advance()

		if op == ',' {
			result = rex.Concat{First: first, Second: second}
		} else {
			result = rex.Union{First: first, Second: second}
		}

	case isSymbolRune(p.peek()):
		result = rex.Sym{Value: p.readSymbol()}

	default:
		return nil, cferrors.Malformedf("cfsyntax: unexpected %q found", string(p.peek()))
	}

	p.skipSpace()
	for !p.atEnd() && p.peek() == '*' {
		result = rex.Star{Inner: result}
		p.advance()
		p.skipSpace()
	}

	return result, nil
}
