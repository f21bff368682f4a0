// Package descent implements a naive top-down backtracking acceptor over a
// context-free grammar: the recursive-descent membership tester of §4.4 of
// the specification. It is grounded directly on original_source/parser.py's
// Parser class, kept to the same construction and recursion shape.
package descent

import "github.com/dekarrin/ctxfree/internal/grammar"

// Parser decides membership in the language of a grammar by naive recursive
// backtracking. It owns a normalized copy of the grammar it was built from;
// the caller's grammar is never mutated.
type Parser struct {
	g *grammar.Grammar
}

// New deep-copies g and normalizes the copy by eliminating left recursion
// and then left-factoring it, so the backtracking search in IsInLanguage
// never loops on a left-recursive alternative and always has a
// deterministic first symbol to dispatch on per non-terminal.
func New(g *grammar.Grammar) *Parser {
	normalized := g.Copy()
	normalized.EliminateLeftRecursion()
	normalized.LeftFactorize()
	return &Parser{g: normalized}
}

// IsInLanguage reports whether w is in the language of the grammar the
// Parser was constructed from.
//
// This can recurse without bound on a grammar outside the normalized class;
// callers working with untrusted or pathological grammars should impose
// their own recursion depth cap, per §4.4 and §7 of the specification.
func (p *Parser) IsInLanguage(w []string) bool {
	return p.accepts(w, []string{p.g.Start})
}

// accepts is the backtracking search itself: cur is the remaining stack of
// symbols still to be matched against w, left to right.
func (p *Parser) accepts(w []string, cur []string) bool {
	if len(w) == 0 {
		vanishing := p.g.Vanishing()
		for _, sym := range cur {
			if !vanishing.Has(sym) {
				return false
			}
		}
		return true
	}

	if len(cur) == 0 {
		return false
	}

	head, rest := cur[0], cur[1:]

	if p.g.Terminals.Has(head) {
		if w[0] == head {
			return p.accepts(w[1:], rest)
		}
		return false
	}

	for _, alt := range p.g.Rule(head) {
		candidate := make([]string, 0, len(alt)+len(rest))
		candidate = append(candidate, alt...)
		candidate = append(candidate, rest...)
		if p.accepts(w, candidate) {
			return true
		}
	}

	return false
}
