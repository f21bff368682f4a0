// Package cfsyntax is the external-collaborator concrete-syntax reader for
// context-free grammars and regular expressions. The specification (§1)
// keeps any such parser deliberately out of the CORE — internal/grammar and
// internal/rex model the in-memory structures and never know how one got
// built from text. This package is the one place that constructs them from
// source text, grounded on internal/tunascript/grammar.go's
// parseGrammar/parseRule for the CFG syntax and original_source/rex.py's
// RexIterator for the RE syntax.
package cfsyntax

import (
	"strings"

	"github.com/dekarrin/ctxfree/internal/cferrors"
	"github.com/dekarrin/ctxfree/internal/grammar"
)

// ParseGrammar reads the line-oriented grammar format:
//
//	T: ( ) + * 1 2
//	N: c t s
//	S: s
//	c -> 1 | 2
//	t -> c | t * c | ( s )
//	s -> t | s + t
//
// T, N, and S declare the terminal set, non-terminal set, and start symbol
// (each may appear at most once, in any order); every other non-blank,
// non-comment line is a rule "NONTERM -> ALT | ALT | ...", alternatives
// separated by "|" and symbols within an alternative separated by
// whitespace. An alternative that is empty or the literal "ε" is the
// ε-alternative. Lines starting with "#" are comments.
//
// Unlike tunascript's parseRule, terminal/non-terminal classification is
// never inferred from letter case — spec.md's own worked examples use
// lowercase non-terminals — so T and N must be declared explicitly.
func ParseGrammar(text string) (*grammar.Grammar, error) {
	var terminals, nonTerminals []string
	start := ""
	var ruleLines []string

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "T:"):
			terminals = append(terminals, strings.Fields(line[2:])...)
		case strings.HasPrefix(line, "N:"):
			nonTerminals = append(nonTerminals, strings.Fields(line[2:])...)
		case strings.HasPrefix(line, "S:"):
			start = strings.TrimSpace(line[2:])
		default:
			ruleLines = append(ruleLines, line)
		}
	}

	if start == "" {
		return nil, cferrors.Malformedf("cfsyntax: missing start symbol declaration (\"S: ...\")")
	}

	rules := map[string][]grammar.Production{}
	for _, line := range ruleLines {
		nt, prods, err := parseRuleLine(line)
		if err != nil {
			return nil, err
		}
		rules[nt] = append(rules[nt], prods...)
	}

	return grammar.New(terminals, nonTerminals, start, rules)
}

// parseRuleLine parses one "NONTERM -> ALT | ALT | ..." line, in the shape
// of tunascript/grammar.go's parseRule.
func parseRuleLine(line string) (string, []grammar.Production, error) {
	sides := strings.SplitN(line, "->", 2)
	if len(sides) != 2 {
		return "", nil, cferrors.Malformedf("cfsyntax: not a rule of the form 'NONTERM -> SYMS | SYMS ...': %q", line)
	}

	nt := strings.TrimSpace(sides[0])
	if nt == "" {
		return "", nil, cferrors.Malformedf("cfsyntax: empty non-terminal name in rule %q", line)
	}

	var prods []grammar.Production
	for _, alt := range strings.Split(sides[1], "|") {
		alt = strings.TrimSpace(alt)
		if alt == "" || alt == "ε" {
			prods = append(prods, grammar.Production{})
			continue
		}
		prods = append(prods, grammar.Production(strings.Fields(alt)))
	}

	return nt, prods, nil
}
