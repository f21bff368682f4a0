// Package grammar models context-free grammars and the structural rewrites
// that normalize them for predictive top-down parsing: pruning unreachable
// and unproductive symbols, eliminating ε-productions, eliminating unit
// (chain) productions, eliminating left recursion, and left-factoring.
//
// A Grammar is built once via New (or incrementally via AddRule/AddTerminal)
// and then rewritten in place by the pipeline in rewrite.go; every rewrite
// takes exclusive ownership of the Grammar it mutates. See internal/descent
// for the recursive-descent membership tester consuming a normalized
// Grammar, grounded on the same shape as tunascript's Grammar type.
package grammar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/ctxfree/internal/cferrors"
	"github.com/dekarrin/ctxfree/internal/util"
)

// Production is one alternative right-hand side of a non-terminal's rule
// group: an ordered sequence of symbols. A nil or zero-length Production is
// the ε-alternative.
type Production []string

// Copy returns a deep copy of p.
func (p Production) Copy() Production {
	p2 := make(Production, len(p))
	copy(p2, p)
	return p2
}

// Equal returns whether p and o hold the same symbols in the same order.
func (p Production) Equal(o Production) bool {
	return util.EqualSlices([]string(p), []string(o))
}

// IsEpsilon returns whether p is the empty alternative.
func (p Production) IsEpsilon() bool {
	return len(p) == 0
}

// HasSymbol returns whether sym occurs anywhere in p.
func (p Production) HasSymbol(sym string) bool {
	return util.InSlice(sym, []string(p))
}

func (p Production) String() string {
	if p.IsEpsilon() {
		return "ε"
	}
	return strings.Join(p, " ")
}

// Grammar is the tuple (T, N, S, R) of §3 of the specification: a disjoint
// set of terminals and non-terminals, a start symbol in N, and a mapping
// from non-terminal to its ordered alternatives. R may omit a non-terminal
// entirely, which is equivalent to mapping it to an empty alternative list
// (an unproductive symbol).
type Grammar struct {
	Terminals    util.Set[string]
	NonTerminals util.Set[string]
	Start        string
	Rules        map[string][]Production

	// lastUsed is the fresh-symbol generator's cached starting point: the
	// next call to FreshSymbol resumes scanning from here instead of from
	// "0", keeping repeated calls amortized O(1).
	lastUsed int
}

// New constructs a Grammar from the given symbol sets, start symbol, and
// rule groups, and validates invariant (I1): every key of rules must be a
// member of nonTerminals. This is the only error construction can produce;
// it is fatal for the caller (see §7 of the specification).
func New(terminals, nonTerminals []string, start string, rules map[string][]Production) (*Grammar, error) {
	g := &Grammar{
		Terminals:    util.SetOf(terminals),
		NonTerminals: util.SetOf(nonTerminals),
		Start:        start,
		Rules:        map[string][]Production{},
	}

	for nt, prods := range rules {
		copied := make([]Production, len(prods))
		for i, p := range prods {
			copied[i] = p.Copy()
		}
		g.Rules[nt] = copied
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// Validate checks the construction invariants of §3: every key of Rules is
// a non-terminal, and every symbol appearing in a production is either a
// terminal or a non-terminal.
func (g *Grammar) Validate() error {
	var problems []string

	for nt := range g.Rules {
		if !g.NonTerminals.Has(nt) {
			problems = append(problems, fmt.Sprintf("rule group key %q is not in NonTerminals", nt))
		}
	}

	for nt, prods := range g.Rules {
		for _, p := range prods {
			for _, sym := range p {
				if !g.Terminals.Has(sym) && !g.NonTerminals.Has(sym) {
					problems = append(problems, fmt.Sprintf("symbol %q produced by %q is neither a terminal nor a non-terminal", sym, nt))
				}
			}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return cferrors.Invariantf("invalid grammar: %s", strings.Join(problems, "; "))
	}

	return nil
}

// Rule returns the ordered alternatives for nonterminal. A non-terminal
// absent from Rules has no alternatives (it is unproductive), per (I2).
func (g *Grammar) Rule(nonterminal string) []Production {
	return g.Rules[nonterminal]
}

// SetRule replaces the alternatives for nonterminal wholesale.
func (g *Grammar) SetRule(nonterminal string, prods []Production) {
	if len(prods) == 0 {
		delete(g.Rules, nonterminal)
		return
	}
	g.Rules[nonterminal] = prods
}

// AddRule appends production as an alternative for nonterminal, adding
// nonterminal to NonTerminals if it is new.
func (g *Grammar) AddRule(nonterminal string, production Production) {
	g.NonTerminals.Add(nonterminal)
	g.Rules[nonterminal] = append(g.Rules[nonterminal], production.Copy())
}

// AddTerminal registers sym as a terminal symbol.
func (g *Grammar) AddTerminal(sym string) {
	g.Terminals.Add(sym)
}

// RemoveNonTerminal drops nonterminal from N and its rule group from R.
func (g *Grammar) RemoveNonTerminal(nonterminal string) {
	g.NonTerminals.Remove(nonterminal)
	delete(g.Rules, nonterminal)
}

// OrderedNonTerminals returns the non-terminals of g in a deterministic
// (sorted) order. Several rewrites iterate "all non-terminals" and must do
// so in a stable order for reproducible output.
func (g *Grammar) OrderedNonTerminals() []string {
	return util.OrderedKeys(setToMap(g.NonTerminals))
}

func setToMap(s util.Set[string]) map[string]bool {
	return map[string]bool(s)
}

// FreshSymbol returns a name guaranteed to be absent from Terminals ∪
// NonTerminals, using the decimal-counter scheme of §3: "0", "1", ... It
// does not itself add the name to either set; callers that want it to become
// a non-terminal call AddRule/NonTerminals.Add with the returned name.
func (g *Grammar) FreshSymbol() string {
	for {
		name := strconv.Itoa(g.lastUsed)
		g.lastUsed++
		if !g.Terminals.Has(name) && !g.NonTerminals.Has(name) {
			return name
		}
	}
}

// Copy returns a deep copy of g, used by internal/descent so that
// normalizing a grammar for parsing never mutates the caller's copy.
func (g *Grammar) Copy() *Grammar {
	g2 := &Grammar{
		Terminals:    g.Terminals.Copy(),
		NonTerminals: g.NonTerminals.Copy(),
		Start:        g.Start,
		Rules:        make(map[string][]Production, len(g.Rules)),
		lastUsed:     g.lastUsed,
	}

	for nt, prods := range g.Rules {
		copied := make([]Production, len(prods))
		for i, p := range prods {
			copied[i] = p.Copy()
		}
		g2.Rules[nt] = copied
	}

	return g2
}

func (g *Grammar) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("(T=%s, N=%s, S=%q, R={", g.Terminals.StringOrdered(), g.NonTerminals.StringOrdered(), g.Start))

	nts := g.OrderedNonTerminals()
	for i, nt := range nts {
		prodStrs := make([]string, len(g.Rules[nt]))
		for j, p := range g.Rules[nt] {
			prodStrs[j] = p.String()
		}
		sb.WriteString(fmt.Sprintf("%s -> %s", nt, strings.Join(prodStrs, " | ")))
		if i+1 < len(nts) {
			sb.WriteString("; ")
		}
	}

	sb.WriteString("})")

	return sb.String()
}
