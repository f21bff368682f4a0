package grammar

import (
	"github.com/dekarrin/ctxfree/internal/graph"
	"github.com/dekarrin/ctxfree/internal/util"
)

// Alive returns the smallest set of non-terminals containing every A with
// some alternative whose symbols are all terminals or already-alive
// non-terminals (§4.2). Computed by monotone fixed-point iteration: a pass
// adds any newly-witnessed non-terminal, and we stop when a pass adds
// nothing.
func (g *Grammar) Alive() util.Set[string] {
	alive := util.NewSet[string]()

	changed := true
	for changed {
		changed = false
		for _, nt := range g.OrderedNonTerminals() {
			if alive.Has(nt) {
				continue
			}
			for _, p := range g.Rules[nt] {
				if g.allAliveOrTerminal(p, alive) {
					alive.Add(nt)
					changed = true
					break
				}
			}
		}
	}

	return alive
}

func (g *Grammar) allAliveOrTerminal(p Production, alive util.Set[string]) bool {
	for _, sym := range p {
		if g.Terminals.Has(sym) {
			continue
		}
		if alive.Has(sym) {
			continue
		}
		return false
	}
	return true
}

// Reachable returns the smallest set of non-terminals containing Start and,
// transitively, every non-terminal appearing in any alternative of an
// already-reachable non-terminal (§4.2). If Start is not in NonTerminals,
// the result is empty.
func (g *Grammar) Reachable() util.Set[string] {
	reachable := util.NewSet[string]()
	if !g.NonTerminals.Has(g.Start) {
		return reachable
	}
	reachable.Add(g.Start)

	changed := true
	for changed {
		changed = false
		for _, nt := range g.OrderedNonTerminals() {
			if !reachable.Has(nt) {
				continue
			}
			for _, p := range g.Rules[nt] {
				for _, sym := range p {
					if g.NonTerminals.Has(sym) && !reachable.Has(sym) {
						reachable.Add(sym)
						changed = true
					}
				}
			}
		}
	}

	return reachable
}

// Vanishing returns the smallest set of non-terminals ("nullable") that can
// derive the empty string: every A with some alternative whose symbols are
// all already-vanishing. Terminals are never vanishing (§4.2).
func (g *Grammar) Vanishing() util.Set[string] {
	vanishing := util.NewSet[string]()

	changed := true
	for changed {
		changed = false
		for _, nt := range g.OrderedNonTerminals() {
			if vanishing.Has(nt) {
				continue
			}
			for _, p := range g.Rules[nt] {
				if p.IsEpsilon() || g.allVanishing(p, vanishing) {
					vanishing.Add(nt)
					changed = true
					break
				}
			}
		}
	}

	return vanishing
}

func (g *Grammar) allVanishing(p Production, vanishing util.Set[string]) bool {
	for _, sym := range p {
		if !vanishing.Has(sym) {
			return false
		}
	}
	return true
}

// HasLeftRecursion builds a directed graph over NonTerminals with an edge
// A → B iff some alternative of A begins with a (possibly empty) prefix of
// vanishing non-terminals followed by B, and reports whether that graph has
// a cycle — including a self-loop, which covers direct left recursion
// (§4.2).
func (g *Grammar) HasLeftRecursion() bool {
	return g.leftRecursionGraph().HasCycle()
}

func (g *Grammar) leftRecursionGraph() graph.Graph[string] {
	vanishing := g.Vanishing()

	gr := make(graph.Graph[string], g.NonTerminals.Len())
	for _, nt := range g.OrderedNonTerminals() {
		gr[nt] = nil
	}

	for _, nt := range g.OrderedNonTerminals() {
		for _, p := range g.Rules[nt] {
			for _, sym := range p {
				if !g.NonTerminals.Has(sym) {
					// a terminal blocks the prefix: no edge from this
					// alternative beyond this point.
					break
				}
				gr[nt] = append(gr[nt], sym)
				if !vanishing.Has(sym) {
					// sym can't vanish, so nothing past it is still a
					// "left" position.
					break
				}
			}
		}
	}

	return gr
}
