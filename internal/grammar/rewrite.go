package grammar

import (
	"github.com/dekarrin/ctxfree/internal/graph"
	"github.com/dekarrin/ctxfree/internal/util"
)

// DeleteUnreachable removes from NonTerminals and Rules every non-terminal
// not in Reachable(g) (§4.3). Language preserved.
func (g *Grammar) DeleteUnreachable() {
	reachable := g.Reachable()

	for _, nt := range g.OrderedNonTerminals() {
		if !reachable.Has(nt) {
			g.RemoveNonTerminal(nt)
		}
	}

	g.NonTerminals = reachable
}

// DeleteDead removes from NonTerminals every non-terminal not in Alive(g);
// in every surviving alternative, alternatives that mention any dead
// non-terminal are discarded (§4.3). Language preserved.
func (g *Grammar) DeleteDead() {
	alive := g.Alive()

	for nt := range g.Rules {
		var kept []Production
		for _, p := range g.Rules[nt] {
			if g.allAliveOrTerminal(p, alive) {
				kept = append(kept, p)
			}
		}
		g.Rules[nt] = kept
	}

	for _, nt := range g.OrderedNonTerminals() {
		if !alive.Has(nt) {
			delete(g.Rules, nt)
		}
	}

	g.NonTerminals = alive
}

// DeleteExtraNonTerminals prunes dead non-terminals, then unreachable ones.
// The order matters: dead-first may leave otherwise-unreachable but
// productive non-terminals for the unreachable pass to remove; the reverse
// order can leave non-terminals reachable only through dead siblings (§4.3,
// scenario 6 of the specification).
func (g *Grammar) DeleteExtraNonTerminals() {
	g.DeleteDead()
	g.DeleteUnreachable()
}

// expandVanishingSubsequences emits every subsequence of p obtained by
// independently keeping or dropping each symbol that is vanishing, except
// the subsequence that would be entirely empty. Positions that are not
// vanishing are always kept. This is the exact mask-based rule described in
// the specification's §4.3/Open Question: it is preserved literally, with no
// post-hoc deduplication, even though some masks may coincide.
func expandVanishingSubsequences(p Production, vanishing util.Set[string]) []Production {
	var vanishingIdx []int
	for i, sym := range p {
		if vanishing.Has(sym) {
			vanishingIdx = append(vanishingIdx, i)
		}
	}

	k := len(vanishingIdx)
	combinations := 1 << k
	bounds := append(append([]int{}, vanishingIdx...), len(p))

	var results []Production
	for mask := 0; mask < combinations; mask++ {
		var newRule []string
		beg := 0
		for i, ind := range bounds {
			end := ind
			if i < k && (mask>>i)&1 == 1 {
				end = ind + 1
			}
			newRule = append(newRule, p[beg:end]...)
			beg = ind + 1
		}
		if len(newRule) > 0 {
			results = append(results, Production(newRule))
		}
	}

	return results
}

// DeleteVanishings eliminates ε-productions while preserving the language:
// every alternative is replaced by every non-empty subsequence obtainable by
// dropping vanishing symbols from it, and if the start symbol was itself
// vanishing, a fresh start S' with alternatives {[S], []} takes its place so
// the empty string stays in the language (§4.3). Post-condition: no
// non-terminal other than possibly the new start has an ε-alternative.
func (g *Grammar) DeleteVanishings() {
	vanishing := g.Vanishing()

	for _, nt := range g.OrderedNonTerminals() {
		var newProds []Production
		for _, p := range g.Rules[nt] {
			newProds = append(newProds, expandVanishingSubsequences(p, vanishing)...)
		}
		g.Rules[nt] = newProds
	}

	if vanishing.Has(g.Start) {
		newStart := g.FreshSymbol()
		g.NonTerminals.Add(newStart)
		g.Rules[newStart] = []Production{{g.Start}, {}}
		g.Start = newStart
	}
}

// DeleteChainRules eliminates unit (chain) productions A -> B. It builds the
// unit-production graph over non-terminals, strips every unit alternative
// from every rule group, then for every pair (A, B) with A != B and B
// reachable from A in that graph, appends a copy of B's (now unit-free)
// alternatives onto A's (§4.3). Language preserved.
func (g *Grammar) DeleteChainRules() {
	unitGraph := make(graph.Graph[string], g.NonTerminals.Len())
	for _, nt := range g.OrderedNonTerminals() {
		unitGraph[nt] = nil
		for _, p := range g.Rules[nt] {
			if len(p) == 1 && g.NonTerminals.Has(p[0]) {
				unitGraph[nt] = append(unitGraph[nt], p[0])
			}
		}
	}
	reach := unitGraph.Reachables()

	stripped := make(map[string][]Production, len(g.Rules))
	for _, nt := range g.OrderedNonTerminals() {
		var kept []Production
		for _, p := range g.Rules[nt] {
			if len(p) == 1 && g.NonTerminals.Has(p[0]) {
				continue
			}
			kept = append(kept, p)
		}
		stripped[nt] = kept
	}

	final := make(map[string][]Production, len(stripped))
	for nt, prods := range stripped {
		cp := make([]Production, len(prods))
		copy(cp, prods)
		final[nt] = cp
	}

	for _, a := range g.OrderedNonTerminals() {
		for _, b := range util.OrderedKeys(reach[a]) {
			if a != b {
				final[a] = append(final[a], stripped[b]...)
			}
		}
	}

	g.Rules = final
}

func anyProductionStartsWith(prods []Production, sym string) bool {
	for _, p := range prods {
		if len(p) > 0 && p[0] == sym {
			return true
		}
	}
	return false
}

func indexOf(sl []string, v string) int {
	for i, x := range sl {
		if x == v {
			return i
		}
	}
	return -1
}

// EliminateLeftRecursion removes direct and indirect left recursion (§4.3).
// If the grammar has none, this is a no-op. Otherwise it first prunes
// extras, eliminates ε- and chain-productions, and prunes extras again (so
// every alternative is unit-free and ε-free except possibly at the new
// start), then applies the classic substitution algorithm: non-terminals
// are ordered with the start symbol processed first (the reference's
// "swapped order", preserved verbatim per the specification's Open
// Question), and each is split into immediate-left-recursive alternatives
// (which move to a fresh non-terminal) and the rest, propagating the result
// into every not-yet-processed non-terminal whose productions began with
// it. Language preserved; post-condition is that HasLeftRecursion is false.
func (g *Grammar) EliminateLeftRecursion() {
	if !g.HasLeftRecursion() {
		return
	}

	g.DeleteExtraNonTerminals()
	g.DeleteVanishings()
	g.DeleteChainRules()
	g.DeleteExtraNonTerminals()

	nonterminals := g.OrderedNonTerminals()
	if idx := indexOf(nonterminals, g.Start); idx >= 0 {
		last := len(nonterminals) - 1
		nonterminals[idx], nonterminals[last] = nonterminals[last], nonterminals[idx]
	}

	for len(nonterminals) > 0 {
		nonTerm := nonterminals[len(nonterminals)-1]
		nonterminals = nonterminals[:len(nonterminals)-1]

		if !anyProductionStartsWith(g.Rules[nonTerm], nonTerm) {
			continue
		}

		var nonTermRules, otherRules []Production
		for _, p := range g.Rules[nonTerm] {
			if len(p) > 0 && p[0] == nonTerm {
				nonTermRules = append(nonTermRules, p[1:].Copy())
			} else {
				otherRules = append(otherRules, p)
			}
		}

		newSymb := g.FreshSymbol()
		g.NonTerminals.Add(newSymb)

		var aRules []Production
		for _, p := range otherRules {
			aRules = append(aRules, append(p.Copy(), newSymb))
		}
		g.Rules[nonTerm] = aRules

		var aPrimeRules []Production
		for _, p := range nonTermRules {
			aPrimeRules = append(aPrimeRules, append(p.Copy(), newSymb))
		}
		aPrimeRules = append(aPrimeRules, Production{})
		g.Rules[newSymb] = aPrimeRules

		for _, bigger := range nonterminals {
			if !anyProductionStartsWith(g.Rules[bigger], nonTerm) {
				continue
			}

			var replaced []Production
			for _, p := range g.Rules[bigger] {
				if len(p) > 0 && p[0] == nonTerm {
					for _, ntLeft := range g.Rules[nonTerm] {
						combined := append(ntLeft.Copy(), p[1:]...)
						replaced = append(replaced, combined)
					}
				} else {
					replaced = append(replaced, p)
				}
			}
			g.Rules[bigger] = replaced
		}
	}
}

// LeftFactorize groups each non-terminal's alternatives by first symbol; any
// group of two or more sharing a non-terminal first symbol is replaced by a
// single alternative [x, B] with a fresh B holding the tails, and B is
// recursively factored in case the rewrite exposed new opportunities (§4.3).
// Terminal and ε-led alternatives are left alone. Post-condition: no two
// alternatives of any non-terminal share a non-terminal first symbol.
// Language preserved.
func (g *Grammar) LeftFactorize() {
	for _, nt := range g.OrderedNonTerminals() {
		g.leftFactorizeGroup(nt)
	}
}

func (g *Grammar) leftFactorizeGroup(nonTerm string) {
	groups := map[string][]Production{}
	var order []string

	for _, p := range g.Rules[nonTerm] {
		key := ""
		if len(p) > 0 {
			key = p[0]
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}

	var newRules []Production
	var newSymbols []string

	for _, key := range order {
		rules := groups[key]

		if key == "" || g.Terminals.Has(key) || len(rules) < 2 {
			newRules = append(newRules, rules...)
			continue
		}

		newBeg := g.FreshSymbol()
		g.NonTerminals.Add(newBeg)
		newSymbols = append(newSymbols, newBeg)
		newRules = append(newRules, Production{key, newBeg})

		var tails []Production
		for _, p := range rules {
			tails = append(tails, p[1:].Copy())
		}
		g.Rules[newBeg] = tails
	}

	g.Rules[nonTerm] = newRules

	for _, sym := range newSymbols {
		g.leftFactorizeGroup(sym)
	}
}
