package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_DeleteExtraNonTerminals_orderMatters is grounded directly in the
// specification's requirement that dead symbols be pruned before
// unreachable ones: D is alive and, before pruning, reachable only through
// A, which is dead (its only alternative recurses into itself with no base
// case). Deleting dead symbols first removes A and, with it, the only
// edge that made D reachable, so the unreachable pass then correctly
// drops D too. Deleting unreachable symbols first would find D reachable
// (A hasn't been removed yet) and leave it stranded in the grammar.
func Test_DeleteExtraNonTerminals_orderMatters(t *testing.T) {
	g, err := New(
		[]string{"a", "d"},
		[]string{"S", "A", "D"},
		"S",
		map[string][]Production{
			"S": {{"A"}, {"a"}},
			"A": {{"A", "D"}},
			"D": {{"d"}},
		},
	)
	require.NoError(t, err)

	g.DeleteExtraNonTerminals()

	assert.True(t, g.NonTerminals.Has("S"))
	assert.False(t, g.NonTerminals.Has("A"))
	assert.False(t, g.NonTerminals.Has("D"))
	assert.Equal(t, []Production{{"a"}}, g.Rule("S"))
}

func Test_DeleteVanishings(t *testing.T) {
	g, err := New(
		[]string{"a", "b"},
		[]string{"S", "A", "B"},
		"S",
		map[string][]Production{
			"S": {{"A", "B"}},
			"A": {{"a"}, {}},
			"B": {{"b"}},
		},
	)
	require.NoError(t, err)

	g.DeleteVanishings()

	assert.Equal(t, []Production{{"B"}, {"A", "B"}}, g.Rule("S"))
	assert.Equal(t, []Production{{"a"}}, g.Rule("A"))
	assert.Equal(t, []Production{{"b"}}, g.Rule("B"))
	assert.Equal(t, "S", g.Start, "start was not vanishing, so no fresh start is introduced")
}

func Test_DeleteVanishings_vanishingStart(t *testing.T) {
	g, err := New(
		[]string{"c"},
		[]string{"S"},
		"S",
		map[string][]Production{
			"S": {{"c"}, {}},
		},
	)
	require.NoError(t, err)

	g.DeleteVanishings()

	assert.NotEqual(t, "S", g.Start)
	assert.Equal(t, []Production{{"S"}, {}}, g.Rule(g.Start))
	assert.Equal(t, []Production{{"c"}}, g.Rule("S"))
}

func Test_DeleteChainRules(t *testing.T) {
	g, err := New(
		[]string{"b", "c"},
		[]string{"S", "A", "B"},
		"S",
		map[string][]Production{
			"S": {{"A"}, {"c"}},
			"A": {{"B"}},
			"B": {{"b"}},
		},
	)
	require.NoError(t, err)

	g.DeleteChainRules()

	assert.ElementsMatch(t, []Production{{"c"}, {"b"}}, g.Rule("S"))
	assert.Equal(t, []Production{{"b"}}, g.Rule("A"))
	assert.Equal(t, []Production{{"b"}}, g.Rule("B"))
}

// Test_EliminateLeftRecursion_classicArithmetic covers the specification's
// T -> T + n | n scenario: direct left recursion split into a tail
// non-terminal with an ε-alternative.
func Test_EliminateLeftRecursion_classicArithmetic(t *testing.T) {
	g, err := New(
		[]string{"+", "n"},
		[]string{"T"},
		"T",
		map[string][]Production{
			"T": {{"T", "+", "n"}, {"n"}},
		},
	)
	require.NoError(t, err)

	g.EliminateLeftRecursion()

	assert.False(t, g.HasLeftRecursion())

	tRules := g.Rule("T")
	require.Len(t, tRules, 1)
	assert.Equal(t, "n", tRules[0][0])
	tail := tRules[0][1]

	tailRules := g.Rule(tail)
	require.Len(t, tailRules, 2)
	assert.Contains(t, tailRules, Production{})
	var found bool
	for _, p := range tailRules {
		if len(p) == 3 && p[0] == "+" && p[1] == "n" && p[2] == tail {
			found = true
		}
	}
	assert.True(t, found, "expected a +, n, <tail> alternative, got %v", tailRules)
}

func Test_EliminateLeftRecursion_noop(t *testing.T) {
	g := balancedBracketsGrammar(t)
	before := g.String()
	g.EliminateLeftRecursion()
	assert.Equal(t, before, g.String())
}

func Test_LeftFactorize(t *testing.T) {
	g, err := New(
		[]string{"x", "y", "z"},
		[]string{"S", "A"},
		"S",
		map[string][]Production{
			"S": {{"A", "x"}, {"A", "y"}, {"z"}},
			"A": {{"x"}},
		},
	)
	require.NoError(t, err)

	g.LeftFactorize()

	sRules := g.Rule("S")
	require.Len(t, sRules, 2)
	assert.Equal(t, "A", sRules[0][0])
	assert.Equal(t, Production{"z"}, sRules[1])

	tail := sRules[0][1]
	assert.ElementsMatch(t, []Production{{"x"}, {"y"}}, g.Rule(tail))
	assert.Equal(t, []Production{{"x"}}, g.Rule("A"))
}
