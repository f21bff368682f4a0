package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_Analysis_arithmeticGrammar covers the unit/left-recursion scenario
// from the specification: T -> T + n | n, built with a unit production
// chain that must show up whole in Alive/Reachable without being mistaken
// for vanishing.
func Test_Analysis_arithmeticGrammar(t *testing.T) {
	g, err := New(
		[]string{"+", "n"},
		[]string{"T"},
		"T",
		map[string][]Production{
			"T": {{"T", "+", "n"}, {"n"}},
		},
	)
	require.NoError(t, err)

	assert.True(t, g.Alive().Has("T"))
	assert.True(t, g.Reachable().Has("T"))
	assert.False(t, g.Vanishing().Has("T"))
	assert.True(t, g.HasLeftRecursion())
}

// Test_Analysis_vanishing covers the c/t/s scenario from the
// specification where the start symbol itself is nullable.
func Test_Analysis_vanishing(t *testing.T) {
	g, err := New(
		[]string{"c"},
		[]string{"S", "T"},
		"S",
		map[string][]Production{
			"S": {{"T"}, {}},
			"T": {{"c"}},
		},
	)
	require.NoError(t, err)

	v := g.Vanishing()
	assert.True(t, v.Has("S"))
	assert.False(t, v.Has("T"))
}

func Test_Analysis_unreachableAndDead(t *testing.T) {
	g, err := New(
		[]string{"a"},
		[]string{"S", "Unreachable", "Dead"},
		"S",
		map[string][]Production{
			"S":           {{"a"}},
			"Unreachable": {{"a"}},
			"Dead":        {{"Dead"}},
		},
	)
	require.NoError(t, err)

	reachable := g.Reachable()
	assert.True(t, reachable.Has("S"))
	assert.False(t, reachable.Has("Unreachable"))
	assert.False(t, reachable.Has("Dead"))

	alive := g.Alive()
	assert.True(t, alive.Has("S"))
	assert.True(t, alive.Has("Unreachable"))
	assert.False(t, alive.Has("Dead"))
}

// Test_Analysis_leftRecursion covers the three left-recursion detection
// cases from the specification: direct self-loop, no recursion despite a
// nullable prefix, and indirect recursion routed through a nullable
// non-terminal.
func Test_Analysis_leftRecursion(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		g, err := New(
			[]string{},
			[]string{"A"},
			"A",
			map[string][]Production{
				"A": {{"A"}},
			},
		)
		require.NoError(t, err)
		assert.True(t, g.HasLeftRecursion())
	})

	t.Run("no recursion despite nullable B", func(t *testing.T) {
		g, err := New(
			[]string{},
			[]string{"A", "B", "C"},
			"A",
			map[string][]Production{
				"A": {{"B", "C"}},
				"B": {{"C"}},
				"C": {{}},
			},
		)
		require.NoError(t, err)
		assert.False(t, g.HasLeftRecursion())
	})

	t.Run("indirect through nullable B", func(t *testing.T) {
		g, err := New(
			[]string{},
			[]string{"A", "B", "C"},
			"A",
			map[string][]Production{
				"A": {{"B", "C"}},
				"B": {{}},
				"C": {{"A", "B"}},
			},
		)
		require.NoError(t, err)
		assert.True(t, g.HasLeftRecursion())
	})
}
