package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balancedBracketsGrammar(t *testing.T) *Grammar {
	t.Helper()
	g, err := New(
		[]string{"(", ")"},
		[]string{"S"},
		"S",
		map[string][]Production{
			"S": {{"(", "S", ")", "S"}, {}},
		},
	)
	require.NoError(t, err)
	return g
}

func Test_New_validates(t *testing.T) {
	_, err := New(
		[]string{"a"},
		[]string{"S"},
		"S",
		map[string][]Production{
			"S": {{"a", "B"}}, // B is neither terminal nor non-terminal
		},
	)
	assert.Error(t, err)
}

func Test_Production_IsEpsilon(t *testing.T) {
	assert.True(t, Production(nil).IsEpsilon())
	assert.True(t, Production{}.IsEpsilon())
	assert.False(t, Production{"a"}.IsEpsilon())
}

func Test_Production_Equal(t *testing.T) {
	assert.True(t, Production{"a", "b"}.Equal(Production{"a", "b"}))
	assert.False(t, Production{"a", "b"}.Equal(Production{"b", "a"}))
}

func Test_Grammar_FreshSymbol_avoidsExisting(t *testing.T) {
	g, err := New(
		[]string{"0"},
		[]string{"1", "S"},
		"S",
		map[string][]Production{"S": {{"0"}}},
	)
	require.NoError(t, err)

	fresh := g.FreshSymbol()
	assert.NotEqual(t, "0", fresh)
	assert.NotEqual(t, "1", fresh)
}

func Test_Grammar_Copy_isIndependent(t *testing.T) {
	g := balancedBracketsGrammar(t)
	g2 := g.Copy()

	g2.AddRule("S", Production{"x"})

	assert.NotEqual(t, len(g.Rule("S")), len(g2.Rule("S")))
}
