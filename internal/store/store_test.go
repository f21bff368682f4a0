package store

import (
	"context"
	"testing"

	"github.com/dekarrin/ctxfree/internal/grammar"
	"github.com/dekarrin/ctxfree/internal/lts"
	"github.com/dekarrin/ctxfree/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrammar(t *testing.T) *grammar.Grammar {
	g, err := grammar.New(
		[]string{"1", "2", "+", "*"},
		[]string{"T", "S"},
		"S",
		map[string][]grammar.Production{
			"T": {{"1"}, {"2"}},
			"S": {{"T"}, {"S", "+", "T"}},
		},
	)
	require.NoError(t, err)
	return g
}

func testLTS(t *testing.T) *lts.LTS {
	l := lts.New(0, 3, util.SetOf([]int{0, 1, 2, 3}), []lts.Transition{
		{From: 0, Label: "a", To: 1},
		{From: 1, Label: "", To: 2},
		{From: 2, Label: "b", To: 3},
	})
	require.True(t, l.Accepts([]string{"a", "b"}))
	return l
}

func Test_Grammars_createAndGet(t *testing.T) {
	st, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	g := testGrammar(t)

	created, err := st.Grammars().Create(ctx, "arithmetic", g)
	require.NoError(t, err)
	assert.Equal(t, "arithmetic", created.Name)
	assert.NotEqual(t, [16]byte{}, created.ID)

	fetched, err := st.Grammars().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Start, fetched.Grammar.Start)
	assert.True(t, g.Terminals.Equal(fetched.Grammar.Terminals))
	assert.True(t, g.NonTerminals.Equal(fetched.Grammar.NonTerminals))
	assert.ElementsMatch(t, g.Rule("T"), fetched.Grammar.Rule("T"))
	assert.ElementsMatch(t, g.Rule("S"), fetched.Grammar.Rule("S"))
}

func Test_Grammars_getAllAndDelete(t *testing.T) {
	st, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	created, err := st.Grammars().Create(ctx, "arithmetic", testGrammar(t))
	require.NoError(t, err)

	all, err := st.Grammars().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = st.Grammars().Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = st.Grammars().GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_Grammars_update(t *testing.T) {
	st, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	created, err := st.Grammars().Create(ctx, "arithmetic", testGrammar(t))
	require.NoError(t, err)

	replacement := created.Grammar.Copy()
	replacement.AddTerminal("/")

	updated, err := st.Grammars().Update(ctx, created.ID, replacement)
	require.NoError(t, err)
	assert.True(t, updated.Grammar.Terminals.Has("/"))
}

func Test_Automata_createAndGet(t *testing.T) {
	st, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	l := testLTS(t)

	created, err := st.Automata().Create(ctx, "ab", l)
	require.NoError(t, err)

	fetched, err := st.Automata().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, l.Start, fetched.LTS.Start)
	assert.Equal(t, l.End, fetched.LTS.End)
	assert.True(t, fetched.LTS.Accepts([]string{"a", "b"}))
	assert.False(t, fetched.LTS.Accepts([]string{"a"}))
}

func Test_Automata_delete(t *testing.T) {
	st, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	created, err := st.Automata().Create(ctx, "ab", testLTS(t))
	require.NoError(t, err)

	_, err = st.Automata().Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = st.Automata().GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
