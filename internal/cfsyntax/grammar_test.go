package cfsyntax

import (
	"testing"

	"github.com/dekarrin/ctxfree/internal/descent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_ParseGrammar_arithmetic is the specification's scenario 2, written
// as concrete syntax and fed through the descent tester to confirm the
// parsed grammar is the one intended, not just syntactically valid.
func Test_ParseGrammar_arithmetic(t *testing.T) {
	g, err := ParseGrammar(`
		T: ( ) + * 1 2
		N: c t s
		S: s

		c -> 1 | 2
		t -> c | t * c | ( s )
		s -> t | s + t
	`)
	require.NoError(t, err)

	p := descent.New(g)
	assert.True(t, p.IsInLanguage([]string{"1", "*", "2", "+", "2"}))
	assert.False(t, p.IsInLanguage([]string{"1", "+", "(", "2", "*", "1", "*", ")"}))
}

func Test_ParseGrammar_epsilon(t *testing.T) {
	g, err := ParseGrammar(`
		T: ( )
		N: A
		S: A
		A -> ( A ) | ε | A A
	`)
	require.NoError(t, err)

	p := descent.New(g)
	assert.True(t, p.IsInLanguage(nil))
	assert.True(t, p.IsInLanguage([]string{"(", ")"}))
}

func Test_ParseGrammar_missingStart(t *testing.T) {
	_, err := ParseGrammar("T: a\nN: A\nA -> a")
	assert.Error(t, err)
}

func Test_ParseGrammar_malformedRule(t *testing.T) {
	_, err := ParseGrammar("T: a\nN: A\nS: A\nthis is not a rule")
	assert.Error(t, err)
}
