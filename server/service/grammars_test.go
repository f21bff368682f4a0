package service

import (
	"context"
	"strings"
	"testing"

	"github.com/dekarrin/ctxfree/server/serr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parensGrammarText = `
T: ( )
N: S
S: S
S -> ( S ) S |
`

func Test_SubmitGrammarAndTestMembership(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	sg, err := svc.SubmitGrammar(ctx, "parens", parensGrammarText)
	require.NoError(t, err)
	assert.Equal(t, "parens", sg.Name)

	member, err := svc.TestGrammarMembership(ctx, sg.ID, strings.Fields("( ) ( ( ) )"))
	require.NoError(t, err)
	assert.True(t, member)

	member, err = svc.TestGrammarMembership(ctx, sg.ID, strings.Fields("( ("))
	require.NoError(t, err)
	assert.False(t, member)
}

func Test_SubmitGrammar_malformedTextRejected(t *testing.T) {
	svc := testService(t)

	_, err := svc.SubmitGrammar(context.Background(), "bad", "not even grammar syntax ((")
	assert.ErrorIs(t, err, serr.ErrBadArgument)
}

func Test_GetAllGrammarsAndDeleteGrammar(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	sg, err := svc.SubmitGrammar(ctx, "parens", parensGrammarText)
	require.NoError(t, err)

	all, err := svc.GetAllGrammars(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.DeleteGrammar(ctx, sg.ID)
	require.NoError(t, err)

	_, err = svc.GetGrammar(ctx, sg.ID)
	assert.ErrorIs(t, err, serr.ErrNotFound)
}
