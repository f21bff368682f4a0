package service

import (
	"context"
	"strings"
	"testing"

	"github.com/dekarrin/ctxfree/server/serr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SubmitRegexAndTestMembership(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	sa, err := svc.SubmitRegex(ctx, "ab-star", "(a,b)*")
	require.NoError(t, err)
	assert.Equal(t, "ab-star", sa.Name)

	member, err := svc.TestAutomatonMembership(ctx, sa.ID, strings.Fields("a b a b"))
	require.NoError(t, err)
	assert.True(t, member)

	member, err = svc.TestAutomatonMembership(ctx, sa.ID, strings.Fields("a b a"))
	require.NoError(t, err)
	assert.False(t, member)
}

func Test_SubmitRegex_malformedTextRejected(t *testing.T) {
	svc := testService(t)

	_, err := svc.SubmitRegex(context.Background(), "bad", "(a,")
	assert.ErrorIs(t, err, serr.ErrBadArgument)
}

func Test_GetAllAutomataAndDeleteAutomaton(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	sa, err := svc.SubmitRegex(ctx, "ab-star", "(a,b)*")
	require.NoError(t, err)

	all, err := svc.GetAllAutomata(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.DeleteAutomaton(ctx, sa.ID)
	require.NoError(t, err)

	_, err = svc.GetAutomaton(ctx, sa.ID)
	assert.ErrorIs(t, err, serr.ErrNotFound)
}
