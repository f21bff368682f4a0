package cferrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Invariant(t *testing.T) {
	err := Invariantf("rule group key %q is not in NonTerminals", "B")
	assert.EqualError(t, err, `rule group key "B" is not in NonTerminals`)

	kind, ok := ErrorKind(err)
	assert.True(t, ok)
	assert.Equal(t, KindInvariant, kind)
}

func Test_Malformed_wraps(t *testing.T) {
	inner := errors.New("unexpected token ')'")
	err := Malformed(inner, "malformed grammar text")

	assert.ErrorIs(t, err, inner)
	kind, ok := ErrorKind(err)
	assert.True(t, ok)
	assert.Equal(t, KindMalformed, kind)
}

func Test_ErrorKind_nonCferrorsError(t *testing.T) {
	_, ok := ErrorKind(errors.New("plain"))
	assert.False(t, ok)
}
