package lts

import (
	"testing"

	"github.com/dekarrin/ctxfree/internal/util"
	"github.com/stretchr/testify/assert"
)

func Test_EpsilonClosure_idempotent(t *testing.T) {
	// 0 --ε--> 1 --ε--> 2, 2 --a--> 3
	l := New(0, 3, util.SetOf([]int{0, 1, 2, 3}), []Transition{
		{0, "", 1},
		{1, "", 2},
		{2, "a", 3},
	})

	once := l.EpsilonClosure(util.SetOf([]int{0}))
	twice := l.EpsilonClosure(once)

	assert.True(t, once.Equal(twice), "ε-closure should be idempotent (P8)")
	assert.True(t, once.Equal(util.SetOf([]int{0, 1, 2})))
}

func Test_Accepts_simpleChain(t *testing.T) {
	// 0 --cat--> 1
	l := New(0, 1, util.SetOf([]int{0, 1}), []Transition{
		{0, "cat", 1},
	})

	assert.True(t, l.Accepts([]string{"cat"}))
	assert.False(t, l.Accepts([]string{"dog"}))
	assert.False(t, l.Accepts(nil))
}
