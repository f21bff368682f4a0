package lts

import (
	"github.com/dekarrin/ctxfree/internal/cferrors"
	"github.com/dekarrin/ctxfree/internal/rex"
	"github.com/dekarrin/ctxfree/internal/util"
)

// Compile builds an LTS from a regular expression via Thompson
// construction, with states numbered as the contiguous range [first,
// first+|States|). It is the exact per-variant wiring of §4.7, grounded on
// original_source/rex2lts.py's rex2lts function — with one deliberate
// deviation: that source's Concatenation case recompiles its first operand
// with the recursive call's *default* first_state (always 0) rather than
// the first_state passed in, which only happens to be correct when the
// concatenation is the outermost expression. The specification's table
// instead threads the caller's f through consistently (`La = compile(a,
// f)`), which this follows, since it is the only choice that keeps state
// indices unique and contiguous when a Concat is nested inside a Star or
// Union.
func Compile(e rex.RE, first int) *LTS {
	switch v := e.(type) {
	case rex.Eps:
		return leaf(first, "")

	case rex.Sym:
		return leaf(first, v.Value)

	case rex.Star:
		inner := Compile(v.Inner, first+1)
		end := inner.End + 1

		trans := append([]Transition{}, inner.Transitions...)
		trans = append(trans,
			Transition{first, "", inner.Start},
			Transition{inner.End, "", end},
			Transition{inner.End, "", inner.Start},
			Transition{inner.Start, "", inner.End},
		)
		return build(first, end, trans)

	case rex.Union:
		a := Compile(v.First, first+1)
		b := Compile(v.Second, first+1+a.NumStates())
		end := b.End + 1

		trans := append([]Transition{}, a.Transitions...)
		trans = append(trans, b.Transitions...)
		trans = append(trans,
			Transition{first, "", a.Start},
			Transition{first, "", b.Start},
			Transition{a.End, "", end},
			Transition{b.End, "", end},
		)
		return build(first, end, trans)

	case rex.Concat:
		a := Compile(v.First, first)
		b := Compile(v.Second, first+a.NumStates())

		trans := append([]Transition{}, a.Transitions...)
		trans = append(trans, b.Transitions...)
		trans = append(trans, Transition{a.End, "", b.Start})
		return build(a.Start, b.End, trans)

	default:
		panic(cferrors.UnknownVariantf("lts: unknown rex.RE variant %T", e))
	}
}

func leaf(first int, label string) *LTS {
	return build(first, first+1, []Transition{{first, label, first + 1}})
}

func build(start, end int, transitions []Transition) *LTS {
	states := util.NewSet[int]()
	for s := start; s <= end; s++ {
		states.Add(s)
	}
	return New(start, end, states, transitions)
}
