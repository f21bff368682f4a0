// Package lts models labelled transition systems (ε-NFAs): states,
// transitions, ε-closure, and chain acceptance (§4.6 of the specification),
// plus the Thompson-style compiler from a regular expression (compile.go,
// §4.7). Grounded on original_source/lts.py's LTS/Transition classes and
// original_source/rex2lts.py's rex2lts function, reshaped into the teacher's
// indexed-transition-table idiom from internal/tunascript/automaton.go.
package lts

import "github.com/dekarrin/ctxfree/internal/util"

// Transition is an edge from From to To labelled Label. An empty Label
// denotes an ε-transition; no real token is ever the empty string, so this
// sentinel never collides with an input symbol.
type Transition struct {
	From  int
	Label string
	To    int
}

type stateLabel struct {
	state int
	label string
}

// LTS is a labelled transition system over a contiguous range of integer
// states. States is the full state set; Start and End designate the
// distinguished initial and accepting states. Labels is Σ, the set of
// non-ε labels actually used. A secondary index from (state, label) to
// destination states gives the accepting algorithm O(1) lookup per step.
type LTS struct {
	Start       int
	End         int
	States      util.Set[int]
	Labels      util.Set[string]
	Transitions []Transition

	index map[stateLabel][]int
}

// New builds an LTS from its states, start/end, and full transition list,
// constructing the secondary (state, label) index and the non-ε label set Σ.
func New(start, end int, states util.Set[int], transitions []Transition) *LTS {
	l := &LTS{
		Start:       start,
		End:         end,
		States:      states,
		Labels:      util.NewSet[string](),
		Transitions: transitions,
		index:       make(map[stateLabel][]int, len(transitions)),
	}

	for _, tr := range transitions {
		key := stateLabel{tr.From, tr.Label}
		l.index[key] = append(l.index[key], tr.To)
		if tr.Label != "" {
			l.Labels.Add(tr.Label)
		}
	}

	return l
}

// NumStates returns the number of states in the contiguous range [Start,
// End] the construction allotted, used by the compiler to pick the next
// free state index for a sibling sub-expression.
func (l *LTS) NumStates() int {
	return l.End - l.Start + 1
}

func (l *LTS) transitionsFrom(state int, label string) []int {
	return l.index[stateLabel{state, label}]
}

// EpsilonClosure returns the smallest set containing seed and every state
// reachable from it by ε-transitions (§4.6).
func (l *LTS) EpsilonClosure(seed util.Set[int]) util.Set[int] {
	closure := seed.Copy()

	var stack util.Stack[int]
	for s := range seed {
		stack.Push(s)
	}

	for stack.Len() > 0 {
		cur := stack.Pop()
		for _, to := range l.transitionsFrom(cur, "") {
			if !closure.Has(to) {
				closure.Add(to)
				stack.Push(to)
			}
		}
	}

	return closure
}

type frontierItem struct {
	state, pos int
}

// Accepts decides whether w is accepted: it computes the initial frontier
// {(q, 0) | q ∈ ε-closure({Start})} and repeatedly advances each item by one
// token, taking every transition labelled w[i] and re-closing over ε before
// adding the result back to the frontier, accepting as soon as some item
// reaches (End, len(w)) (§4.6).
func (l *LTS) Accepts(w []string) bool {
	seen := map[frontierItem]bool{}
	var stack []frontierItem

	push := func(state, pos int) {
		it := frontierItem{state, pos}
		if !seen[it] {
			seen[it] = true
			stack = append(stack, it)
		}
	}

	for s := range l.EpsilonClosure(util.SetOf([]int{l.Start})) {
		push(s, 0)
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.pos == len(w) {
			if cur.state == l.End {
				return true
			}
			continue
		}

		for _, to := range l.transitionsFrom(cur.state, w[cur.pos]) {
			for s := range l.EpsilonClosure(util.SetOf([]int{to})) {
				push(s, cur.pos+1)
			}
		}
	}

	return false
}
