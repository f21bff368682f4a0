// Package rex models regular expressions over a finite alphabet of tokens
// (not necessarily single characters) and their structural acceptance
// semantics, §4.5 of the specification. It is grounded on
// original_source/rex.py's ReX/Epsilon/Symbol/Concatenation/Union/KleeneStar
// class hierarchy, reshaped into an interface of concrete Go types. See
// internal/lts for the Thompson construction that compiles a RE into an
// automaton instead of testing membership by direct recursion.
package rex

import "fmt"

// RE is a regular expression: one of Epsilon, Symbol, Concat, Union, or
// Star. Accepts decides membership in the language the expression denotes;
// String renders it back out in the source's parenthesized notation.
type RE interface {
	Accepts(w []string) bool
	String() string
}

// Eps is the regular expression matching only the empty sequence.
type Eps struct{}

func (Eps) Accepts(w []string) bool { return len(w) == 0 }
func (Eps) String() string          { return "" }

// Sym is the regular expression matching exactly the one-token sequence
// [Value]. Value may itself be a multi-character string; comparison is by
// whole-token equality, never by character.
type Sym struct {
	Value string
}

func (s Sym) Accepts(w []string) bool { return len(w) == 1 && w[0] == s.Value }
func (s Sym) String() string          { return s.Value }

// Concat is the regular expression (First,Second): accepts w iff some split
// w = u·v has First accepting u and Second accepting v.
type Concat struct {
	First, Second RE
}

func (c Concat) Accepts(w []string) bool {
	for split := 0; split <= len(w); split++ {
		if c.First.Accepts(w[:split]) && c.Second.Accepts(w[split:]) {
			return true
		}
	}
	return false
}

func (c Concat) String() string {
	return fmt.Sprintf("(%s,%s)", c.First, c.Second)
}

// Union is the regular expression (First|Second): accepts w iff either
// child does.
type Union struct {
	First, Second RE
}

func (u Union) Accepts(w []string) bool {
	return u.First.Accepts(w) || u.Second.Accepts(w)
}

func (u Union) String() string {
	return fmt.Sprintf("(%s|%s)", u.First, u.Second)
}

// Star is the regular expression Inner*: accepts w iff w is empty, or some
// non-empty prefix u has Inner accepting u and Star(Inner) accepts the
// remainder.
type Star struct {
	Inner RE
}

func (s Star) Accepts(w []string) bool {
	if len(w) == 0 {
		return true
	}
	for split := 1; split <= len(w); split++ {
		if s.Inner.Accepts(w[:split]) && s.Accepts(w[split:]) {
			return true
		}
	}
	return false
}

func (s Star) String() string {
	return fmt.Sprintf("%s*", s.Inner)
}
