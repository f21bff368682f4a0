// Package cferrors provides the typed errors for the error kinds named in
// §7 of the specification: invariant violations at CFG construction,
// unknown RE/LTS variants, and malformed external input. It is grounded on
// internal/tqerrors's shape — a single private struct implementing error
// and Unwrap, constructed only through exported functions — generalized
// from that package's single "interpreter error" kind to several named
// kinds, each still sharing one underlying type.
package cferrors

import "fmt"

// Kind names which of §7's error categories an error belongs to.
type Kind string

const (
	// KindInvariant is a violated construction invariant, e.g. a rule
	// group key that is not a non-terminal (§3's I1).
	KindInvariant Kind = "invariant"

	// KindUnknownVariant is an unrecognized tagged-variant value reaching
	// a type switch meant to be exhaustive, e.g. a rex.RE implementation
	// the LTS compiler has no case for.
	KindUnknownVariant Kind = "unknown-variant"

	// KindMalformed is malformed input to an external collaborator, e.g.
	// grammar or RE concrete syntax internal/cfsyntax cannot parse.
	KindMalformed Kind = "malformed"
)

type cfError struct {
	kind Kind
	msg  string
	wrap error
}

func (e *cfError) Error() string { return e.msg }
func (e *cfError) Unwrap() error { return e.wrap }

// ErrorKind returns the Kind of err if it is a cferrors error, and
// ("", false) otherwise.
func ErrorKind(err error) (Kind, bool) {
	cfe, ok := err.(*cfError)
	if !ok {
		return "", false
	}
	return cfe.kind, true
}

// Invariant reports a violated construction invariant.
func Invariant(msg string) error {
	return &cfError{kind: KindInvariant, msg: msg}
}

// Invariantf is Invariant with Printf-style formatting.
func Invariantf(format string, a ...any) error {
	return Invariant(fmt.Sprintf(format, a...))
}

// UnknownVariant reports a tagged-variant value with no handler.
func UnknownVariant(msg string) error {
	return &cfError{kind: KindUnknownVariant, msg: msg}
}

// UnknownVariantf is UnknownVariant with Printf-style formatting.
func UnknownVariantf(format string, a ...any) error {
	return UnknownVariant(fmt.Sprintf(format, a...))
}

// Malformed reports malformed input from an external collaborator (a
// grammar or RE concrete-syntax source), optionally wrapping a lower-level
// parse error.
func Malformed(wrap error, msg string) error {
	return &cfError{kind: KindMalformed, msg: msg, wrap: wrap}
}

// Malformedf is Malformed with Printf-style formatting and no wrapped
// error.
func Malformedf(format string, a ...any) error {
	return Malformed(nil, fmt.Sprintf(format, a...))
}
