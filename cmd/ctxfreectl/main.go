/*
Ctxfreectl loads a grammar or regular expression from a TOML-wrapped
concrete-syntax file, normalizes it (for a grammar) or compiles it (for a
regular expression), and reports whether a given string is a member of the
resulting language.

Usage:

	ctxfreectl [flags] FILE WORD...

The flags are:

	-v, --version
		Give the current version of ctxfree and then exit.

	-r, --regex
		Treat FILE's text as a regular expression instead of a grammar.

	--fold-case
		Case-fold WORD's tokens and the loaded text before testing membership.

FILE must be a TOML file with a top-level "text" string key holding the
grammar or RE concrete syntax, e.g.:

	text = """
	T: a b
	N: S
	S: S
	S -> a S b |
	"""

WORD is the string to test, split on whitespace into symbols exactly as
internal/descent and internal/lts expect.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/ctxfree/internal/cfsyntax"
	"github.com/dekarrin/ctxfree/internal/descent"
	"github.com/dekarrin/ctxfree/internal/lts"
	"github.com/dekarrin/ctxfree/internal/version"
	"github.com/spf13/pflag"
	"golang.org/x/text/cases"
)

const (
	ExitSuccess = iota
	ExitNotMember
	ExitLoadError
	ExitUsageError
)

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of ctxfree and then exit.")
	flagRegex    = pflag.BoolP("regex", "r", false, "Treat the loaded text as a regular expression instead of a grammar.")
	flagFoldCase = pflag.Bool("fold-case", false, "Case-fold tokens before testing membership.")
)

type workspaceFile struct {
	Text string `toml:"text"`
}

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: ctxfreectl [flags] FILE WORD...\nDo -h for help.\n")
		os.Exit(ExitUsageError)
	}

	var ws workspaceFile
	if _, err := toml.DecodeFile(args[0], &ws); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not load %s: %s\n", args[0], err)
		os.Exit(ExitLoadError)
	}

	word := strings.Join(args[1:], " ")
	tokens := strings.Fields(word)

	if *flagFoldCase {
		caser := cases.Fold()
		ws.Text = caser.String(ws.Text)
		for i := range tokens {
			tokens[i] = caser.String(tokens[i])
		}
	}

	var member bool
	if *flagRegex {
		re, err := cfsyntax.ParseRE(ws.Text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not parse regular expression: %s\n", err)
			os.Exit(ExitLoadError)
		}
		l := lts.Compile(re, 0)
		member = l.Accepts(tokens)
	} else {
		g, err := cfsyntax.ParseGrammar(ws.Text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not parse grammar: %s\n", err)
			os.Exit(ExitLoadError)
		}
		if err := g.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: grammar is invalid: %s\n", err)
			os.Exit(ExitLoadError)
		}
		p := descent.New(g)
		member = p.IsInLanguage(tokens)
	}

	if member {
		fmt.Printf("%q is a member\n", word)
		return
	}

	fmt.Printf("%q is not a member\n", word)
	os.Exit(ExitNotMember)
}
