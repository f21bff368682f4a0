/*
Ctxfreerepl loads a grammar or regular expression once from a TOML-wrapped
concrete-syntax file, then repeatedly reads a line of input from the
terminal and reports whether it is a member of the loaded language. Input
is read via a GNU-readline-alike so history and line editing work the same
way they do in an interactive shell.

Usage:

	ctxfreerepl [flags] FILE

The flags are:

	-v, --version
		Give the current version of ctxfree and then exit.

	-r, --regex
		Treat FILE's text as a regular expression instead of a grammar.

	--fold-case
		Case-fold every line read and the loaded text before testing
		membership.

FILE must be a TOML file with a top-level "text" string key, in the same
shape ctxfreectl reads. Each line read is split on whitespace into symbols.
Type "QUIT" or send EOF (Ctrl-D) to exit.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/dekarrin/ctxfree/internal/cfsyntax"
	"github.com/dekarrin/ctxfree/internal/descent"
	"github.com/dekarrin/ctxfree/internal/lts"
	"github.com/dekarrin/ctxfree/internal/version"
	"github.com/spf13/pflag"
	"golang.org/x/text/cases"
)

const (
	ExitSuccess = iota
	ExitLoadError
	ExitUsageError
)

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of ctxfree and then exit.")
	flagRegex    = pflag.BoolP("regex", "r", false, "Treat the loaded text as a regular expression instead of a grammar.")
	flagFoldCase = pflag.Bool("fold-case", false, "Case-fold input before testing membership.")
)

type workspaceFile struct {
	Text string `toml:"text"`
}

// member is anything that can report whether a tokenized word is accepted,
// unifying the grammar and LTS membership testers behind one interface for
// the REPL loop.
type member interface {
	IsMember(w []string) bool
}

type grammarMember struct{ p *descent.Parser }

func (m grammarMember) IsMember(w []string) bool { return m.p.IsInLanguage(w) }

type ltsMember struct{ l *lts.LTS }

func (m ltsMember) IsMember(w []string) bool { return m.l.Accepts(w) }

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: ctxfreerepl [flags] FILE\nDo -h for help.\n")
		os.Exit(ExitUsageError)
	}

	var ws workspaceFile
	if _, err := toml.DecodeFile(args[0], &ws); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not load %s: %s\n", args[0], err)
		os.Exit(ExitLoadError)
	}

	var caser cases.Caser
	if *flagFoldCase {
		caser = cases.Fold()
		ws.Text = caser.String(ws.Text)
	}
	foldCase := *flagFoldCase

	var m member
	if *flagRegex {
		re, err := cfsyntax.ParseRE(ws.Text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not parse regular expression: %s\n", err)
			os.Exit(ExitLoadError)
		}
		m = ltsMember{l: lts.Compile(re, 0)}
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
		m = grammarMember{p: descent.New(g)}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt: "word> ",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not start readline: %s\n", err)
		os.Exit(ExitLoadError)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "QUIT") {
			return
		}

		tokens := strings.Fields(line)
		if foldCase {
			for i := range tokens {
				tokens[i] = caser.String(tokens[i])
			}
		}

		if m.IsMember(tokens) {
			fmt.Println("member")
		} else {
			fmt.Println("not a member")
		}
	}
}
