package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/earley/earley"
	verr "github.com/nihei9/earley/error"
	"github.com/nihei9/earley/grammar"
	"github.com/nihei9/earley/spec"
	"github.com/nihei9/earley/spec/ebnf"
	"github.com/spf13/cobra"
)

// grammarFlags are shared by the commands reading a grammar.
type grammarFlags struct {
	ebnf  *bool
	start *string
}

func addGrammarFlags(cmd *cobra.Command) *grammarFlags {
	return &grammarFlags{
		ebnf:  cmd.Flags().Bool("ebnf", false, "read the grammar as EBNF (golang.org/x/exp/ebnf); --start is required"),
		start: cmd.Flags().String("start", "", "start symbol (default the LHS of the first rule)"),
	}
}

func (f *grammarFlags) readGrammar(path string) (*grammar.Grammar, error) {
	if *f.ebnf {
		if *f.start == "" {
			return nil, fmt.Errorf("--start is required to read an EBNF grammar")
		}
		return ebnf.Load(path, *f.start)
	}

	var opts []grammar.GrammarOption
	if *f.start != "" {
		opts = append(opts, grammar.StartSymbol(*f.start))
	}
	g, err := readGrammar(path, opts...)
	if err != nil {
		var specErrs verr.SpecErrors
		if errors.As(err, &specErrs) {
			for _, e := range specErrs {
				e.FilePath = path
				e.SourceName = path
			}
		}
		var specErr *verr.SpecError
		if errors.As(err, &specErr) {
			specErr.SourceName = path
		}
		return nil, err
	}
	return g, nil
}

func readGrammar(path string, opts ...grammar.GrammarOption) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	ast, err := spec.Parse(f)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	return b.Build(opts...)
}

// inputFlags are shared by the commands parsing an input.
type inputFlags struct {
	fields     *bool
	recognize  *bool
	stateLimit *int
	trace      *bool
}

func addInputFlags(cmd *cobra.Command) *inputFlags {
	return &inputFlags{
		fields:     cmd.Flags().Bool("fields", false, "split an input into whitespace-separated words instead of characters"),
		recognize:  cmd.Flags().Bool("recognize", false, "recognize an input without enumerating all trees"),
		stateLimit: cmd.Flags().Int("state-limit", 0, "maximum number of chart states (0 means no limit)"),
		trace:      cmd.Flags().Bool("trace", false, "log every parsing step (use with -vv)"),
	}
}

func (f *inputFlags) split() func(string) []string {
	if *f.fields {
		return earley.SplitFields
	}
	return earley.SplitRunes
}

func (f *inputFlags) parserOptions() []earley.ParserOption {
	var opts []earley.ParserOption
	if *f.recognize {
		opts = append(opts, earley.DisableProduceAll())
	}
	if *f.stateLimit > 0 {
		opts = append(opts, earley.StateLimit(*f.stateLimit))
	}
	if *f.trace {
		opts = append(opts, earley.Trace())
	}
	return opts
}
