package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/nihei9/earley/grammar"
	"github.com/spf13/cobra"
)

var describeFlags = struct {
	grammar *grammarFlags
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "describe <grammar file path>",
		Short:   "Print the rules and symbols of a grammar",
		Example: `  earley describe expr.earley`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	describeFlags.grammar = addGrammarFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	g, err := describeFlags.grammar.readGrammar(args[0])
	if err != nil {
		return err
	}

	return writeDescription(os.Stdout, g)
}

const descTemplate = `# Start Symbol

{{ .Start }}

# Rules

{{ printRule .AugmentedRule }}
{{ range .Rules -}}
{{ printRule . }}
{{ end }}
# Non-terminals

{{ range .NonTerminals -}}
{{ printNonTerminal . }}
{{ end }}
# Terminals

{{ range .Terminals -}}
{{ printTerminal . }}
{{ end -}}
{{ with .UndefinedSymbols }}
# Undefined Symbols

{{ range . -}}
{{ . }}
{{ end -}}
{{ end -}}
`

func writeDescription(w io.Writer, g *grammar.Grammar) error {
	fns := template.FuncMap{
		"printRule": func(r *grammar.Rule) string {
			return fmt.Sprintf("%4v %v", r.Num, r)
		},
		"printNonTerminal": func(name string) string {
			nullable := "-"
			if g.Nullable(name) {
				nullable = "nullable"
			}
			var first []string
			terms, _ := g.First(name)
			for _, term := range terms {
				first = append(first, fmt.Sprintf("%q", term))
			}
			return fmt.Sprintf("%v (%v alternatives, %v) FIRST: {%v}", name, len(g.RulesByLHS(name)), nullable, strings.Join(first, ", "))
		},
		"printTerminal": func(value string) string {
			return fmt.Sprintf("%q", value)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(descTemplate)
	if err != nil {
		return err
	}

	err = tmpl.Execute(w, g)
	if err != nil {
		return err
	}

	return nil
}
