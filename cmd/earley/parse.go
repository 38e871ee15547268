package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nihei9/earley/earley"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	grammar *grammarFlags
	input   *inputFlags
	source  *string
	count   *bool
	format  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path>",
		Short: "Parse an input and print every parse tree",
		Example: `  echo -n 'i+i+i' | earley parse expr.earley
  earley parse --ebnf --start Expr -s src.txt expr.ebnf`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.grammar = addGrammarFlags(cmd)
	parseFlags.input = addInputFlags(cmd)
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.count = cmd.Flags().Bool("count", false, "print only the number of parse trees")
	parseFlags.format = cmd.Flags().StringP("format", "f", "tree", "output format: tree, sexp, json, or rule")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	switch *parseFlags.format {
	case "tree", "sexp", "json", "rule":
	default:
		return fmt.Errorf("Unknown output format: %v", *parseFlags.format)
	}

	g, err := parseFlags.grammar.readGrammar(args[0])
	if err != nil {
		return err
	}

	src, err := readSource(*parseFlags.source)
	if err != nil {
		return err
	}

	res, err := earley.Parse(g, parseFlags.input.split()(src), parseFlags.input.parserOptions()...)
	if err != nil {
		return err
	}

	if *parseFlags.count {
		fmt.Fprintln(os.Stdout, res.ParseCount())
		return nil
	}
	if res.ParseCount() == 0 {
		return fmt.Errorf("The input was rejected")
	}
	return writeForest(os.Stdout, res, *parseFlags.format)
}

func readSource(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("Cannot open the source file %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	// Editors append a newline to a file; it is rarely a part of an input.
	return strings.TrimSuffix(strings.TrimSuffix(string(b), "\n"), "\r"), nil
}

func writeForest(w io.Writer, res *earley.Result, format string) error {
	if format == "json" {
		b, err := json.Marshal(res.Forest())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%v\n", string(b))
		return nil
	}

	res.EachTree(func(i int, tree *earley.Node) bool {
		switch format {
		case "sexp":
			fmt.Fprintln(w, tree.Format())
		case "rule":
			if i > 0 {
				fmt.Fprintln(w)
			}
			earley.PrintRuleTree(w, tree)
		default:
			fmt.Fprintf(w, "# %v\n", i+1)
			earley.PrintTree(w, tree)
		}
		return true
	})
	fmt.Fprintf(os.Stderr, "%v parse trees\n", res.ParseCount())
	return nil
}
