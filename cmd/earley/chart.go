package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/earley/earley"
	"github.com/spf13/cobra"
)

var chartFlags = struct {
	grammar *grammarFlags
	input   *inputFlags
	source  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "chart <grammar file path>",
		Short:   "Print the chart an input makes",
		Example: `  echo -n 'i+' | earley chart expr.earley`,
		Args:    cobra.ExactArgs(1),
		RunE:    runChart,
	}
	chartFlags.grammar = addGrammarFlags(cmd)
	chartFlags.input = addInputFlags(cmd)
	chartFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	rootCmd.AddCommand(cmd)
}

func runChart(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	g, err := chartFlags.grammar.readGrammar(args[0])
	if err != nil {
		return err
	}

	src, err := readSource(*chartFlags.source)
	if err != nil {
		return err
	}

	res, err := earley.Parse(g, chartFlags.input.split()(src), chartFlags.input.parserOptions()...)
	// An exhausted chart is still worth printing.
	if err != nil && !errors.Is(err, earley.ErrResourceExhausted) {
		return err
	}
	earley.PrintChart(os.Stdout, res.Chart)
	fmt.Fprintf(os.Stdout, "%v states, %v parse trees\n", res.Chart.StateCount(), res.ParseCount())
	return err
}
