package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/earley/earley"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	grammar *grammarFlags
	input   *inputFlags
	format  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl <grammar file path>",
		Short: "Parse inputs line by line interactively",
		Long: `repl reads an input per line and prints every parse tree of the line.
Type :quit or press Ctrl-D to exit.`,
		Example: `  earley repl expr.earley`,
		Args:    cobra.ExactArgs(1),
		RunE:    runREPL,
	}
	replFlags.grammar = addGrammarFlags(cmd)
	replFlags.input = addInputFlags(cmd)
	replFlags.format = cmd.Flags().StringP("format", "f", "sexp", "output format: tree, sexp, json, or rule")
	rootCmd.AddCommand(cmd)
}

const replHistoryFileName = ".earley_history"

func runREPL(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	g, err := replFlags.grammar.readGrammar(args[0])
	if err != nil {
		return err
	}
	p, err := earley.NewParser(g, replFlags.input.parserOptions()...)
	if err != nil {
		return err
	}
	split := replFlags.input.split()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var historyPath string
	if home, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(home, replHistoryFileName)
		if f, err := os.Open(historyPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if historyPath == "" {
			return
		}
		if f, err := os.Create(historyPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	prompt := g.Start() + "> "
	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(os.Stdout)
				return nil
			}
			return err
		}
		if strings.TrimSpace(line) == ":quit" {
			return nil
		}
		ln.AppendHistory(line)

		res, err := p.Parse(split(line))
		if err != nil {
			// A limit applies to a line, not to the session.
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if res.ParseCount() == 0 {
			fmt.Fprintln(os.Stdout, "rejected")
			continue
		}
		err = writeForest(os.Stdout, res, *replFlags.format)
		if err != nil {
			return err
		}
	}
}
