package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var rootFlags = struct {
	verbose *int
}{}

var rootCmd = &cobra.Command{
	Use:   "earley",
	Short: "Parse inputs with a context-free grammar and list every parse tree",
	Long: `earley parses inputs with an Earley parser, which accepts any context-free grammar
including ambiguous, left-recursive, and nullable ones, and lists all parse trees.
A grammar is written in the earley grammar language or, with --ebnf, in EBNF.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(*rootFlags.verbose, nil)
	},
}

func init() {
	rootFlags.verbose = rootCmd.PersistentFlags().CountP("verbose", "v", "add verbosity (-v: info, -vv: debug)")
}

func Execute() error {
	return rootCmd.Execute()
}

// recoverPanic converts a panic in a command into an error and prints the stack trace. Commands defer it.
func recoverPanic(retErr *error) {
	v := recover()
	if v == nil {
		return
	}
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("an unexpected error occurred: %v", v)
	}
	*retErr = err
	fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
}
