package cmd

import (
	"fmt"
	"os"

	"github.com/samlaycock/nookjs/internal/values"
	"github.com/samlaycock/nookjs/pkg/sandbox"
	"github.com/spf13/cobra"
)

var evalPreset string

var evalCmd = &cobra.Command{
	Use:   "eval <document>",
	Short: "Evaluate one AST document and print its value",
	Long: `A REPL-less one-shot: evaluate a single JSON-encoded AST document
given directly on the command line and print the value it produced.

Example:
  nookjs eval '{"type":"Program","body":[...]}'`,
	Args: cobra.ExactArgs(1),
	RunE: evalDocument,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&evalPreset, "preset", "minimal", "host globals preset: minimal, wintercg, browser, nodejs")
}

func evalDocument(_ *cobra.Command, args []string) error {
	preset, err := presetByName(evalPreset)
	if err != nil {
		return err
	}

	in := sandbox.New(sandbox.Config{
		Globals: sandbox.NewGlobalsFromPreset(preset, os.Stdout),
		Output:  os.Stdout,
	})

	result, err := in.Evaluate(args[0], nil)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	fmt.Println(values.Inspect(result.Value))
	return nil
}
