package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/samlaycock/nookjs/internal/values"
	"github.com/samlaycock/nookjs/pkg/sandbox"
	"github.com/spf13/cobra"
)

var (
	evalDoc    string
	presetName string
	async      bool
	maxStack   int
	maxLoop    int
	maxMemory  int64
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a JSON-encoded AST document or inline document",
	Long: `Execute a program from a file or inline document holding a
JSON-encoded ESTree AST (this interpreter consumes an AST produced by an
external parser; it does not parse JavaScript source text itself).

Examples:
  # Run an AST document file
  nookjs run program.json

  # Evaluate an inline document
  nookjs run -e '{"type":"Program","body":[...]}'

  # Run under the cooperative async evaluator
  nookjs run --async program.json

  # Run with the WinterCG preset instead of the default Minimal one
  nookjs run --preset wintercg program.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalDoc, "eval", "e", "", "evaluate an inline AST document instead of reading from file")
	runCmd.Flags().StringVar(&presetName, "preset", "minimal", "host globals preset: minimal, wintercg, browser, nodejs")
	runCmd.Flags().BoolVar(&async, "async", false, "evaluate under the cooperative async evaluator")
	runCmd.Flags().IntVar(&maxStack, "max-call-stack-depth", 0, "override the call-stack depth limit (0 keeps the default)")
	runCmd.Flags().IntVar(&maxLoop, "max-loop-iterations", 0, "override the loop-iteration limit (0 keeps the default)")
	runCmd.Flags().Int64Var(&maxMemory, "max-memory", 0, "override the memory-charge limit in bytes (0 keeps the default)")
}

func runProgram(_ *cobra.Command, args []string) error {
	var (
		source   string
		filename string
	)
	if evalDoc != "" {
		source = evalDoc
		filename = "<eval>"
	} else if len(args) == 1 {
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		source = string(content)
	} else {
		return fmt.Errorf("either provide a file path or use -e flag for an inline AST document")
	}

	preset, err := presetByName(presetName)
	if err != nil {
		return err
	}

	in := sandbox.New(sandbox.Config{
		Globals: sandbox.NewGlobalsFromPreset(preset, os.Stdout),
		Output:  os.Stdout,
	})

	opts := &sandbox.CallOptions{}
	if maxStack > 0 {
		opts.Limits.MaxCallStackDepth = maxStack
	}
	if maxLoop > 0 {
		opts.Limits.MaxLoopIterations = maxLoop
	}
	if maxMemory > 0 {
		opts.Limits.MaxMemoryBytes = maxMemory
	}

	var result sandbox.Result
	if async {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		result, err = in.EvaluateAsync(ctx, source, opts)
	} else {
		result, err = in.Evaluate(source, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %s\n", err)
		return fmt.Errorf("execution failed")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[%s] evaluated %s\n", presetName, filename)
	}
	if result.Success && result.Value != nil && result.Value.Type() != "undefined" {
		fmt.Println(values.Inspect(result.Value))
	}
	return nil
}

func presetByName(name string) (sandbox.PresetName, error) {
	switch name {
	case "minimal":
		return sandbox.PresetMinimal, nil
	case "wintercg":
		return sandbox.PresetWinterCG, nil
	case "browser":
		return sandbox.PresetBrowser, nil
	case "nodejs":
		return sandbox.PresetNodeJS, nil
	default:
		return "", fmt.Errorf("unknown preset %q (want minimal, wintercg, browser, or nodejs)", name)
	}
}
