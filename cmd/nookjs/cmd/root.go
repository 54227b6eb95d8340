package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "nookjs",
	Short: "A sandboxed interpreter for ESTree-shaped scripts",
	Long: `nookjs runs a large subset of modern JavaScript against an AST
produced by an external parser: it never parses source text itself, only
the JSON-encoded ESTree document a parser handed it.

It enforces call-stack depth, loop-iteration, and memory limits, and
forbids the handful of sandbox-escape vectors (__proto__ walking,
constructor/prototype poking, reentrant evaluation) a host embedding this
interpreter needs to not worry about.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
