// Package cli provides the command-line interface for pbxdiag.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/pbxdiag/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	commands.ExitCode = 0

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// SilenceErrors prevents Cobra from printing this itself
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pbxdiag",
		Short: "Diagnose calls and SIP registrations from call-server logs",
		Long: `pbxdiag reads a telephony call-server log and explains what happened.

It answers two questions:
  - How was the most recent call to a number routed, and who hung up?
  - Why is an extension failing to register?

Logs are read as UTF-8; a log that is not valid UTF-8 is re-read as Latin-1.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewCallFlowCommand())
	rootCmd.AddCommand(commands.NewSIPAuthCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
