package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/pbxdiag/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a pbxdiag configuration file without scanning any log.

Checks:
  - YAML syntax
  - Required fields
  - Logging level and format
  - Webhook URLs and triggers
  - Log file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(commandContext(cmd), configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Log file:  %s\n", cfg.LogFile)
	fmt.Fprintf(out, "  Listen:    %s\n", cfg.Server.Listen)
	fmt.Fprintf(out, "  Logging:   %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
	fmt.Fprintf(out, "  Webhooks:  %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		fmt.Fprintf(out, "    %d. %s [%s]\n", i+1, name, wh.Trigger)
	}

	if _, err := os.Stat(cfg.LogFile); err != nil {
		fmt.Fprintf(out, "\nWarning: log file %s is not readable: %v\n", cfg.LogFile, err)
	}

	return nil
}
