package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/pbxdiag/pkg/output"
)

// NewSIPAuthCommand creates the sipauth command.
func NewSIPAuthCommand() *cobra.Command {
	opts := &CommonOptions{}

	cmd := &cobra.Command{
		Use:   "sipauth <extension> <domain> | <extension@domain>",
		Short: "Diagnose a failing SIP registration",
		Long: `Explain why an extension cannot register with the server.

Every log line mentioning extension@domain is collected as evidence:
  - no evidence: the device is registering against a different domain
  - "Can't find user": the extension does not exist on the server
  - otherwise: the request arrived but authentication failed (wrong password)

Exit codes:
  0 - No registration problem confirmed
  1 - Registration failure diagnosed
  2 - Configuration or runtime error`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSIPAuth(cmd, args, opts)
		},
	}

	opts.addFlags(cmd)

	return cmd
}

// splitTarget accepts "ext domain" or a single "ext@domain".
func splitTarget(args []string) (string, string, error) {
	var extension, domain string
	if len(args) == 2 {
		extension, domain = args[0], args[1]
	} else {
		var ok bool
		extension, domain, ok = strings.Cut(args[0], "@")
		if !ok {
			return "", "", fmt.Errorf("expected <extension> <domain> or <extension@domain>, got %q", args[0])
		}
	}

	extension = strings.TrimSpace(extension)
	domain = strings.TrimSpace(domain)
	if extension == "" || domain == "" {
		return "", "", errors.New("extension and domain are both required")
	}
	return extension, domain, nil
}

func runSIPAuth(cmd *cobra.Command, args []string, opts *CommonOptions) error {
	started := time.Now()
	ctx := commandContext(cmd)

	extension, domain, err := splitTarget(args)
	if err != nil {
		return err
	}

	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	result, err := newDiagnoser(cfg, logger).DiagnoseSIPAuth(ctx, extension, domain)
	if err != nil {
		return fmt.Errorf("diagnosing %s@%s: %w", extension, domain, err)
	}

	report := output.NewSIPAuthReport(result, extension, domain, cfg.LogFile, started)
	return opts.emit(ctx, cmd, cfg, logger, report)
}
