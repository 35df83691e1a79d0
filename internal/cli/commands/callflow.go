package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/pbxdiag/pkg/analyzer"
	"github.com/ccollicutt/pbxdiag/pkg/output"
)

// CallFlowOptions holds command-line options for the callflow command.
type CallFlowOptions struct {
	CommonOptions
	CallID string
}

// NewCallFlowCommand creates the callflow command.
func NewCallFlowCommand() *cobra.Command {
	opts := &CallFlowOptions{}

	cmd := &cobra.Command{
		Use:   "callflow [number]",
		Short: "Reconstruct the most recent call to a number",
		Long: `Find the most recent call involving a dialed number and rebuild its flow.

The last Call-ID logged next to the number is used. Every transfer for that
call is listed and classified:
  800-899  Time Condition Applied
  400-499  Call Sent to Ring Group
  200-399  Call Routed to an Extension
  600-699  Call Passed Through an IVR
  other    Call Routed

The first hangup record closes the flow with its cause and which party
disconnected first. Use --call-id to trace a known call directly.

Exit codes:
  0 - Call found and ended normally
  1 - No call found, or the call ended abnormally
  2 - Configuration or runtime error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCallFlow(cmd, args, opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.CallID, "call-id", "", "Trace this Call-ID instead of resolving it from the number")

	return cmd
}

func runCallFlow(cmd *cobra.Command, args []string, opts *CallFlowOptions) error {
	started := time.Now()
	ctx := commandContext(cmd)

	var number string
	if len(args) == 1 {
		number = strings.TrimSpace(args[0])
	}
	callID := strings.TrimSpace(opts.CallID)
	if number == "" && callID == "" {
		return errors.New("a dialed number or --call-id is required")
	}

	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)
	diag := newDiagnoser(cfg, logger)

	var trace *analyzer.CallTrace
	if callID != "" {
		events, err := diag.BuildCallFlow(ctx, callID, number)
		if err != nil {
			return fmt.Errorf("building call flow: %w", err)
		}
		trace = &analyzer.CallTrace{Number: number, CallID: callID, Found: true, Events: events}
	} else {
		trace, err = diag.TraceNumber(ctx, number)
		if err != nil {
			return fmt.Errorf("tracing %s: %w", number, err)
		}
	}

	report := output.NewCallFlowReport(trace, cfg.LogFile, started)
	if report.Subject == "" {
		report.Subject = callID
	}

	return opts.emit(ctx, cmd, cfg, logger, report)
}
