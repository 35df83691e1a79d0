package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/pbxdiag/internal/logging"
	"github.com/ccollicutt/pbxdiag/pkg/analyzer"
	"github.com/ccollicutt/pbxdiag/pkg/config"
	"github.com/ccollicutt/pbxdiag/pkg/output"
	"github.com/ccollicutt/pbxdiag/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// CommonOptions holds the flags shared by the diagnostic commands.
type CommonOptions struct {
	ConfigFile string
	EnvFile    string
	LogFile    string
	Output     string
	Verbose    bool
	Quiet      bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

func (o *CommonOptions) addFlags(cmd *cobra.Command) {
	addSourceFlags(cmd, &o.ConfigFile, &o.EnvFile, &o.LogFile)
	cmd.Flags().StringVarP(&o.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&o.Verbose, "verbose", "v", false, "Show raw log lines and run details")
	cmd.Flags().BoolVarP(&o.Quiet, "quiet", "q", false, "Summary only, no details")

	cmd.Flags().StringVar(&o.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&o.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&o.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnIssues), "When to fire webhook (on_issues|always|never)")
}

// addSourceFlags registers the flags that locate configuration and the log.
func addSourceFlags(cmd *cobra.Command, configFile, envFile, logFile *string) {
	cmd.Flags().StringVarP(configFile, "config", "c", "", "Configuration file (optional)")
	cmd.Flags().StringVar(envFile, "env-file", "", "Load "+config.EnvLogFile+" and friends from a dotenv file")
	cmd.Flags().StringVar(logFile, "log-file", "", "Call-server log to scan (overrides config and "+config.EnvLogFile+")")
}

// loadConfig resolves configuration with precedence flags > env > file > defaults.
// An env file only fills variables the real environment leaves unset.
func loadConfig(ctx context.Context, configFile, envFile, logFile string) (*config.Config, error) {
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if logFile != "" {
		cfg.LogFile = logFile
	}

	return cfg, nil
}

func (o *CommonOptions) loadConfig(ctx context.Context) (*config.Config, error) {
	return loadConfig(ctx, o.ConfigFile, o.EnvFile, o.LogFile)
}

// newLogger builds a logger writing to the command's stderr so reports on
// stdout stay clean.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
}

func newDiagnoser(cfg *config.Config, logger *slog.Logger) *analyzer.Diagnoser {
	return analyzer.NewDiagnoser(cfg.LogFile,
		analyzer.WithMaxLineSize(cfg.MaxLineSize),
		analyzer.WithLogger(logger),
	)
}

func (o *CommonOptions) createFormatter() (output.Formatter, error) {
	return output.NewFormatter(o.Output, output.FormatOptions{
		Verbose: o.Verbose,
		Quiet:   o.Quiet,
	})
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func (o *CommonOptions) collectWebhooks(cfg *config.Config) ([]config.WebhookConfig, error) {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if o.WebhookURL != "" {
		trigger := config.WebhookTrigger(o.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}

		wh := config.WebhookConfig{
			Name:    "cli",
			URL:     o.WebhookURL,
			Token:   o.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		}
		if err := config.ValidateWebhook(&wh); err != nil {
			return nil, fmt.Errorf("--webhook-url: %w", err)
		}
		webhooks = append(webhooks, wh)
	}

	return webhooks, nil
}

// emit writes the report, fires webhooks and sets ExitCode.
// Webhook failures are logged but don't fail the command.
func (o *CommonOptions) emit(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, report *output.Report) error {
	formatter, err := o.createFormatter()
	if err != nil {
		return err
	}

	webhooks, err := o.collectWebhooks(cfg)
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if len(webhooks) > 0 {
		webhook.NewDispatcher(nil, webhooks, logger).Dispatch(ctx, report)
	}

	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
