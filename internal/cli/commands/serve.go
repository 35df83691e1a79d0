package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/pbxdiag/internal/server"
	"github.com/ccollicutt/pbxdiag/pkg/config"
	"github.com/ccollicutt/pbxdiag/pkg/webhook"
)

// ServeOptions holds command-line options for the serve command.
type ServeOptions struct {
	ConfigFile string
	EnvFile    string
	LogFile    string
	Listen     string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagnostics over HTTP",
		Long: `Start the HTTP diagnostics service.

Routes:
  GET  /logs/             empty diagnostics page state
  POST /logs/             form submit (action=callflow|sipauth)
  GET  /api/v1/callflow   ?number=
  GET  /api/v1/sipauth    ?extension=&domain=
  GET  /health

Each request scans the log afresh, so requests are rate limited per client
IP (server.rate_limit). Webhooks from the configuration file fire for API
reports. The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	addSourceFlags(cmd, &opts.ConfigFile, &opts.EnvFile, &opts.LogFile)
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "Listen address (default "+config.DefaultListen+")")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, opts.ConfigFile, opts.EnvFile, opts.LogFile)
	if err != nil {
		return err
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	logger := newLogger(cmd, cfg)

	rl := cfg.Server.RateLimit
	srvOpts := []server.Option{
		server.WithLogger(logger),
		server.WithRateLimit(rl.RequestsPerSecond, rl.Burst),
	}
	if len(cfg.Webhooks) > 0 {
		srvOpts = append(srvOpts, server.WithDispatcher(webhook.NewDispatcher(nil, cfg.Webhooks, logger)))
	}

	srv := server.New(newDiagnoser(cfg, logger), srvOpts...)
	return serve(ctx, srv, cfg.Server.Listen)
}

// serve is swapped in tests to avoid binding a port.
var serve = func(ctx context.Context, srv *server.Server, addr string) error {
	return srv.ListenAndServe(ctx, addr)
}
