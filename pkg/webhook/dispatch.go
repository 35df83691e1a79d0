package webhook

import (
	"context"
	"log/slog"

	"github.com/ccollicutt/pbxdiag/pkg/config"
	"github.com/ccollicutt/pbxdiag/pkg/output"
)

// Dispatcher fans a report out to every configured webhook whose trigger
// matches.
type Dispatcher struct {
	client  *Client
	targets []config.WebhookConfig
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher for the given webhooks.
// A nil logger falls back to slog.Default().
func NewDispatcher(client *Client, targets []config.WebhookConfig, logger *slog.Logger) *Dispatcher {
	if client == nil {
		client = NewClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{client: client, targets: targets, logger: logger}
}

// Result pairs a webhook with the response it produced.
type Result struct {
	Name     string
	Response *Response
}

// Dispatch sends the report to each matching webhook in order and returns
// one Result per webhook that fired.
func (d *Dispatcher) Dispatch(ctx context.Context, report *output.Report) []Result {
	var results []Result

	for _, wh := range d.targets {
		if !ShouldFire(wh.Trigger, report.HasIssues()) {
			continue
		}

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		resp := d.client.Send(ctx, report, SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		if resp.Success() {
			d.logger.Info("webhook sent", "webhook", name, "status", resp.StatusCode, "duration", resp.Duration)
		} else {
			d.logger.Warn("webhook failed", "webhook", name, "error", resp.Error)
		}

		results = append(results, Result{Name: name, Response: resp})
	}

	return results
}

// ShouldFire reports whether a webhook with the given trigger fires for a
// report. Unknown or empty triggers behave like on_issues.
func ShouldFire(trigger config.WebhookTrigger, hasIssues bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasIssues
	}
}
