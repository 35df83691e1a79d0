package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/pbxdiag/pkg/config"
)

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"callflow", "sipauth", "serve", "validate", "version"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Missing subcommand: %s", name)
		}
	}
}

func TestRun_ExitCodes(t *testing.T) {
	for _, key := range []string{config.EnvLogFile, config.EnvLogLevel} {
		t.Setenv(key, "")
	}

	const callID = "0d9e8f7a-6b5c-4d3e-a2f1-0a9b8c7d6e5f"
	logPath := filepath.Join(t.TempDir(), "pbx.log")
	content := callID + " dialing 555\n" +
		callID + " Channel sofia/gateway/555 hanging up, cause: NORMAL_CLEARING\n"
	if err := os.WriteFile(logPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create log file: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"normal call", []string{"callflow", "555", "--log-file", logPath, "-q"}, 0},
		{"unknown number", []string{"callflow", "777", "--log-file", logPath, "-q"}, 1},
		{"unknown command", []string{"frobnicate"}, 2},
		{"bad flag", []string{"callflow", "--nope"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if got := run(context.Background(), tt.args, &stdout, &stderr); got != tt.want {
				t.Errorf("exit code = %d, want %d (stderr: %s)", got, tt.want, stderr.String())
			}
			if tt.want == 2 && !strings.HasPrefix(stderr.String(), "Error: ") {
				t.Errorf("stderr = %q, want Error: prefix", stderr.String())
			}
		})
	}
}
