package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/pbxdiag/pkg/parser"
)

const (
	testCallID = "11111111-1111-1111-1111-111111111111"
	otherID    = "22222222-2222-2222-2222-222222222222"
)

// writeLog writes lines to a temporary log file and returns its path.
func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	return writeRawLog(t, []byte(strings.Join(lines, "\n")+"\n"))
}

func writeRawLog(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "freeswitch.log")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func missingLog(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.log")
}

// process feeds lines directly to a processor, bypassing the scanner.
func process(t *testing.T, p LineProcessor, lines ...string) {
	t.Helper()
	ctx := context.Background()
	for i, content := range lines {
		err := p.Process(ctx, &parser.LogLine{
			Content: content,
			Source:  "test.log",
			LineNum: i + 1,
		})
		if err == ErrStop {
			return
		}
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
	}
}

func transferLine(callID string, dest string) string {
	return "2024-01-15 10:00:00.200 [NOTICE] switch_ivr.c:2172 " + callID +
		" Transfer sofia/internal/100@pbx.local to XML[" + dest + "@pbx.local]"
}

func hangupLine(callID, channel, cause string) string {
	return "2024-01-15 10:00:05.000 [NOTICE] sofia.c:1000 " + callID +
		" Channel " + channel + " hanging up, cause: " + cause
}

func newChannelLine(callID, number string) string {
	return "2024-01-15 10:00:00.100 [NOTICE] switch_channel.c:1104 " + callID +
		" New Channel sofia/internal/100@pbx.local [" + number + "]"
}
