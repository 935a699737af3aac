package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/park285/cheese-board-viewer/internal/position"
)

func TestFailedDecodeStillWritesMetrics(t *testing.T) {
	t.Setenv("LOG_TO_CONSOLE", "false")
	path := filepath.Join(t.TempDir(), "viewer.prom")

	err := run([]string{"decode", "--hex", "00 04 01 01", "--metrics-out", path})
	if !errors.Is(err, position.ErrUnknownRecordCount) {
		t.Fatalf("run: got %v, want unknown record count", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(raw), `boardview_decode_total{result="unknown_count"} 1`) {
		t.Fatalf("unexpected metrics:\n%s", raw)
	}
}
