package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "viewer.log")
	t.Cleanup(func() { Set(nil) })

	if err := Init(Options{Level: "debug", Format: "json", ToFile: true, FilePath: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	L().Info("board_render", zap.Int("pieces", 32))
	Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"board_render"`) || !strings.Contains(string(raw), `"pieces":32`) {
		t.Fatalf("unexpected log content: %s", raw)
	}
}

func TestInitWithoutSinksIsNop(t *testing.T) {
	t.Cleanup(func() { Set(nil) })
	if err := Init(Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if L().Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected no-op logger")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARNING": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
