package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0x6666/ddns-client/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesStructuredField(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := New(zap.New(core))

	log.WarnObj("recode failed", "recode_error", map[string]any{"record_id": "home"})

	entries := logs.FilterMessage("recode failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	field, ok := entries[0].ContextMap()["recode_error"].(map[string]any)
	if !ok || field["record_id"] != "home" {
		t.Fatalf("unexpected field %#v", entries[0].ContextMap())
	}
}

func TestInitWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ddns.log")
	log, err := Init(&config.Config{AppName: "ddns-client", LogLevel: "debug", LogFile: path, LogMaxSizeMB: 1})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	log.DebugObj("hello", "k", "v")
	_ = Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"hello"`) {
		t.Fatalf("log file missing entry: %s", raw)
	}
}

func TestNewNilFallsBackToNop(t *testing.T) {
	if _, ok := New(nil).(NopLogger); !ok {
		t.Fatalf("expected NopLogger for nil zap logger")
	}
}
