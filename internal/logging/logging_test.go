package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "menubar.log")
	Configure(path)
	t.Cleanup(func() {
		Configure("")
		SetTraceEnabled(false)
	})
	return path
}

func TestErrorAndWarnfAppend(t *testing.T) {
	path := useTempLog(t)
	Error(errors.New("boom"))
	Error(nil)
	Warnf("both %s and %s", "onClick", "children")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "boom") {
		t.Fatalf("expected error line, got %q", out)
	}
	if !strings.Contains(out, "warning: both onClick and children") {
		t.Fatalf("expected warning line, got %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected two lines, got %q", out)
	}
}

func TestTraceWritesJSONWhenEnabled(t *testing.T) {
	path := useTempLog(t)
	Trace("ignored", nil)
	SetTraceEnabled(true)
	Trace("menu.open", map[string]interface{}{"id": 3})
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one trace entry, got %d", len(lines))
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if entry.Event != "menu.open" || entry.Payload["id"] != float64(3) {
		t.Fatalf("unexpected entry %+v", entry)
	}
}
