package log

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func restore(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		SetFormat("text")
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
}

func TestLevels(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be hidden at info level, got %q", buf.String())
	}

	SetVerbose(true)
	Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected debug output, got %q", buf.String())
	}

	buf.Reset()
	SetQuiet(true)
	Warn("quiet warn")
	Error("loud error")
	if strings.Contains(buf.String(), "quiet warn") {
		t.Error("warn should be hidden in quiet mode")
	}
	if !strings.Contains(buf.String(), "loud error") {
		t.Error("error should be shown in quiet mode")
	}
}

func TestSetLevel(t *testing.T) {
	restore(t)
	if !SetLevel("warn") {
		t.Fatal("warn should parse")
	}
	if SetLevel("chatty") {
		t.Error("unknown level should not parse")
	}
}

func TestJSONFormat(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat("json")

	With("component", "test").Info("hello", "n", 1)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "hello" || rec["component"] != "test" {
		t.Errorf("unexpected record: %v", rec)
	}
}
