package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	ResetForTest(t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if c.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", c.Server.Port)
	}
	if c.Server.Addr() != "0.0.0.0:8000" {
		t.Errorf("unexpected addr %q", c.Server.Addr())
	}
	if c.Workflow.PhaseDelay != 1500*time.Millisecond {
		t.Errorf("expected 1500ms phase delay, got %v", c.Workflow.PhaseDelay)
	}
	if c.Backend.Enabled() {
		t.Error("backend should be disabled by default")
	}
	if c.Backend.MaxRetries != 0 {
		t.Errorf("expected no retries by default, got %d", c.Backend.MaxRetries)
	}
	if c.Session.TTL != 30*time.Minute {
		t.Errorf("expected 30m session ttl, got %v", c.Session.TTL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CVLIFT_SERVER_PORT", "9090")
	t.Setenv("CVLIFT_BACKEND_ENDPOINT", "https://api.example.com/edit-resume")
	t.Setenv("CVLIFT_WORKFLOW_PHASE_DELAY", "10ms")
	ResetForTest(t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", c.Server.Port)
	}
	if !c.Backend.Enabled() {
		t.Error("backend should be enabled by env")
	}
	if c.Workflow.PhaseDelay != 10*time.Millisecond {
		t.Errorf("expected 10ms, got %v", c.Workflow.PhaseDelay)
	}
}

func TestSetAndGet(t *testing.T) {
	dir := t.TempDir()
	ResetForTest(dir)

	if err := Set("server.port", "9000"); err != nil {
		t.Fatalf("Set port error: %v", err)
	}
	if err := Set("backend.endpoint", "https://api.example.com/edit"); err != nil {
		t.Fatalf("Set endpoint error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".cvlift.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "endpoint: https://api.example.com/edit") {
		t.Errorf("unexpected config file:\n%s", data)
	}
	if strings.Contains(string(data), "shutdown_timeout") {
		t.Errorf("defaults should not be written:\n%s", data)
	}

	// Reload from file
	ResetForTest(dir)

	port, err := Get("server.port")
	if err != nil {
		t.Fatalf("Get port error: %v", err)
	}
	if port != "9000" {
		t.Errorf("expected port 9000, got %q", port)
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Server.Port != 9000 || c.Backend.Endpoint != "https://api.example.com/edit" {
		t.Errorf("unexpected config after reload: %+v", c)
	}
}

func TestSetRejectsInvalidValue(t *testing.T) {
	ResetForTest(t.TempDir())

	if err := Set("server.port", "70000"); err == nil {
		t.Fatal("expected error for out of range port")
	}
	if _, err := Load(); err != nil {
		t.Errorf("rejected value should not stick: %v", err)
	}
	if _, err := os.Stat(Path()); !os.IsNotExist(err) {
		t.Error("config file should not be written for a rejected value")
	}
}

func TestSetInvalidKey(t *testing.T) {
	ResetForTest(t.TempDir())

	if err := Set("invalid_key", "value"); err == nil {
		t.Error("Expected error for invalid key, got nil")
	}
}

func TestGetInvalidKey(t *testing.T) {
	ResetForTest(t.TempDir())

	if _, err := Get("invalid_key"); err == nil {
		t.Error("Expected error for invalid key, got nil")
	}
}

func TestValidate(t *testing.T) {
	c := Config{
		Server:   ServerConfig{Port: 0},
		Workflow: WorkflowConfig{PhaseDelay: -time.Second},
		Backend:  BackendConfig{MaxRetries: -1},
		Log:      LogConfig{Format: "xml"},
	}
	err := c.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"server.port", "workflow.phase_delay", "backend.max_retries", "log.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestRunnerDelay(t *testing.T) {
	if d := (WorkflowConfig{}).RunnerDelay(); d >= 0 {
		t.Errorf("zero delay should disable waiting, got %v", d)
	}
	if d := (WorkflowConfig{PhaseDelay: time.Second}).RunnerDelay(); d != time.Second {
		t.Errorf("expected 1s, got %v", d)
	}
}

func TestAll(t *testing.T) {
	ResetForTest(t.TempDir())
	all := All()
	if len(all) != len(Keys) {
		t.Errorf("expected %d keys, got %d", len(Keys), len(all))
	}
	if all["log.format"] != "text" {
		t.Errorf("unexpected log.format %q", all["log.format"])
	}
}
