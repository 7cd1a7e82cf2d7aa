package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/natefinch/lumberjack.v2"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir()) // no config file present

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HostBookmarksFile == "" {
		t.Error("bookmarks file default missing")
	}
	if cfg.DBPath == "" {
		t.Error("db path default missing")
	}
	if cfg.EventPort != 7161 {
		t.Errorf("event port = %d, want 7161", cfg.EventPort)
	}
	if cfg.AnthropicModel == "" {
		t.Error("model default missing")
	}
	if cfg.AutoClassify {
		t.Error("auto-classify must default off")
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `host_bookmarks_file: /tmp/Bookmarks
db_path: /tmp/store.db
auto_classify: true
event_port: 9999
log_file: /tmp/sidemark.log
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HostBookmarksFile != "/tmp/Bookmarks" {
		t.Errorf("bookmarks file = %q", cfg.HostBookmarksFile)
	}
	if cfg.DBPath != "/tmp/store.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if !cfg.AutoClassify {
		t.Error("auto-classify not read")
	}
	if cfg.EventPort != 9999 {
		t.Errorf("event port = %d", cfg.EventPort)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("an explicitly named config file must exist")
	}
}

func TestLoadDefaultLocation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "sidemark")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("event_port: 8123\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.EventPort != 8123 {
		t.Errorf("event port = %d, want value from XDG config", cfg.EventPort)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SIDEMARK_ANTHROPIC_API_KEY", "sk-test-123")
	t.Setenv("SIDEMARK_AUTO_CLASSIFY", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AnthropicAPIKey != "sk-test-123" {
		t.Errorf("api key = %q, want env value", cfg.AnthropicAPIKey)
	}
	if !cfg.AutoClassify {
		t.Error("env auto-classify not applied")
	}
}

func TestLogWriter(t *testing.T) {
	cfg := &Config{}
	if cfg.LogWriter() != os.Stderr {
		t.Error("empty log file should write to stderr")
	}

	cfg.LogFile = filepath.Join(t.TempDir(), "sidemark.log")
	if _, ok := cfg.LogWriter().(*lumberjack.Logger); !ok {
		t.Error("log file should use the rotating writer")
	}
}
