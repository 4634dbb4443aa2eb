package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigPath(t *testing.T) {
	t.Run("env override wins", func(t *testing.T) {
		t.Setenv(envConfigPath, "/etc/loom/config.yaml")
		if got := configPath(); got != "/etc/loom/config.yaml" {
			t.Fatalf("unexpected config path: got %q", got)
		}
	})

	t.Run("default lives under the user config dir", func(t *testing.T) {
		t.Setenv(envConfigPath, "")
		got := configPath()
		if got != "" && !strings.HasSuffix(got, filepath.Join("loom", "config.yaml")) {
			t.Fatalf("unexpected config path: got %q", got)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads values from the config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		body := strings.Join([]string{
			"vocab_file: /data/vocab.txt",
			"temperature: 0.8",
			"top_k: 40",
			"server_address: 0.0.0.0:8080",
			"log_level: debug",
		}, "\n")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(envConfigPath, path)

		cfg := LoadConfig()
		if cfg.VocabFile != "/data/vocab.txt" {
			t.Fatalf("unexpected vocab file: got %q", cfg.VocabFile)
		}
		if cfg.Temperature == nil || *cfg.Temperature != 0.8 {
			t.Fatalf("unexpected temperature: got %v", cfg.Temperature)
		}
		if cfg.TopK == nil || *cfg.TopK != 40 {
			t.Fatalf("unexpected top_k: got %v", cfg.TopK)
		}
		if cfg.Seed != nil {
			t.Fatalf("expected absent seed to stay nil")
		}
		if cfg.ServerAddress != "0.0.0.0:8080" {
			t.Fatalf("unexpected server address: got %q", cfg.ServerAddress)
		}
		if cfg.LogLevel != "debug" {
			t.Fatalf("unexpected log level: got %q", cfg.LogLevel)
		}
	})

	t.Run("missing file yields empty config", func(t *testing.T) {
		t.Setenv(envConfigPath, filepath.Join(t.TempDir(), "absent.yaml"))
		if cfg := LoadConfig(); cfg != (Config{}) {
			t.Fatalf("expected empty config, got %+v", cfg)
		}
	})

	t.Run("malformed file yields empty config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("{ unclosed"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(envConfigPath, path)
		if cfg := LoadConfig(); cfg != (Config{}) {
			t.Fatalf("expected empty config, got %+v", cfg)
		}
	})
}
