package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("address = %q, want :8080", cfg.Server.Address)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "relay.json", `{
		"name": "edge",
		"server": {"address": ":9090", "read_timeout": "90s"},
		"log": {"level": "debug", "format": "json"}
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Name != "edge" {
		t.Fatalf("name = %q", cfg.Name)
	}
	if cfg.Server.Address != ":9090" {
		t.Fatalf("address = %q", cfg.Server.Address)
	}
	if got := time.Duration(cfg.Server.ReadTimeout); got != 90*time.Second {
		t.Fatalf("read_timeout = %v, want 90s", got)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "relay.yaml", `
name: edge
server:
  address: ":7070"
  trusted_proxies:
    - 10.0.0.0/8
  shutdown_timeout: 15
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Address != ":7070" {
		t.Fatalf("address = %q", cfg.Server.Address)
	}
	if len(cfg.Server.TrustedProxies) != 1 || cfg.Server.TrustedProxies[0] != "10.0.0.0/8" {
		t.Fatalf("trusted_proxies = %v", cfg.Server.TrustedProxies)
	}
	if got := time.Duration(cfg.Server.ShutdownTimeout); got != 15*time.Second {
		t.Fatalf("shutdown_timeout = %v, want 15s", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "relay.json", `{"server": {"address": ":9090"}}`)
	t.Setenv("RELAY_ADDRESS", ":6060")
	t.Setenv("RELAY_TRUSTED_PROXIES", "10.0.0.1, 192.168.0.0/16")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Address != ":6060" {
		t.Fatalf("address = %q, want :6060", cfg.Server.Address)
	}
	if len(cfg.Server.TrustedProxies) != 2 {
		t.Fatalf("trusted_proxies = %v", cfg.Server.TrustedProxies)
	}
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "RELAY_LOG_FORMAT=json\n")
	t.Setenv("RELAY_LOG_FORMAT", "")
	os.Unsetenv("RELAY_LOG_FORMAT")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Log.Format != "json" {
		t.Fatalf("format = %q, want json", cfg.Log.Format)
	}
}

func TestInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "relay.json", `{not json`)

	if _, err := Load(dir); err == nil {
		t.Fatal("Load accepted malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	cfg.Server.Address = "no-port"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted an address without a port")
	}

	cfg = New()
	cfg.Log.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted an unknown log level")
	}
}

func TestWarnings(t *testing.T) {
	cfg := New()
	cfg.Server.FallbackHost = "api.example.com"
	warnings := cfg.Warnings()
	if len(warnings) == 0 {
		t.Fatal("expected a trusted_proxies warning")
	}
}

func TestHTTPConfig(t *testing.T) {
	cfg := New()
	cfg.Server.ReadTimeout = Duration(30 * time.Second)
	hc := cfg.HTTPConfig()
	if hc.Address != ":8080" || hc.ReadTimeout != 30*time.Second {
		t.Fatalf("HTTPConfig = %+v", hc)
	}
}
