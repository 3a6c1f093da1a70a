package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MrWong99/intentbridge/internal/config"
)

func TestApplyEnv(t *testing.T) {
	t.Parallel()
	env := map[string]string{
		config.EnvBrokerURL:    "ssl://secure:8883",
		config.EnvMQTTUsername: "user",
		config.EnvMQTTPassword: "",
		config.EnvLogLevel:     "warn",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg := &config.Config{MQTT: config.MQTTConfig{Password: "keep"}}
	config.ApplyEnv(cfg, lookup)

	if cfg.MQTT.BrokerURL != "ssl://secure:8883" {
		t.Errorf("broker_url = %q", cfg.MQTT.BrokerURL)
	}
	if cfg.MQTT.Username != "user" {
		t.Errorf("username = %q", cfg.MQTT.Username)
	}
	if cfg.MQTT.Password != "keep" {
		t.Errorf("empty env value must not override, got %q", cfg.MQTT.Password)
	}
	if cfg.Server.LogLevel != config.LogWarn {
		t.Errorf("log_level = %q", cfg.Server.LogLevel)
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "INTENTBRIDGE_TEST_DOTENV=loaded\nINTENTBRIDGE_TEST_PRESET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("INTENTBRIDGE_TEST_PRESET", "from-process")
	t.Setenv("INTENTBRIDGE_TEST_DOTENV", "")
	os.Unsetenv("INTENTBRIDGE_TEST_DOTENV")

	if err := config.LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv("INTENTBRIDGE_TEST_DOTENV"); got != "loaded" {
		t.Errorf("INTENTBRIDGE_TEST_DOTENV = %q, want loaded", got)
	}
	if got := os.Getenv("INTENTBRIDGE_TEST_PRESET"); got != "from-process" {
		t.Errorf("dotenv must not override the process, got %q", got)
	}
}

func TestLoadEnv_Missing(t *testing.T) {
	t.Parallel()
	if err := config.LoadEnv(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("explicit missing file should fail")
	}
}
