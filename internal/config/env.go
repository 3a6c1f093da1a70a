package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// Environment variables that override the file.
const (
	EnvBrokerURL    = "INTENTBRIDGE_MQTT_BROKER_URL"
	EnvMQTTUsername = "INTENTBRIDGE_MQTT_USERNAME"
	EnvMQTTPassword = "INTENTBRIDGE_MQTT_PASSWORD"
	EnvLogLevel     = "INTENTBRIDGE_LOG_LEVEL"
)

// DefaultEnvFile is read by [LoadEnv] when no path is given.
const DefaultEnvFile = ".env"

// LoadEnv loads a dotenv file into the process environment without
// overriding variables that are already set. An empty path reads
// [DefaultEnvFile] and tolerates its absence; an explicit path must exist.
func LoadEnv(path string) error {
	optional := path == ""
	if optional {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load env %q: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides secrets and the log level from the environment. lookup
// is usually os.LookupEnv. Empty values are ignored.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvBrokerURL, &cfg.MQTT.BrokerURL)
	set(EnvMQTTUsername, &cfg.MQTT.Username)
	set(EnvMQTTPassword, &cfg.MQTT.Password)
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Server.LogLevel = LogLevel(v)
	}
}
