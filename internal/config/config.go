// Package config provides the configuration schema and loader for
// intentbridge, plus a polling watcher for hot reload.
package config

import (
	"log/slog"
	"slices"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// SlogLevel maps l to the slog level. Unknown values map to Info.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Config is the root configuration. Load it with [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Feed      FeedConfig      `yaml:"feed"`
	Intents   IntentsConfig   `yaml:"intents"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds the ops HTTP server settings.
type ServerConfig struct {
	// ListenAddr is the TCP address for /healthz, /readyz, /metrics and the
	// live feed. Default ":8080".
	ListenAddr string `yaml:"listen_addr"`

	LogLevel LogLevel `yaml:"log_level"`

	// TLS enables HTTPS when set.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds PEM file paths for HTTPS.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// MQTTConfig configures the hermes bus subscription.
type MQTTConfig struct {
	// Enabled defaults to true.
	Enabled *bool `yaml:"enabled"`

	// BrokerURL is e.g. "tcp://localhost:1883". Default "tcp://localhost:1883".
	BrokerURL string `yaml:"broker_url"`

	// ClientID defaults to "intentbridge-<uuid>".
	ClientID string `yaml:"client_id"`

	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// TopicPrefix is the hermes root topic. Default "hermes".
	TopicPrefix string `yaml:"topic_prefix"`

	// QoS is the subscription QoS, 0 to 2. Default 1.
	QoS *int `yaml:"qos"`
}

// IsEnabled reports whether the subscriber should run.
func (m MQTTConfig) IsEnabled() bool { return m.Enabled == nil || *m.Enabled }

// QoSLevel returns the configured QoS, or 1.
func (m MQTTConfig) QoSLevel() byte {
	if m.QoS == nil {
		return 1
	}
	return byte(*m.QoS)
}

// FeedConfig configures the websocket live feed.
type FeedConfig struct {
	// Enabled defaults to true.
	Enabled *bool `yaml:"enabled"`

	// Path is the websocket route. Default "/ws/intents".
	Path string `yaml:"path"`

	// Buffer is the per-client queue length. Default 32.
	Buffer int `yaml:"buffer"`

	// OriginPatterns lists allowed Origin hosts; empty allows same-origin only.
	OriginPatterns []string `yaml:"origin_patterns"`
}

// IsEnabled reports whether the feed route is mounted.
func (f FeedConfig) IsEnabled() bool { return f.Enabled == nil || *f.Enabled }

// IntentsConfig is the delivery filter. It can be changed at runtime.
type IntentsConfig struct {
	// Allow lists the intent names to deliver. Empty delivers everything,
	// including messages without a classified intent.
	Allow []string `yaml:"allow"`

	// MinProbability drops classified intents below this probability.
	MinProbability float32 `yaml:"min_probability"`
}

// Equal reports whether both filters behave identically.
func (c IntentsConfig) Equal(o IntentsConfig) bool {
	return c.MinProbability == o.MinProbability && slices.Equal(c.Allow, o.Allow)
}

// TelemetryConfig configures the OpenTelemetry resource.
type TelemetryConfig struct {
	// ServiceName defaults to "intentbridge".
	ServiceName string `yaml:"service_name"`
}
