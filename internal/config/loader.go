package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultListenAddr  = ":8080"
	DefaultBrokerURL   = "tcp://localhost:1883"
	DefaultTopicPrefix = "hermes"
	DefaultFeedPath    = "/ws/intents"
	DefaultFeedBuffer  = 32
	DefaultServiceName = "intentbridge"
)

var brokerSchemes = []string{"tcp", "mqtt", "ssl", "tls", "mqtts", "ws", "wss"}

// Load reads the YAML file at path, applies INTENTBRIDGE_* environment
// overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := parse(f, os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults and
// validates. The environment is not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	return parse(r, nil)
}

func parse(r io.Reader, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if lookup != nil {
		ApplyEnv(cfg, lookup)
	}
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills every unset field that has a default.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.MQTT.BrokerURL == "" {
		cfg.MQTT.BrokerURL = DefaultBrokerURL
	}
	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = DefaultTopicPrefix
	}
	if cfg.Feed.Path == "" {
		cfg.Feed.Path = DefaultFeedPath
	}
	if cfg.Feed.Buffer == 0 {
		cfg.Feed.Buffer = DefaultFeedBuffer
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = DefaultServiceName
	}
}

// Validate checks cfg and returns every problem found, joined.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if tls := cfg.Server.TLS; tls != nil && (tls.CertFile == "" || tls.KeyFile == "") {
		errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
	}

	if cfg.MQTT.IsEnabled() {
		u, err := url.Parse(cfg.MQTT.BrokerURL)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("mqtt.broker_url %q: %w", cfg.MQTT.BrokerURL, err))
		case !slices.Contains(brokerSchemes, u.Scheme):
			errs = append(errs, fmt.Errorf("mqtt.broker_url %q has unsupported scheme %q; valid schemes: %s",
				cfg.MQTT.BrokerURL, u.Scheme, strings.Join(brokerSchemes, ", ")))
		case u.Host == "":
			errs = append(errs, fmt.Errorf("mqtt.broker_url %q has no host", cfg.MQTT.BrokerURL))
		}
	}
	if strings.ContainsAny(cfg.MQTT.TopicPrefix, "+#") {
		errs = append(errs, fmt.Errorf("mqtt.topic_prefix %q must not contain wildcards", cfg.MQTT.TopicPrefix))
	}
	if q := cfg.MQTT.QoS; q != nil && (*q < 0 || *q > 2) {
		errs = append(errs, fmt.Errorf("mqtt.qos %d is out of range [0, 2]", *q))
	}

	if cfg.Feed.Path != "" && !strings.HasPrefix(cfg.Feed.Path, "/") {
		errs = append(errs, fmt.Errorf("feed.path %q must start with /", cfg.Feed.Path))
	}
	if cfg.Feed.Buffer < 0 {
		errs = append(errs, fmt.Errorf("feed.buffer %d must not be negative", cfg.Feed.Buffer))
	}

	if p := cfg.Intents.MinProbability; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("intents.min_probability %.2f is out of range [0, 1]", p))
	}
	seen := make(map[string]int, len(cfg.Intents.Allow))
	for i, name := range cfg.Intents.Allow {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("intents.allow[%d] is empty", i))
			continue
		}
		if prev, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("intents.allow[%d] %q is a duplicate of intents.allow[%d]", i, name, prev))
		}
		seen[name] = i
	}

	return errors.Join(errs...)
}
