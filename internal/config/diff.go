package config

import "slices"

// ConfigDiff describes what changed between two configs.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	FilterChanged bool
	NewFilter     IntentsConfig

	// RestartRequired names changed sections that only take effect after a
	// restart.
	RestartRequired []string
}

// Diff compares old and new. Log level and intent filter changes can be
// applied live; everything else is reported in RestartRequired.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}
	if !old.Intents.Equal(new.Intents) {
		d.FilterChanged = true
		d.NewFilter = new.Intents
	}

	if old.Server.ListenAddr != new.Server.ListenAddr || !sameTLS(old.Server.TLS, new.Server.TLS) {
		d.RestartRequired = append(d.RestartRequired, "server")
	}
	if !sameMQTT(old.MQTT, new.MQTT) {
		d.RestartRequired = append(d.RestartRequired, "mqtt")
	}
	if !sameFeed(old.Feed, new.Feed) {
		d.RestartRequired = append(d.RestartRequired, "feed")
	}
	if old.Telemetry != new.Telemetry {
		d.RestartRequired = append(d.RestartRequired, "telemetry")
	}
	return d
}

func sameTLS(a, b *TLSConfig) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameMQTT(a, b MQTTConfig) bool {
	return a.IsEnabled() == b.IsEnabled() &&
		a.BrokerURL == b.BrokerURL &&
		a.ClientID == b.ClientID &&
		a.Username == b.Username &&
		a.Password == b.Password &&
		a.TopicPrefix == b.TopicPrefix &&
		a.QoSLevel() == b.QoSLevel()
}

func sameFeed(a, b FeedConfig) bool {
	return a.IsEnabled() == b.IsEnabled() &&
		a.Path == b.Path &&
		a.Buffer == b.Buffer &&
		slices.Equal(a.OriginPatterns, b.OriginPatterns)
}
