// Package observe provides the observability primitives of intentbridge:
// OpenTelemetry metrics and tracing, trace-aware slog loggers and the HTTP
// middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API and exported
// for Prometheus scraping by [InitProvider]. Tests should build their own
// [Metrics] with [NewMetrics] and a manual reader.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope of every intentbridge instrument.
const meterName = "github.com/MrWong99/intentbridge"

// Decode sources.
const (
	SourceABI    = "abi"
	SourceHermes = "hermes"
)

// Metrics holds the metric instruments of the application.
type Metrics struct {
	// DecodeDuration tracks the time to decode one intent message.
	DecodeDuration metric.Float64Histogram

	// DecodeRequests counts decode attempts by source and status.
	DecodeRequests metric.Int64Counter

	// DecodeErrors counts rejected messages by source, field and reason.
	DecodeErrors metric.Int64Counter

	// SlotsDecoded counts decoded slots by value kind.
	SlotsDecoded metric.Int64Counter

	// IntentsDelivered counts messages handed to sinks, by intent name.
	IntentsDelivered metric.Int64Counter

	// IntentsFiltered counts messages dropped by the intent filter.
	IntentsFiltered metric.Int64Counter

	// FeedClients tracks connected live feed clients.
	FeedClients metric.Int64UpDownCounter

	// HTTPRequestDuration tracks ops HTTP latency by method and path.
	HTTPRequestDuration metric.Float64Histogram
}

// decodeBuckets are histogram boundaries in seconds. Decoding is a copy of a
// few hundred bytes, so the interesting range is micro- to milliseconds.
var decodeBuckets = []float64{
	0.000005, 0.00001, 0.000025, 0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.005, 0.01,
}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.DecodeDuration, err = m.Float64Histogram("intentbridge.decode.duration",
		metric.WithDescription("Latency of decoding one intent message."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(decodeBuckets...),
	); err != nil {
		return nil, err
	}
	if met.DecodeRequests, err = m.Int64Counter("intentbridge.decode.requests",
		metric.WithDescription("Intent messages decoded, by source and status."),
	); err != nil {
		return nil, err
	}
	if met.DecodeErrors, err = m.Int64Counter("intentbridge.decode.errors",
		metric.WithDescription("Rejected intent messages, by source, field and reason."),
	); err != nil {
		return nil, err
	}
	if met.SlotsDecoded, err = m.Int64Counter("intentbridge.slots.decoded",
		metric.WithDescription("Decoded slots by value kind."),
	); err != nil {
		return nil, err
	}
	if met.IntentsDelivered, err = m.Int64Counter("intentbridge.intents.delivered",
		metric.WithDescription("Intent messages delivered to sinks, by intent."),
	); err != nil {
		return nil, err
	}
	if met.IntentsFiltered, err = m.Int64Counter("intentbridge.intents.filtered",
		metric.WithDescription("Intent messages dropped by the intent filter, by intent."),
	); err != nil {
		return nil, err
	}
	if met.FeedClients, err = m.Int64UpDownCounter("intentbridge.feed.clients",
		metric.WithDescription("Connected live feed clients."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("intentbridge.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a process-wide [Metrics] on [otel.GetMeterProvider],
// creating it on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is shorthand for [attribute.String].
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordDecode records one decode attempt. status is "ok" or "error".
func (m *Metrics) RecordDecode(ctx context.Context, source, status string, seconds float64) {
	attrs := metric.WithAttributes(Attr("source", source), Attr("status", status))
	m.DecodeRequests.Add(ctx, 1, attrs)
	m.DecodeDuration.Record(ctx, seconds, metric.WithAttributes(Attr("source", source)))
}

// RecordDecodeError records one rejected message.
func (m *Metrics) RecordDecodeError(ctx context.Context, source, field, reason string) {
	m.DecodeErrors.Add(ctx, 1, metric.WithAttributes(
		Attr("source", source),
		Attr("field", field),
		Attr("reason", reason),
	))
}

// RecordSlot records one decoded slot of the given kind.
func (m *Metrics) RecordSlot(ctx context.Context, kind string) {
	m.SlotsDecoded.Add(ctx, 1, metric.WithAttributes(Attr("kind", kind)))
}

// RecordDelivered records a message handed to the sinks.
func (m *Metrics) RecordDelivered(ctx context.Context, intent string) {
	m.IntentsDelivered.Add(ctx, 1, metric.WithAttributes(Attr("intent", intent)))
}

// RecordFiltered records a message dropped by the intent filter.
func (m *Metrics) RecordFiltered(ctx context.Context, intent string) {
	m.IntentsFiltered.Add(ctx, 1, metric.WithAttributes(Attr("intent", intent)))
}
