// Package pipeline is the single entry point for intent messages, whichever
// surface they arrive on. It decodes, records metrics and traces, applies the
// intent filter and hands the result to every registered [Sink].
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrWong99/intentbridge/internal/observe"
	"github.com/MrWong99/intentbridge/pkg/hermes"
	"github.com/MrWong99/intentbridge/pkg/megazord"
	"github.com/MrWong99/intentbridge/pkg/ontology"
)

// Sink receives every message that passes the filter. Implementations must be
// safe for concurrent use and must not retain msg beyond the call unless
// they treat it as read-only.
type Sink interface {
	Deliver(ctx context.Context, msg *ontology.IntentMessage) error
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(ctx context.Context, msg *ontology.IntentMessage) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, msg *ontology.IntentMessage) error {
	return f(ctx, msg)
}

// Filter decides which decoded messages reach the sinks.
type Filter struct {
	// Allow lists the intent names to deliver. Empty means every intent,
	// including messages without a classifier result.
	Allow []string

	// MinProbability drops intents whose classifier probability is lower.
	MinProbability float32
}

// Accepts reports whether msg passes f.
func (f Filter) Accepts(msg *ontology.IntentMessage) bool {
	if msg.Intent == nil {
		return len(f.Allow) == 0
	}
	if len(f.Allow) > 0 && !slices.Contains(f.Allow, msg.Intent.IntentName) {
		return false
	}
	return msg.Intent.Probability >= f.MinProbability
}

// Pipeline decodes and dispatches intent messages. It is safe for concurrent
// use; [Pipeline.SetFilter] may be called while messages are in flight.
type Pipeline struct {
	metrics *observe.Metrics
	logger  *slog.Logger
	sinks   []Sink
	filter  atomic.Pointer[Filter]
}

// Option configures a [Pipeline].
type Option func(*Pipeline)

// WithMetrics sets the metric instruments. Default [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger used for decode failures and sink errors.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithSinks appends sinks. Messages are delivered in registration order.
func WithSinks(sinks ...Sink) Option {
	return func(p *Pipeline) { p.sinks = append(p.sinks, sinks...) }
}

// WithFilter sets the initial filter. The zero filter accepts everything.
func WithFilter(f Filter) Option {
	return func(p *Pipeline) { p.filter.Store(&f) }
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	p.filter.Store(&Filter{})
	for _, o := range opts {
		o(p)
	}
	if p.metrics == nil {
		p.metrics = observe.DefaultMetrics()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Filter returns the active filter.
func (p *Pipeline) Filter() Filter { return *p.filter.Load() }

// SetFilter replaces the filter. Messages already past the filter are not
// affected.
func (p *Pipeline) SetFilter(f Filter) {
	f.Allow = slices.Clone(f.Allow)
	p.filter.Store(&f)
}

// HandleRecord decodes a record handed over by the engine callback. The
// record is only read during the call.
func (p *Pipeline) HandleRecord(ctx context.Context, rec *megazord.CIntentMessage) (*ontology.IntentMessage, error) {
	return p.handle(ctx, observe.SourceABI, "", func() (*ontology.IntentMessage, error) {
		return megazord.DecodeIntentMessage(rec)
	})
}

// HandlePayload decodes a hermes JSON payload received on topic.
func (p *Pipeline) HandlePayload(ctx context.Context, topic string, payload []byte) (*ontology.IntentMessage, error) {
	return p.handle(ctx, observe.SourceHermes, topic, func() (*ontology.IntentMessage, error) {
		return hermes.DecodeIntentMessage(payload)
	})
}

func (p *Pipeline) handle(ctx context.Context, source, topic string, decode func() (*ontology.IntentMessage, error)) (*ontology.IntentMessage, error) {
	ctx, span := observe.StartSpan(ctx, "pipeline.decode",
		trace.WithAttributes(attribute.String("intentbridge.source", source)))
	defer span.End()
	if topic != "" {
		span.SetAttributes(attribute.String("messaging.destination.name", topic))
	}

	logger := observe.Logger(ctx, p.logger)

	start := time.Now()
	msg, err := decode()
	elapsed := time.Since(start).Seconds()

	if err != nil {
		p.metrics.RecordDecode(ctx, source, "error", elapsed)
		p.recordFailure(ctx, span, logger, source, topic, err)
		return nil, fmt.Errorf("pipeline: decode %s message: %w", source, err)
	}
	p.metrics.RecordDecode(ctx, source, "ok", elapsed)
	for _, s := range msg.Slots {
		p.metrics.RecordSlot(ctx, s.Value.Kind().String())
	}

	name := msg.IntentName()
	span.SetAttributes(
		attribute.String("intentbridge.intent", name),
		attribute.Int("intentbridge.slots", len(msg.Slots)),
	)

	if !p.Filter().Accepts(msg) {
		p.metrics.RecordFiltered(ctx, name)
		logger.Debug("intent filtered", "session_id", msg.SessionID, "intent", name)
		return msg, nil
	}

	p.metrics.RecordDelivered(ctx, name)
	for _, sink := range p.sinks {
		if err := sink.Deliver(ctx, msg); err != nil {
			logger.Warn("sink delivery failed", "intent", name, "err", err)
		}
	}
	return msg, nil
}

func (p *Pipeline) recordFailure(ctx context.Context, span trace.Span, logger *slog.Logger, source, topic string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "decode failed")

	field, reason, discriminant := "", "other", ""
	var de *ontology.DecodeError
	if errors.As(err, &de) {
		field, reason, discriminant = de.Field, de.Reason(), de.Discriminant
	} else {
		reason = "malformed"
	}
	p.metrics.RecordDecodeError(ctx, source, field, reason)

	attrs := []any{"source", source, "field", field, "reason", reason, "err", err}
	if discriminant != "" {
		attrs = append(attrs, "discriminant", discriminant)
	}
	if topic != "" {
		attrs = append(attrs, "topic", topic)
	}
	logger.Warn("intent message rejected", attrs...)
}
