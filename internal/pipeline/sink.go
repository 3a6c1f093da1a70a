package pipeline

import (
	"context"
	"log/slog"

	"github.com/MrWong99/intentbridge/internal/observe"
	"github.com/MrWong99/intentbridge/internal/resilience"
	"github.com/MrWong99/intentbridge/pkg/ontology"
)

// LogSink logs every delivered message at Info.
type LogSink struct {
	Logger *slog.Logger
}

// Deliver implements [Sink].
func (s LogSink) Deliver(ctx context.Context, msg *ontology.IntentMessage) error {
	l := observe.Logger(ctx, s.Logger)
	attrs := []any{
		"session_id", msg.SessionID,
		"site_id", msg.SiteID,
		"intent", msg.IntentName(),
		"slots", len(msg.Slots),
	}
	if msg.Intent != nil {
		attrs = append(attrs, "probability", msg.Intent.Probability)
	}
	l.Info("intent recognized", attrs...)
	for _, slot := range msg.Slots {
		l.Debug("slot",
			"session_id", msg.SessionID,
			"slot_name", slot.SlotName,
			"entity", slot.Entity,
			"kind", slot.Value.Kind().String(),
			"raw_value", slot.RawValue,
		)
	}
	return nil
}

// GuardedSink wraps a sink in a circuit breaker so a failing consumer stops
// receiving messages for a cooldown instead of being called for every one.
type GuardedSink struct {
	sink    Sink
	breaker *resilience.Breaker
}

// Guard wraps sink. cfg.Name should identify the sink in logs.
func Guard(sink Sink, cfg resilience.Config) *GuardedSink {
	return &GuardedSink{sink: sink, breaker: resilience.New(cfg)}
}

// Deliver implements [Sink]. It returns [resilience.ErrOpen] while the
// breaker is open.
func (g *GuardedSink) Deliver(ctx context.Context, msg *ontology.IntentMessage) error {
	return g.breaker.Do(ctx, func(ctx context.Context) error {
		return g.sink.Deliver(ctx, msg)
	})
}

// State returns the breaker state.
func (g *GuardedSink) State() resilience.State { return g.breaker.State() }
