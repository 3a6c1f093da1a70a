// Package mqtt receives hermes intent payloads from an MQTT broker and hands
// them to a [Handler].
package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/MrWong99/intentbridge/pkg/hermes"
	"github.com/MrWong99/intentbridge/pkg/ontology"
)

// disconnectQuiesceMS is how long Disconnect waits for in-flight work.
const disconnectQuiesceMS = 250

// Config holds the broker connection settings.
type Config struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
}

// Handler consumes one intent payload. It returns the decoded message, or an
// error when the payload was rejected.
type Handler interface {
	HandlePayload(ctx context.Context, topic string, payload []byte) (*ontology.IntentMessage, error)
}

// Subscriber owns one broker connection subscribed to every intent topic.
type Subscriber struct {
	cfg     Config
	handler Handler
	logger  *slog.Logger

	connected atomic.Bool

	mu     sync.Mutex
	client paho.Client
	ctx    context.Context
}

// DefaultClientID returns a client id unique to this process.
func DefaultClientID() string {
	return "intentbridge-" + uuid.NewString()
}

// NewSubscriber creates a subscriber. It does not connect until [Subscriber.Run].
func NewSubscriber(cfg Config, handler Handler, logger *slog.Logger) *Subscriber {
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID()
	}
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = "hermes"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{cfg: cfg, handler: handler, logger: logger, ctx: context.Background()}
}

// ClientID returns the MQTT client id in use.
func (s *Subscriber) ClientID() string { return s.cfg.ClientID }

// Topic returns the subscription filter.
func (s *Subscriber) Topic() string { return hermes.SubscriptionTopic(s.cfg.TopicPrefix) }

// Connected reports whether the broker connection is currently up and
// subscribed.
func (s *Subscriber) Connected() bool { return s.connected.Load() }

// Run connects to the broker and blocks until ctx is cancelled. The client
// reconnects on its own after a lost connection and resubscribes on every
// successful connect.
func (s *Subscriber) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	opts := paho.NewClientOptions().
		AddBroker(s.cfg.BrokerURL).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOrderMatters(false)
	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
		opts.SetPassword(s.cfg.Password)
	}
	opts.SetOnConnectHandler(s.onConnect)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		s.connected.Store(false)
		s.logger.Error("mqtt connection lost", "broker", s.cfg.BrokerURL, "err", err)
	})
	s.client = paho.NewClient(opts)
	client := s.client
	s.mu.Unlock()

	token := client.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt: connect %s: %w", s.cfg.BrokerURL, err)
		}
	case <-ctx.Done():
	}

	<-ctx.Done()
	s.connected.Store(false)
	client.Disconnect(disconnectQuiesceMS)
	s.logger.Info("mqtt disconnected", "broker", s.cfg.BrokerURL)
	return nil
}

func (s *Subscriber) onConnect(c paho.Client) {
	topic := s.Topic()
	token := c.Subscribe(topic, s.cfg.QoS, s.onMessage)
	if token.Wait() && token.Error() != nil {
		s.logger.Error("mqtt subscribe failed", "topic", topic, "err", token.Error())
		return
	}
	s.connected.Store(true)
	s.logger.Info("mqtt subscribed", "broker", s.cfg.BrokerURL, "topic", topic, "client_id", s.cfg.ClientID)
}

// onMessage is the paho callback for every intent topic.
func (s *Subscriber) onMessage(_ paho.Client, msg paho.Message) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	topic := msg.Topic()
	topicIntent, ok := hermes.IntentNameFromTopic(s.cfg.TopicPrefix, topic)
	if !ok {
		s.logger.Warn("skip non-intent topic", "topic", topic)
		return
	}

	decoded, err := s.handler.HandlePayload(ctx, topic, msg.Payload())
	if err != nil {
		// The handler logs and counts its own failures.
		return
	}
	if name := decoded.IntentName(); name != topicIntent {
		s.logger.Warn("intent topic mismatch", "topic_intent", topicIntent, "payload_intent", name, "session_id", decoded.SessionID)
	}
}
