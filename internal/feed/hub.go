// Package feed streams delivered intents to websocket clients as hermes JSON.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.opentelemetry.io/otel/metric"

	"github.com/MrWong99/intentbridge/pkg/hermes"
	"github.com/MrWong99/intentbridge/pkg/ontology"
)

const (
	defaultBuffer = 32
	writeTimeout  = 5 * time.Second
)

// Hub fans intents out to every connected websocket client. It implements
// [http.Handler] for the upgrade and the pipeline sink interface for
// delivery.
//
// Each client has a bounded queue. A client whose queue is full when an
// intent arrives is disconnected with [websocket.StatusPolicyViolation]
// rather than slowing down delivery to the others.
type Hub struct {
	buffer         int
	originPatterns []string
	logger         *slog.Logger
	clientCounter  metric.Int64UpDownCounter

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	msgs      chan []byte
	closeSlow func()
}

// Option configures a [Hub].
type Option func(*Hub)

// WithBuffer sets the per-client queue length. Values below 1 are ignored.
func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithOriginPatterns sets the allowed Origin host patterns for the upgrade.
func WithOriginPatterns(patterns ...string) Option {
	return func(h *Hub) { h.originPatterns = patterns }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) { h.logger = l }
}

// WithClientCounter records connects and disconnects on c.
func WithClientCounter(c metric.Int64UpDownCounter) Option {
	return func(h *Hub) { h.clientCounter = c }
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		buffer:  defaultBuffer,
		logger:  slog.Default(),
		clients: make(map[*client]struct{}),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Deliver encodes msg once and queues it for every client.
func (h *Hub) Deliver(_ context.Context, msg *ontology.IntentMessage) error {
	b, err := hermes.EncodeIntentMessage(msg)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.msgs <- b:
		default:
			go c.closeSlow()
		}
	}
	return nil
}

// ServeHTTP upgrades the request and streams intents until the client goes
// away or falls behind.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		h.logger.Warn("feed: websocket accept failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	var closeOnce sync.Once
	c := &client{
		msgs: make(chan []byte, h.buffer),
		closeSlow: func() {
			closeOnce.Do(func() {
				conn.Close(websocket.StatusPolicyViolation, "connection too slow to keep up with intents")
			})
		},
	}
	h.add(r.Context(), c)
	defer h.remove(context.WithoutCancel(r.Context()), c)

	h.logger.Info("feed: client connected", "remote", r.RemoteAddr)
	err = h.stream(r.Context(), conn, c)
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway:
		h.logger.Info("feed: client disconnected", "remote", r.RemoteAddr)
	default:
		h.logger.Warn("feed: client dropped", "remote", r.RemoteAddr, "err", err)
	}
}

func (h *Hub) stream(ctx context.Context, conn *websocket.Conn, c *client) error {
	// The feed is write-only; CloseRead handles control frames and cancels
	// ctx when the client closes.
	ctx = conn.CloseRead(ctx)
	for {
		select {
		case b := <-c.msgs:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, b)
			cancel()
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *Hub) add(ctx context.Context, c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	if h.clientCounter != nil {
		h.clientCounter.Add(ctx, 1)
	}
}

func (h *Hub) remove(ctx context.Context, c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	if h.clientCounter != nil {
		h.clientCounter.Add(ctx, -1)
	}
}
