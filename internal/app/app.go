// Package app wires the intentbridge subsystems into a running service.
//
// The App struct owns the full lifecycle: New builds the pipeline, the live
// feed, the MQTT subscriber and the ops router, Run serves them until the
// context ends, and Shutdown tears everything down in order.
//
// For testing, inject a listener, metrics or extra sinks via functional
// options. When an option is not provided, New derives everything from the
// config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/intentbridge/internal/config"
	"github.com/MrWong99/intentbridge/internal/feed"
	"github.com/MrWong99/intentbridge/internal/health"
	"github.com/MrWong99/intentbridge/internal/mqtt"
	"github.com/MrWong99/intentbridge/internal/observe"
	"github.com/MrWong99/intentbridge/internal/pipeline"
	"github.com/MrWong99/intentbridge/internal/resilience"
)

const (
	readHeaderTimeout = 10 * time.Second
	drainTimeout      = 5 * time.Second
)

// App owns all subsystem lifetimes.
type App struct {
	cfg *config.Config

	logger    *slog.Logger
	level     *slog.LevelVar
	metrics   *observe.Metrics
	telemetry *observe.Telemetry
	sinks     []pipeline.Sink
	listener  net.Listener

	// Subsystems, initialised in New.
	pipeline   *pipeline.Pipeline
	hub        *feed.Hub
	subscriber *mqtt.Subscriber
	router     chi.Router

	mu     sync.Mutex
	server *http.Server

	stopOnce sync.Once
}

// Option is a functional option for New.
type Option func(*App)

// WithLogger sets the application logger. Default slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithLevelVar hands the app the level variable of the process logger so
// config reloads can change verbosity.
func WithLevelVar(v *slog.LevelVar) Option {
	return func(a *App) { a.level = v }
}

// WithMetrics injects metric instruments instead of creating them from the
// telemetry provider.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithTelemetry mounts the Prometheus handler at /metrics and records on its
// meter provider. Shutdown flushes it.
func WithTelemetry(t *observe.Telemetry) Option {
	return func(a *App) { a.telemetry = t }
}

// WithSinks adds sinks after the built-in log sink and live feed. Each one
// is guarded by its own circuit breaker.
func WithSinks(sinks ...pipeline.Sink) Option {
	return func(a *App) { a.sinks = append(a.sinks, sinks...) }
}

// WithListener serves HTTP on l instead of listening on server.listen_addr.
func WithListener(l net.Listener) Option {
	return func(a *App) { a.listener = l }
}

// ─── New ─────────────────────────────────────────────────────────────────────

// New creates an App from cfg. cfg must already be validated. Nothing
// connects or listens until [App.Run].
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	a := &App{cfg: cfg}
	for _, o := range opts {
		o(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.level == nil {
		a.level = new(slog.LevelVar)
		a.level.Set(cfg.Server.LogLevel.SlogLevel())
	}
	if err := a.initMetrics(); err != nil {
		return nil, fmt.Errorf("app: init metrics: %w", err)
	}

	if cfg.Feed.IsEnabled() {
		a.hub = feed.NewHub(
			feed.WithBuffer(cfg.Feed.Buffer),
			feed.WithOriginPatterns(cfg.Feed.OriginPatterns...),
			feed.WithLogger(a.logger),
			feed.WithClientCounter(a.metrics.FeedClients),
		)
	}

	sinks := []pipeline.Sink{pipeline.LogSink{Logger: a.logger}}
	if a.hub != nil {
		sinks = append(sinks, a.hub)
	}
	for i, s := range a.sinks {
		sinks = append(sinks, pipeline.Guard(s, resilience.Config{
			Name:   fmt.Sprintf("sink-%d", i),
			Logger: a.logger,
		}))
	}
	a.pipeline = pipeline.New(
		pipeline.WithMetrics(a.metrics),
		pipeline.WithLogger(a.logger),
		pipeline.WithSinks(sinks...),
		pipeline.WithFilter(filterFromConfig(cfg.Intents)),
	)

	if cfg.MQTT.IsEnabled() {
		a.subscriber = mqtt.NewSubscriber(mqtt.Config{
			BrokerURL:   cfg.MQTT.BrokerURL,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			QoS:         cfg.MQTT.QoSLevel(),
		}, a.pipeline, a.logger)
	}

	a.router = a.routes()
	return a, nil
}

func (a *App) initMetrics() error {
	if a.metrics != nil {
		return nil
	}
	if a.telemetry == nil {
		a.metrics = observe.DefaultMetrics()
		return nil
	}
	m, err := observe.NewMetrics(a.telemetry.MeterProvider)
	if err != nil {
		return err
	}
	a.metrics = m
	return nil
}

// routes builds the ops router. The live feed is mounted outside the
// request middleware since its connections stay open indefinitely.
func (a *App) routes() chi.Router {
	var checkers []health.Checker
	if a.subscriber != nil {
		checkers = append(checkers, health.Connected("mqtt", a.subscriber.Connected))
	}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(observe.Middleware(a.metrics))
		health.New(checkers...).Register(r)
		if a.telemetry != nil {
			r.Method(http.MethodGet, "/metrics", a.telemetry.Handler)
		}
	})
	if a.hub != nil {
		r.Handle(a.cfg.Feed.Path, a.hub)
	}
	return r
}

// Handler returns the ops HTTP handler.
func (a *App) Handler() http.Handler { return a.router }

// Pipeline returns the intent pipeline. An embedding engine hands its
// callback records to [pipeline.Pipeline.HandleRecord].
func (a *App) Pipeline() *pipeline.Pipeline { return a.pipeline }

// Hub returns the live feed, or nil when the feed is disabled.
func (a *App) Hub() *feed.Hub { return a.hub }

// Subscriber returns the MQTT subscriber, or nil when MQTT is disabled.
func (a *App) Subscriber() *mqtt.Subscriber { return a.subscriber }

// ─── Run ─────────────────────────────────────────────────────────────────────

// Run serves HTTP and, when enabled, consumes the MQTT bus until ctx is
// cancelled or one of them fails. A cancelled ctx is a clean stop and
// returns nil.
func (a *App) Run(ctx context.Context) error {
	ln := a.listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", a.cfg.Server.ListenAddr)
		if err != nil {
			return fmt.Errorf("app: listen %s: %w", a.cfg.Server.ListenAddr, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}
	a.mu.Lock()
	a.server = srv
	a.mu.Unlock()

	a.logger.Info("http listening",
		"addr", ln.Addr().String(),
		"tls", a.cfg.Server.TLS != nil,
		"feed", a.hub != nil,
	)

	g.Go(func() error {
		var err error
		if tls := a.cfg.Server.TLS; tls != nil {
			err = srv.ServeTLS(ln, tls.CertFile, tls.KeyFile)
		} else {
			err = srv.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve http: %w", err)
	})
	g.Go(func() error {
		<-gctx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		return srv.Shutdown(drainCtx)
	})
	if a.subscriber != nil {
		g.Go(func() error { return a.subscriber.Run(gctx) })
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// ─── Config reload ───────────────────────────────────────────────────────────

// ApplyConfig applies the live-reloadable differences between old and new.
// Changes that need a restart are logged and otherwise ignored.
func (a *App) ApplyConfig(old, new *config.Config) {
	d := config.Diff(old, new)
	if d.LogLevelChanged {
		a.level.Set(d.NewLogLevel.SlogLevel())
		a.logger.Info("log level changed", "level", d.NewLogLevel)
	}
	if d.FilterChanged {
		a.pipeline.SetFilter(filterFromConfig(d.NewFilter))
		a.logger.Info("intent filter changed",
			"allow", d.NewFilter.Allow,
			"min_probability", d.NewFilter.MinProbability,
		)
	}
	for _, section := range d.RestartRequired {
		a.logger.Warn("config change requires restart", "section", section)
	}
}

// LevelVar returns the level variable controlled by [App.ApplyConfig].
func (a *App) LevelVar() *slog.LevelVar { return a.level }

// ─── Shutdown ────────────────────────────────────────────────────────────────

// Shutdown stops the HTTP server and flushes telemetry. It is safe to call
// more than once; only the first call does any work.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	a.stopOnce.Do(func() {
		a.logger.Info("shutting down")

		a.mu.Lock()
		srv := a.server
		a.mu.Unlock()
		if srv != nil {
			if err := srv.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("http shutdown: %w", err))
			}
		}
		if a.telemetry != nil {
			if err := a.telemetry.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
			}
		}

		a.logger.Info("shutdown complete")
	})
	return errors.Join(errs...)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func filterFromConfig(c config.IntentsConfig) pipeline.Filter {
	return pipeline.Filter{Allow: c.Allow, MinProbability: c.MinProbability}
}
