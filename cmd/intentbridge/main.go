// Command intentbridge receives recognised intents from a Snips-style NLU
// engine, decodes them into the intent ontology and republishes them on a
// live websocket feed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/MrWong99/intentbridge/internal/app"
	"github.com/MrWong99/intentbridge/internal/config"
	"github.com/MrWong99/intentbridge/internal/observe"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	fs := flag.NewFlagSet("intentbridge", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "config.yaml", "path to the YAML configuration file")
	decodePath := fs.String("decode", "", "decode a hermes JSON intent file, print it as YAML and exit")
	envPath := fs.String("env", "", "dotenv file to load before the config (default .env, optional)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *decodePath != "" {
		return decodeFile(*decodePath, stdout, stderr)
	}

	if err := config.LoadEnv(*envPath); err != nil {
		fmt.Fprintf(stderr, "intentbridge: %v\n", err)
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Load configuration ────────────────────────────────────────────────────
	var running atomic.Pointer[app.App]
	watcher, err := config.NewWatcher(*configPath, func(old, new *config.Config) {
		if a := running.Load(); a != nil {
			a.ApplyConfig(old, new)
		}
	}, config.WithWatcherLogger(logger))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(stderr, "intentbridge: config file %q not found\n", *configPath)
		} else {
			fmt.Fprintf(stderr, "intentbridge: %v\n", err)
		}
		return 1
	}
	defer watcher.Stop()
	cfg := watcher.Current()
	level.Set(cfg.Server.LogLevel.SlogLevel())

	slog.Info("intentbridge starting",
		"version", version,
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Telemetry ─────────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}

	printStartupSummary(stdout, cfg)

	application, err := app.New(cfg,
		app.WithLogger(logger),
		app.WithLevelVar(level),
		app.WithTelemetry(tel),
	)
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		_ = tel.Shutdown(context.Background())
		return 1
	}
	running.Store(application)
	catchUpReload(application, cfg, watcher.Current())

	slog.Info("server ready, press Ctrl+C to shut down")

	runErr := application.Run(ctx)
	if runErr != nil {
		slog.Error("run error", "err", runErr)
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	if runErr != nil {
		return 1
	}
	return 0
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(w io.Writer, cfg *config.Config) {
	mqtt := "(disabled)"
	if cfg.MQTT.IsEnabled() {
		mqtt = cfg.MQTT.BrokerURL
	}
	feed := "(disabled)"
	if cfg.Feed.IsEnabled() {
		feed = cfg.Feed.Path
	}
	allow := "(all)"
	if n := len(cfg.Intents.Allow); n > 0 {
		allow = fmt.Sprintf("%d intents", n)
	}

	fmt.Fprintln(w, "intentbridge startup summary")
	fmt.Fprintf(w, "  listen addr : %s\n", cfg.Server.ListenAddr)
	fmt.Fprintf(w, "  mqtt broker : %s\n", mqtt)
	fmt.Fprintf(w, "  topic       : %s/intent/#\n", cfg.MQTT.TopicPrefix)
	fmt.Fprintf(w, "  live feed   : %s\n", feed)
	fmt.Fprintf(w, "  allow list  : %s\n", allow)
	fmt.Fprintf(w, "  min prob.   : %.2f\n", cfg.Intents.MinProbability)
}

// catchUpReload applies a reload the watcher picked up before the app was
// registered for callbacks.
func catchUpReload(a *app.App, loaded, current *config.Config) {
	if current != nil && current != loaded {
		a.ApplyConfig(loaded, current)
	}
}
