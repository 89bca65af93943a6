// Command server runs the chatgate relay.
//
// Configuration is layered: built-in defaults, an optional YAML file
// (-config flag, CHATGATE_CONFIG env, ./config.yaml, or
// /etc/chatgate/config.yaml), then CHATGATE_* environment overrides:
//
//	CHATGATE_PORT             - Listen port (default: 8080)
//	CHATGATE_UPSTREAM_URL     - Chat Completions backend URL (default: https://api.openai.com)
//	CHATGATE_UPSTREAM_TIMEOUT - Pre-stream upstream timeout (default: 120s)
//	CHATGATE_LOG_LEVEL        - debug, info, warn, error (default: info)
//	CHATGATE_LOG_FORMAT       - text or json (default: json)
//
// The gateway holds no upstream credential: every request carries the
// caller's own API key, which is forwarded and then discarded.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"chatgate/pkg/config"
	"chatgate/pkg/relay"
	transporthttp "chatgate/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	handler, err := relay.New(relay.Config{
		UpstreamURL: cfg.Upstream.BaseURL,
		Timeout:     cfg.Upstream.Timeout,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating relay: %w", err)
	}

	metricsPath := ""
	if cfg.Observability.Metrics.Enabled {
		metricsPath = cfg.Observability.Metrics.Path
	}

	srv := transporthttp.NewServer(handler,
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithMetricsPath(metricsPath),
		transporthttp.WithLogger(logger),
	)

	logger.Info("relay configured",
		"upstream", cfg.Upstream.BaseURL,
		"timeout", cfg.Upstream.Timeout,
	)

	return srv.ListenAndServe()
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
