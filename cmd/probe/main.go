package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/execrpc/internal/core/config"
	"github.com/vietddude/execrpc/internal/infra/rpc"
	"github.com/vietddude/execrpc/internal/infra/rpc/retry"
)

// probe dials an execution endpoint and runs a short read-only exchange
// (chain id plus a block filter cycle) to verify connectivity and retry
// behavior before an endpoint goes into rotation.
func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Fall back to default logger for config load errors
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if *isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(
		&tint.Options{
			Level:      slogLevel,
			TimeFormat: time.RFC3339,
		})
	slog.Info("Logger initialized", "level", slogLevel.String())

	opts := []rpc.Option{
		rpc.WithHTTPClient(&http.Client{Timeout: cfg.Endpoint.Timeout}),
	}
	if cfg.Retry.Manual {
		opts = append(opts, rpc.WithManualRetry(retry.Config{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: cfg.Retry.InitialBackoff,
			MaxBackoff:     cfg.Retry.MaxBackoff,
		}))
	}

	client, err := rpc.NewEthereum(cfg.Endpoint.URL, opts...)
	if err != nil {
		slog.Error("Failed to build client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		slog.Error("Chain id probe failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Endpoint reachable", "chain_id", chainID, "endpoint", client.Endpoint())

	filterID, err := client.NewBlockFilter(ctx)
	if err != nil {
		slog.Error("Block filter registration failed", "error", err)
		os.Exit(1)
	}

	changes, err := client.GetFilterChanges(ctx, filterID)
	if err != nil {
		slog.Error("Filter poll failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Filter cycle complete", "new_blocks", len(changes.Hashes))

	removed, err := client.UninstallFilter(ctx, filterID)
	if err != nil {
		slog.Error("Filter uninstall failed", "error", err)
		os.Exit(1)
	}
	slog.Debug("Filter uninstalled", "removed", removed)

	slog.Info("Probe finished")
}
