// Command mutasi-bot is the main entrypoint for the DANA account bot.
// It:
//   - Loads configuration and initializes structured logging.
//   - Opens the local JSON account store (always on) and, when configured,
//     the Google Sheets mirror and the Redis ephemeral cache.
//   - Runs the Telegram long-polling loop with one goroutine per update.
//   - Exposes a minimal HTTP sidecar with /healthz, /readyz, /status, /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dananet/mutasi-bot/bot"
	"github.com/dananet/mutasi-bot/cache"
	"github.com/dananet/mutasi-bot/config"
	"github.com/dananet/mutasi-bot/server"
	"github.com/dananet/mutasi-bot/store"
	"github.com/dananet/mutasi-bot/telemetry"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load(".env")

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT")) // text | json
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))

	// Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.ValidateBotReady(); err != nil {
		slog.Error("bot not configured", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()

	shutdownTracing, err := telemetry.InitTracing("mutasi-bot", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdownTracing()

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local store: always on, hard fault if unusable.
	local, err := store.NewLocal(cfg.DataDir)
	if err != nil {
		slog.Error("failed to open local store", slog.Any("err", err))
		os.Exit(1)
	}

	// Sheet mirror: optional, best-effort. Missing credentials mean
	// local-only mode, logged once.
	var remote store.Remote
	if cfg.SheetEnabled() {
		sheet, err := store.NewSheet(ctx, []byte(cfg.GoogleCredsJSON), cfg.SheetID, cfg.SheetName)
		if err != nil {
			slog.Warn("sheet mirror unavailable, running local-only", slog.Any("err", err))
		} else {
			remote = sheet
			slog.Info("sheet mirror connected", slog.String("sheet_id", cfg.SheetID))
		}
	} else {
		slog.Info("SHEET_ID or GOOGLE_CREDS_JSON not set, running local-only")
	}
	storage := store.New(local, remote)

	// Redis: optional ephemeral cache for /clear. Unreachable Redis only
	// disables the flush.
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	cacheClient, err := cache.Connect(connectCtx, cfg.RedisURL)
	cancel()
	if err != nil {
		slog.Warn("redis unavailable, /clear disabled", slog.Any("err", err))
		cacheClient = nil
	}
	defer func() {
		if cacheClient != nil {
			if err := cacheClient.Close(); err != nil {
				slog.Warn("close redis", slog.Any("err", err))
			}
		}
	}()

	// HTTP sidecar (health/status/metrics)
	handlers := server.NewHandlers(local, storage, cacheClient)
	go func() {
		if err := server.Start(ctx, handlers, cfg.HTTPAddr); err != nil {
			slog.Error("http server exited with error", slog.Any("err", err))
		}
	}()

	// Telegram bot
	b, err := bot.New(cfg.TelegramToken, bot.NewDispatcher(storage, cacheClient))
	if err != nil {
		slog.Error("telegram auth failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("bot loop exited with error", slog.Any("err", err))
		os.Exit(1)
	}

	slog.Info("shutting down")
}
