package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	"yotagrabber/cmd/yotagrabber/commands"
	"yotagrabber/internal/components/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()
	telemetry.InitSlog(false)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	otel, err := telemetry.SetupOtelFromEnv(ctx, "yotagrabber")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to setup otel, continuing without it", "err", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := otel.Shutdown(shutdownCtx)
		if err != nil {
			slog.Warn("failed to flush otel", "err", err)
		}
	}()

	commands.ExecuteContext(ctx)
}
