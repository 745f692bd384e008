package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/app"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	a, err := app.Build(ctx, cfg)
	if err != nil {
		boot.Fatal().Err(err).Msg("startup failed")
	}

	if err := a.Run(ctx); err != nil {
		a.Log.Fatal().Err(err).Msg("server stopped")
	}
}
