// Package app wires the API server together.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.uber.org/dig"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/auth"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/config"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/logging"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/router"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/store/memstore"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/store/mongostore"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/store/pgstore"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Fiber  *fiber.App
	// Close releases the store connection.
	Close func(ctx context.Context) error
}

type storeResult struct {
	Store transactions.Store
	Close func(ctx context.Context) error
}

// Build resolves the dependency graph for cfg.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	c := dig.New()

	providers := []any{
		func() context.Context { return ctx },
		func() *config.Config { return cfg },
		func(cfg *config.Config) zerolog.Logger {
			return logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
		},
		openStore,
		func(r storeResult) transactions.Store { return r.Store },
		newVerifier,
		transactions.NewService,
		transactions.NewHandler,
		newFiber,
	}
	for _, p := range providers {
		if err := c.Provide(p); err != nil {
			return nil, err
		}
	}

	var app *App
	err := c.Invoke(func(cfg *config.Config, log zerolog.Logger, f *fiber.App, r storeResult) {
		app = &App{Config: cfg, Log: log, Fiber: f, Close: r.Close}
	})
	if err != nil {
		return nil, dig.RootCause(err)
	}
	return app, nil
}

// Run serves until ctx is done, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info().Str("addr", a.Config.Addr()).Str("store", a.Config.StoreDriver).Msg("listening")
		errCh <- a.Fiber.Listen(a.Config.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()

	if err := a.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	if a.Close != nil {
		return a.Close(shutdownCtx)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storeResult, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		s, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.StoreTimeout)
		if err != nil {
			return storeResult{}, err
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("could not ensure mongo indexes")
		}
		return storeResult{Store: s, Close: s.Close}, nil

	case config.DriverPostgres:
		s, err := pgstore.Connect(ctx, cfg.DatabaseURL, cfg.StoreTimeout)
		if err != nil {
			return storeResult{}, err
		}
		return storeResult{Store: s, Close: func(context.Context) error {
			s.Close()
			return nil
		}}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return storeResult{Store: memstore.New(), Close: func(context.Context) error { return nil }}, nil
	}
	return storeResult{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func newVerifier(cfg *config.Config) (auth.Verifier, error) {
	return auth.NewJWTVerifier(auth.Options{
		Secret:       []byte(cfg.JWTSecret),
		PublicKeyPEM: []byte(cfg.JWTPublicKey),
		Issuer:       cfg.JWTIssuer,
		Leeway:       cfg.JWTLeeway,
	})
}

func newFiber(cfg *config.Config, log zerolog.Logger, v auth.Verifier, svc *transactions.Service, h *transactions.Handler) *fiber.App {
	f := router.NewApp(log)

	r := &router.Router{
		TransactionsHandler: h,
		Verifier:            v,
		Ping:                svc.Ping,
		CORSOrigin:          cfg.CORSOrigin,
		Log:                 log,
	}
	if cfg.IsDev() && cfg.JWTSecret != "" {
		r.DevIssuer = auth.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTIssuer, 24*time.Hour)
		log.Warn().Msg("dev token endpoint enabled")
	}
	r.RegisterRoutes(f)
	return f
}
