package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/config"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/logging"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/store/mongostore"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/store/pgstore"
)

// migrate prepares the configured store: SQL schema for postgres, indexes for mongo.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.LoadStore(ctx)
	if err != nil {
		bootLog := logging.New(os.Stderr, "info", "console")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("error opening database")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("error pinging database")
		}

		log.Info().Msg("applying migrations")
		if err := pgstore.Migrate(ctx, db, log); err != nil {
			log.Fatal().Err(err).Msg("error applying migrations")
		}

	case config.DriverMongo:
		s, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.StoreTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("error connecting to mongo")
		}
		defer s.Close(context.Background())

		if err := s.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("error creating indexes")
		}

	default:
		log.Info().Str("store", cfg.StoreDriver).Msg("nothing to migrate")
		return
	}

	log.Info().Str("store", cfg.StoreDriver).Msg("migrations applied successfully")
}
