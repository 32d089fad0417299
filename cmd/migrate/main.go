// cmd/migrate/main.go: goose migrations against PostgreSQL.
// Uso: go run ./cmd/migrate -cmd=up|down|status|version|redo|reset
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"almacen/internal/config"
	"almacen/internal/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|redo|reset")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.DatabaseDriver == "sqlite" {
		log.Fatal().Msg("goose migrations target PostgreSQL; sqlite uses AutoMigrate at startup")
	}

	db, err := infra.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}
	defer sqlDB.Close()

	if err := infra.Migrate(context.Background(), sqlDB, *cmd, flag.Args()...); err != nil {
		log.Fatal().Err(err).Str("cmd", *cmd).Msg("migration failed")
	}
	log.Info().Str("cmd", *cmd).Msg("migration finished")
}
