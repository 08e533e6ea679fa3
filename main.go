package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/catch/assets"
	"github.com/robalobadob/catch/internal/catalog"
	"github.com/robalobadob/catch/internal/config"
	"github.com/robalobadob/catch/internal/database"
	"github.com/robalobadob/catch/internal/httpserver"
	"github.com/robalobadob/catch/internal/scores"
	"github.com/robalobadob/catch/internal/store"
)

// Abandoned REST rounds are dropped after this long without a request.
const roundIdle = 30 * time.Minute

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if cfg.TuningFile != "" {
		if _, err := os.Stat(cfg.TuningFile); errors.Is(err, os.ErrNotExist) {
			if err := config.SaveDefaultTuning(cfg.TuningFile); err != nil {
				log.Warn().Err(err).Str("path", cfg.TuningFile).Msg("write default tuning")
			} else {
				log.Info().Str("path", cfg.TuningFile).Msg("wrote default tuning")
			}
		}
	}
	params, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load tuning")
	}

	cat, err := catalog.Load(cfg.DataFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load game data")
	}

	var (
		db    *sql.DB
		board scores.Store
	)
	if cfg.InMemory() {
		log.Warn().Msg("DB_PATH=memory: scores are not persisted and accounts are disabled")
		board = scores.NewMemory()
	} else {
		db, err = database.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
		}
		defer db.Close()
		if err := database.Migrate(db, assets.Migrations()); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
		board = scores.NewSQLite(db)
	}

	rounds := store.NewMemoryStore()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweepRounds(ctx, rounds)

	srv := httpserver.New(httpserver.Options{
		Catalog:      cat,
		Scores:       board,
		Rounds:       rounds,
		DB:           db,
		Params:       params,
		FrameRate:    cfg.FrameRate,
		ClientOrigin: cfg.ClientOrigin,
	})
	log.Info().
		Str("port", cfg.Port).
		Str("db", cfg.DBPath).
		Str("origin", cfg.ClientOrigin).
		Int("categories", len(cat.Categories())).
		Msg("starting catch server")

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(":" + cfg.Port) }()
	select {
	case err := <-errc:
		log.Fatal().Err(err).Msg("server exited")
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}
}

func sweepRounds(ctx context.Context, rounds store.Store) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := rounds.Sweep(ctx, now.Add(-roundIdle)); n > 0 {
				log.Debug().Int("rounds", n).Msg("swept idle rounds")
			}
		}
	}
}
