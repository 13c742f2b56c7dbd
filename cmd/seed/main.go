package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Haroldke13/geniusbabycosmetics/internal/config"
	"github.com/Haroldke13/geniusbabycosmetics/internal/database"
	"github.com/Haroldke13/geniusbabycosmetics/internal/seed"
)

// main seeds the catalog with generated cosmetics products. It connects with
// the same MONGO_URI/MONGO_DB_NAME the API uses but does not require the rest
// of the server configuration.
func main() {
	count := flag.Int("count", 120, "number of products to insert")
	drop := flag.Bool("drop", false, "drop the products collection first")
	images := flag.String("images", "pool", "image source: pool (curated URLs) or lookup (Pexels/Unsplash/Openverse)")
	seedVal := flag.Int64("seed", 0, "random seed, 0 uses the clock")
	flag.Parse()

	setupLogger()

	var mode seed.ImageMode
	switch *images {
	case string(seed.ImagesPool):
		mode = seed.ImagesPool
	case string(seed.ImagesLookup):
		mode = seed.ImagesLookup
	default:
		fmt.Fprintf(os.Stderr, "unknown -images value %q: want pool or lookup\n", *images)
		os.Exit(2)
	}

	// Load .env if present, same as the API server.
	_ = godotenv.Load()
	mongoCfg := config.MongoConfig{
		URI:      os.Getenv("MONGO_URI"),
		Database: os.Getenv("MONGO_DB_NAME"),
	}
	if mongoCfg.URI == "" {
		fmt.Fprintln(os.Stderr, "MONGO_URI must be set")
		os.Exit(1)
	}
	if mongoCfg.Database == "" {
		mongoCfg.Database = "geniusbabycosmetics"
	}

	db, err := database.Connect(&mongoCfg)
	if err != nil {
		log.Error().Err(err).Msg("mongodb connection failed")
		os.Exit(1)
	}
	defer db.Client().Disconnect(context.Background())

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		log.Warn().Err(err).Msg("index creation failed")
	}
	indexCancel()

	// Ctrl-C stops generation between documents; inserted batches stay.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	inserted, err := seed.Run(ctx, db, seed.Options{
		Count:  *count,
		Drop:   *drop,
		Images: mode,
		Seed:   *seedVal,
	})
	if err != nil {
		log.Error().Err(err).Int("inserted", inserted).Msg("seeding failed")
		os.Exit(1)
	}

	log.Info().
		Int("inserted", inserted).
		Str("images", string(mode)).
		Dur("took", time.Since(start)).
		Msg("catalog seeded")
}

func setupLogger() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
