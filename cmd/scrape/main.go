package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Haroldke13/geniusbabycosmetics/internal/scrape"
)

// main scrapes product image URLs from a listing page and writes them to a
// file, one per line, for the catalog import sheet.
func main() {
	pageURL := flag.String("url", "", "listing page to scrape (required)")
	out := flag.String("out", "links.txt", "output file")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	if *pageURL == "" {
		fmt.Fprintln(os.Stderr, "usage: scrape -url <page> [-out links.txt]")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	urls, err := scrape.New().ProductImages(ctx, *pageURL)
	if err != nil {
		log.Error().Err(err).Msg("scrape failed")
		os.Exit(1)
	}

	for _, u := range urls {
		fmt.Println(u)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Error().Err(err).Str("file", *out).Msg("cannot create output file")
		os.Exit(1)
	}
	if err := scrape.WriteLinks(f, urls); err != nil {
		f.Close()
		log.Error().Err(err).Msg("write failed")
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		log.Error().Err(err).Msg("write failed")
		os.Exit(1)
	}

	log.Info().Int("count", len(urls)).Str("file", *out).Msg("saved product image links")
}
