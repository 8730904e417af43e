package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vytor/leaguesim/internal/clubelo"
	"github.com/vytor/leaguesim/internal/logger"
	"github.com/vytor/leaguesim/internal/realdata"
)

func main() {
	eloPath := flag.String("elo", "", "ratings snapshot CSV with team and elo columns")
	fetchDate := flag.String("fetch", "", "fetch the ratings snapshot for this date (YYYY-MM-DD) instead of reading a file")
	baseURL := flag.String("url", clubelo.DefaultBaseURL, "ratings snapshot endpoint")
	resultsPath := flag.String("results", "", "phase results CSV with team and group (top8 / 9-24) columns")
	threshold := flag.Float64("threshold", 1500, "weak-team rating threshold")
	logLevel := flag.String("log-level", "INFO", "log level: DEBUG, INFO, WARN, ERROR")
	flag.Parse()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(*logLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if *resultsPath == "" {
		log.Error("-results is required")
		os.Exit(1)
	}
	if (*eloPath == "") == (*fetchDate == "") {
		log.Error("exactly one of -elo or -fetch is required")
		os.Exit(1)
	}

	var (
		ratings map[string]float64
		err     error
	)
	if *eloPath != "" {
		ratings, err = realdata.LoadRatings(*eloPath)
	} else {
		client := clubelo.New(clubelo.WithBaseURL(*baseURL))
		ratings, err = client.FetchRatings(context.Background(), *fetchDate)
	}
	if err != nil {
		log.Error("cannot load ratings: %v", err)
		os.Exit(1)
	}

	results, err := realdata.LoadPhaseResults(*resultsPath)
	if err != nil {
		log.Error("cannot load phase results: %v", err)
		os.Exit(1)
	}

	for _, team := range results.Top24 {
		if _, ok := ratings[team]; !ok {
			log.Warn("no rating for %q, excluded from weak counts", team)
		}
	}

	weakTop8 := realdata.CountWeak(results.Top8, ratings, *threshold)
	weakTop24 := realdata.CountWeak(results.Top24, ratings, *threshold)

	fmt.Printf("threshold: elo < %.0f\n", *threshold)
	fmt.Printf("weak in top 8:  %d of %d\n", weakTop8, len(results.Top8))
	fmt.Printf("weak in top 24: %d of %d\n", weakTop24, len(results.Top24))
}
