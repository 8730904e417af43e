package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/vytor/leaguesim/internal/logger"
	"github.com/vytor/leaguesim/internal/report"
	"github.com/vytor/leaguesim/internal/scenario"
	"github.com/vytor/leaguesim/internal/sim"
)

func main() {
	scenarioPath := flag.String("scenario", "", "scenario file (.json/.yaml); empty runs the built-in 36-team comparison")
	outPath := flag.String("out", "", "write the metric/value summary CSV to this path")
	trialCSVPath := flag.String("trial-csv", "", "write per-trial weak counts to this CSV path")
	trials := flag.Int("trials", 0, "override the scenario trial count")
	seed := flag.Int64("seed", -1, "override the scenario seed")
	workers := flag.Int("workers", 0, "trial workers (0 = all CPUs)")
	logLevel := flag.String("log-level", "INFO", "log level: DEBUG, INFO, WARN, ERROR")
	flag.Parse()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(*logLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	sc := scenario.Default()
	if *scenarioPath != "" {
		loaded, err := scenario.Load(*scenarioPath)
		if err != nil {
			log.Error("cannot load scenario: %v", err)
			os.Exit(1)
		}
		sc = loaded
	}
	if *trials > 0 {
		sc.Trials = *trials
	}
	if *seed >= 0 {
		sc.Seed = *seed
	}

	model, err := sc.RatingModel()
	if err != nil {
		log.Error("cannot build team field: %v", err)
		os.Exit(1)
	}
	matches, err := sim.NewMatchSimulator(sc.DrawProbability)
	if err != nil {
		log.Error("cannot build match model: %v", err)
		os.Exit(1)
	}

	cfg := sc.RunnerConfig(*workers)
	cfg.KeepTrialOutcomes = *trialCSVPath != ""
	runner, err := sim.NewRunner(model, matches, cfg)
	if err != nil {
		log.Error("invalid run configuration: %v", err)
		os.Exit(1)
	}

	// Ctrl-C aborts the run cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("simulating %q: %d trials over %d teams (%d weak, seed %d)",
		sc.Name, sc.Trials, model.Count(), model.WeakCount(), sc.Seed)

	stats, err := runner.Run(ctx)
	if err != nil {
		log.Error("simulation failed: %v", err)
		os.Exit(1)
	}

	if err := report.ComparisonTable(os.Stdout, stats); err != nil {
		log.Error("cannot print comparison: %v", err)
		os.Exit(1)
	}

	if *outPath != "" {
		if err := report.WriteSummaryFile(*outPath, stats); err != nil {
			log.Error("cannot write summary: %v", err)
			os.Exit(1)
		}
		log.Info("summary written to %s", *outPath)
	}
	if *trialCSVPath != "" {
		f, err := os.Create(*trialCSVPath)
		if err != nil {
			log.Error("cannot create trial CSV: %v", err)
			os.Exit(1)
		}
		if err := report.WriteTrialOutcomes(f, stats); err != nil {
			f.Close()
			log.Error("cannot write trial CSV: %v", err)
			os.Exit(1)
		}
		if err := f.Close(); err != nil {
			log.Error("cannot close trial CSV: %v", err)
			os.Exit(1)
		}
		log.Info("trial outcomes written to %s", *trialCSVPath)
	}
}
