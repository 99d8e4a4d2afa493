package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/zephyrtronium/calc/internal/config"
	"github.com/zephyrtronium/calc/internal/observe"
	"github.com/zephyrtronium/calc/rps"
	"github.com/zephyrtronium/calc/rps/history"
)

func main() {
	log.SetFlags(0)
	var (
		histname, cfgname         string
		emoji, verbose, telemetry bool
		seed                      int64
	)
	flag.BoolVar(&emoji, "emoji", false, "show choices as emoji")
	flag.StringVar(&histname, "history", "", "SQLite database recording every round (default in memory)")
	flag.Int64Var(&seed, "seed", 0, "seed for the computer's choices (default random)")
	flag.StringVar(&cfgname, "config", "", "YAML or JSON config file")
	flag.BoolVar(&verbose, "v", false, "log debug output to stderr")
	flag.BoolVar(&telemetry, "telemetry", false, "log spans and metrics to stderr")
	flag.Parse()

	cfg, err := config.Load(cfgname)
	if err != nil {
		log.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "emoji":
			cfg.RPS.Emoji = emoji
		case "history":
			cfg.RPS.History = histname
		case "seed":
			cfg.RPS.Seed = seed
		case "telemetry":
			cfg.Telemetry = telemetry
		case "v":
			if verbose {
				cfg.LogLevel = "debug"
			}
		}
	})
	logger, err := observe.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Telemetry {
		tlog, _ := observe.NewLogger(os.Stderr, "info")
		tel := observe.NewTelemetry(tlog)
		tel.Install()
		defer func() {
			if err := tel.Shutdown(context.Background()); err != nil {
				logger.Error("telemetry shutdown failed", slog.String("error", err.Error()))
			}
		}()
	}

	var store history.Store
	if cfg.RPS.History != "" {
		store, err = history.NewSQLiteStore(cfg.RPS.History)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		store = history.NewMemoryStore()
	}
	defer store.Close()

	var picker rps.Picker = rps.NewRandomPicker(nil)
	if cfg.RPS.Seed != 0 {
		picker = rps.NewSeededPicker(uint64(cfg.RPS.Seed))
	}

	s := rps.NewSession(picker,
		rps.WithEmoji(cfg.RPS.Emoji),
		rps.WithHistory(store),
		rps.WithLogger(logger),
		rps.WithRecorder(observe.NewRecorder()),
	)
	if err := s.Run(context.Background(), os.Stdin, os.Stdout); err != nil {
		store.Close()
		log.Fatal(err)
	}
}
