package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"

	"dayplan/internal/config"
	"dayplan/internal/health"
	"dayplan/internal/log"
	"dayplan/internal/planner"
	"dayplan/internal/quotes"
	"dayplan/internal/storage"
	"dayplan/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dayplan failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", filepath.Join(config.DefaultDir(), "config.yaml"), "path to the YAML config file")
	logLevel := flag.String("log-level", "info", "log level: debug, info, error")
	logFile := flag.String("log-file", "", "write logs to this file instead of stderr")
	flag.Parse()

	log.SetLevel(levelByName(*logLevel))
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = config.FromEnv(cfg)

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()

	ctx := context.Background()
	snap, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load planner state: %w", err)
	}
	store := planner.NewStore()
	store.Restore(snap)
	log.Info("planner state loaded", "days", len(snap.TasksByDate))

	saver := planner.SaverFunc(func(s planner.Snapshot) error {
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return repo.Replace(saveCtx, s)
	})
	engine := planner.NewEngine(store, saver)

	quoteService := quotes.NewService(cfg.QuoteURL, cfg.QuoteCachePath)

	// Fire-and-forget: the app never waits on the health endpoint.
	go health.Ping(context.Background(), cfg.HealthURL)

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.AutosaveCron, func() {
		if saveErr := saver.Save(store.Snapshot()); saveErr != nil {
			log.Error("autosave", saveErr)
			return
		}
		log.Debug("autosave ok")
	}); err != nil {
		return fmt.Errorf("autosave schedule %q: %w", cfg.AutosaveCron, err)
	}
	if cfg.QuoteURL != "" {
		if _, err := sched.AddFunc(cfg.QuoteCron, func() {
			refreshCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if _, quoteErr := quoteService.Today(refreshCtx); quoteErr != nil {
				log.Error("quote refresh", quoteErr)
			}
		}); err != nil {
			return fmt.Errorf("quote schedule %q: %w", cfg.QuoteCron, err)
		}
	}
	sched.Start()
	defer sched.Stop()

	program := tea.NewProgram(update.NewModelWithConfig(engine, quoteService, cfg))
	if _, err := program.Run(); err != nil {
		return err
	}

	// One last flush before exit.
	if err := saver.Save(store.Snapshot()); err != nil {
		log.Error("final save", err)
	}
	return nil
}

func levelByName(name string) log.Level {
	switch name {
	case "debug":
		return log.LevelDebug
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
