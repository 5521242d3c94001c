package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/VedPanse/Lockin/internal/config"
	"github.com/VedPanse/Lockin/internal/logger"
	"github.com/VedPanse/Lockin/internal/notify"
	"github.com/VedPanse/Lockin/internal/scheduler"
	"github.com/VedPanse/Lockin/internal/storage"
	"github.com/VedPanse/Lockin/internal/store"
	"github.com/VedPanse/Lockin/internal/update"
)

func main() {
	configPath := flag.String("config", "lockin.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "lockin failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.Path, cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	repo, err := storage.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	engine := scheduler.NewEngine(cfg.Scheduler.Buffer)
	engine.Start()
	defer engine.Stop()

	reminders := notify.NewService(engine, log)
	desktop := notify.ProbeDesktop(cfg.Notifications.Desktop, log)

	s, err := store.Load(context.Background(), repo, reminders, store.SystemClock{}, log)
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}

	model := update.NewModelWithRuntime(s, update.Runtime{
		Engine:  engine,
		Desktop: desktop,
		Clock:   store.SystemClock{},
		Log:     log,
	})

	log.Info("lockin starting",
		zap.String("db", cfg.Database.Path),
		zap.Bool("desktop_notifications", cfg.Notifications.Desktop))

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
