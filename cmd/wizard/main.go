// license-wizard is the terminal intake client. It walks an applicant through
// the five application steps, keeps the form in a local state file between
// sessions and auto-saves a server-side draft while there are unsaved changes.
package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ikkim/license-backend/config"
	"github.com/ikkim/license-backend/internal/scheduler"
	"github.com/ikkim/license-backend/internal/tui"
	"github.com/ikkim/license-backend/internal/wizard"
	"github.com/ikkim/license-backend/internal/licenseapi"
	"github.com/ikkim/license-backend/pkg/logger"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flagSet := pflag.NewFlagSet("license-wizard", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Wizard.APIBaseURL, "api", cfg.Wizard.APIBaseURL, "license API base URL")
	flagSet.StringVar(&cfg.Wizard.StatePath, "state", cfg.Wizard.StatePath, "file holding the in-progress form")
	flagSet.DurationVar(&cfg.Wizard.AutoSaveInterval, "autosave", cfg.Wizard.AutoSaveInterval, "draft auto-save interval")
	flagSet.StringVar(&cfg.Wizard.LogFile, "log-file", cfg.Wizard.LogFile, "write JSON log records to this file")
	flagSet.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level (debug, info, warn, error)")
	reset := flagSet.Bool("reset", false, "discard the saved form and start over")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if err := logger.Initialize(loggerConfig(cfg)); err != nil {
		return err
	}
	defer logger.Close()

	client, err := licenseapi.NewClient(licenseapi.Config{BaseURL: cfg.Wizard.APIBaseURL})
	if err != nil {
		return err
	}

	store := wizard.NewFileStore(cfg.Wizard.StatePath)
	if *reset {
		if err := store.Clear(); err != nil {
			return err
		}
	}
	w := wizard.New(client, store)

	autoSave := scheduler.NewAutoSaveScheduler(w, cfg.Wizard.AutoSaveInterval)
	if err := autoSave.Start(); err != nil {
		return err
	}
	defer autoSave.Stop()

	logger.Info("Wizard started", map[string]interface{}{
		"api":        cfg.Wizard.APIBaseURL,
		"state_path": cfg.Wizard.StatePath,
	})

	program := tea.NewProgram(tui.NewApp(w), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// loggerConfig sends JSON records to the wizard log file only, since the
// terminal belongs to the UI.
func loggerConfig(cfg *config.Config) logger.Config {
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	return logger.Config{
		Level:    level,
		Format:   "json",
		Output:   io.Discard,
		FilePath: cfg.Wizard.LogFile,
		FileOnly: true,
	}
}
