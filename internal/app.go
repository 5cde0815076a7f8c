// Package internal provides the App struct that wires the pomotask
// components together and initializes the CLI layer.
package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/pomotask/internal/cli"
	"github.com/valter-silva-au/pomotask/internal/core"
	"github.com/valter-silva-au/pomotask/internal/observability"
	"github.com/valter-silva-au/pomotask/internal/storage"
	"github.com/valter-silva-au/pomotask/pkg/models"
)

// App holds all service dependencies for pomotask.
type App struct {
	BasePath string
	Config   *models.AppConfig

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Storage layer
	Store storage.KVStore

	// Core services
	TaskMgr     core.TaskManager
	IdentityMgr core.IdentityManager
	ImagePicker core.ImagePicker

	// Observability
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components. basePath is the directory holding
// .pomotask.yaml, the store and the event log.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Storage layer ---
	app.Store, err = storage.OpenKVStore(basePath, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}

	// --- Observability ---
	app.EventLog, err = observability.NewJSONLEventLog(filepath.Join(basePath, observability.DefaultEventLogName))
	if err != nil {
		// Non-fatal: run without an event log.
		app.EventLog = nil
	}
	var events core.EventLogger
	if app.EventLog != nil {
		events = observability.NewLogger(app.EventLog)
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Core services ---
	var taskStore core.KeyValueStore
	if cfg.Tasks.Persist {
		taskStore = app.Store
	}
	app.TaskMgr = core.NewTaskManager(core.NewTaskIDGenerator(), taskStore, events)
	if err := app.TaskMgr.Load(context.Background()); err != nil {
		_ = app.Close()
		return nil, err
	}

	app.IdentityMgr = core.NewIdentityManager(app.Store, core.IdentityPolicy{
		RequireUsername: cfg.Identity.RequireUsername,
		DefaultUsername: cfg.Identity.DefaultUsername,
	}, events)
	app.ImagePicker = core.NewFileImagePicker()

	// --- CLI wiring ---
	cli.BasePath = basePath
	cli.Config = cfg
	cli.TaskMgr = app.TaskMgr
	cli.IdentityMgr = app.IdentityMgr
	cli.ImagePicker = app.ImagePicker
	cli.Events = events
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases the store and the event log.
func (a *App) Close() error {
	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.EventLog != nil {
		errs = append(errs, a.EventLog.Close())
	}
	return errors.Join(errs...)
}

// ResolveBasePath determines the pomotask data directory.
// It checks POMOTASK_HOME first, then walks up from the current working
// directory looking for .pomotask.yaml, and finally falls back to the user
// config directory.
func ResolveBasePath() string {
	if home := os.Getenv("POMOTASK_HOME"); home != "" {
		return home
	}

	cwd, err := os.Getwd()
	if err == nil {
		dir := cwd
		for {
			if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName+".yaml")); err == nil {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if cfgDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(cfgDir, "pomotask")
	}
	if cwd != "" {
		return cwd
	}
	return "."
}
