// Package internal provides the App struct that wires all components of the
// Hansel discovery engine together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hanselhq/hansel/internal/agents"
	"github.com/hanselhq/hansel/internal/cli"
	"github.com/hanselhq/hansel/internal/core"
	"github.com/hanselhq/hansel/internal/observability"
	"github.com/hanselhq/hansel/internal/storage"
	"github.com/hanselhq/hansel/pkg/models"
)

// App holds all service dependencies for the discovery engine.
type App struct {
	BasePath string
	Config   *models.Config

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Storage layer
	ArtifactStore storage.ArtifactStoreManager
	SessionStore  storage.SessionStoreManager

	// Core services
	Registry *agents.Registry
	Loader   core.ContextLoader

	// Observability
	EventLog observability.EventLog
}

// NewApp creates and wires all components. basePath is the directory holding
// config.yaml; the wall directory is resolved relative to it.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	app.Config = cfg

	wallDir := cfg.WallDir
	if !filepath.IsAbs(wallDir) {
		wallDir = filepath.Join(basePath, wallDir)
	}

	// --- Storage layer ---
	app.ArtifactStore = storage.NewArtifactStoreManager(wallDir)
	app.SessionStore = storage.NewSessionStoreManager(wallDir, cfg.SessionName)

	// --- Core services ---
	app.Registry = agents.NewRegistry(app.ArtifactStore)
	app.Loader = core.NewContextLoader(basePath, app.ArtifactStore)

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, ".hansel_events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable observability if the log can't be created.
		app.EventLog = nil
	}

	// --- CLI wiring ---
	cli.Cfg = cfg
	cli.ConfigMgr = app.ConfigMgr
	cli.ArtifactStore = app.ArtifactStore
	cli.SessionStore = app.SessionStore
	cli.Registry = app.Registry
	cli.Loader = app.Loader
	cli.EventLog = app.EventLog

	return app, nil
}

// ResolveBasePath determines the working root: HANSEL_HOME if set, otherwise
// the nearest ancestor directory containing config.yaml, otherwise the cwd.
func ResolveBasePath() string {
	if home := os.Getenv("HANSEL_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}
