// Package cli implements the hansel command-line interface on cobra.
// Package-level manager variables are set during app initialization in
// internal/app.go.
package cli

import (
	"github.com/hanselhq/hansel/internal/agents"
	"github.com/hanselhq/hansel/internal/core"
	"github.com/hanselhq/hansel/internal/observability"
	"github.com/hanselhq/hansel/internal/storage"
	"github.com/hanselhq/hansel/pkg/models"
)

var (
	// Cfg is the loaded application configuration.
	Cfg *models.Config

	// ConfigMgr loads configuration and provider credentials.
	ConfigMgr core.ConfigurationManager

	// ArtifactStore is the discovery wall store.
	ArtifactStore storage.ArtifactStoreManager

	// SessionStore persists the chat transcript.
	SessionStore storage.SessionStoreManager

	// Registry holds the persona team.
	Registry *agents.Registry

	// Loader assembles per-persona context.
	Loader core.ContextLoader

	// EventLog records engine events; may be nil.
	EventLog observability.EventLog
)
