// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/wsm/internal/adapters/config"
	_ "go.trai.ch/wsm/internal/adapters/logger"
	_ "go.trai.ch/wsm/internal/adapters/prompt"
	_ "go.trai.ch/wsm/internal/adapters/secrets"
	_ "go.trai.ch/wsm/internal/adapters/state"
	_ "go.trai.ch/wsm/internal/adapters/steamcmd"
	_ "go.trai.ch/wsm/internal/adapters/telemetry"
	_ "go.trai.ch/wsm/internal/adapters/workshop"
	// Register app and engine nodes.
	_ "go.trai.ch/wsm/internal/app"
	_ "go.trai.ch/wsm/internal/engine/installer"
	_ "go.trai.ch/wsm/internal/engine/resolver"
	_ "go.trai.ch/wsm/internal/engine/synchronizer"
)
