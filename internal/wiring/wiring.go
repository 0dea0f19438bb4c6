// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/refmt/internal/adapters/config"
	_ "go.trai.ch/refmt/internal/adapters/engine"
	_ "go.trai.ch/refmt/internal/adapters/fs"
	_ "go.trai.ch/refmt/internal/adapters/logger"
	_ "go.trai.ch/refmt/internal/adapters/telemetry"
	// Register the app node.
	_ "go.trai.ch/refmt/internal/app"
)
