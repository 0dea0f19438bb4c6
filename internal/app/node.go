package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/refmt/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/refmt/internal/adapters/engine"    //nolint:depguard // Wired in app layer
	"go.trai.ch/refmt/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/refmt/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/refmt/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/refmt/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components needed by the
// CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.SelectorNodeID,
			fs.HasherNodeID,
			config.NodeID,
			engine.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	selector, err := graft.Dep[ports.FileSelector](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}
	loader, err := graft.Dep[ports.OptionsLoader](ctx)
	if err != nil {
		return nil, err
	}
	factory, err := graft.Dep[ports.EngineFactory](ctx)
	if err != nil {
		return nil, err
	}
	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return New(selector, hasher, loader, factory, tel, log), nil
}
