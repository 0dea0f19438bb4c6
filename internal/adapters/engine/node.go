package engine

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/refmt/internal/core/ports"
)

// NodeID is the unique identifier for the engine factory Graft node.
const NodeID graft.ID = "adapter.engine_factory"

func init() {
	graft.Register(graft.Node[ports.EngineFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.EngineFactory, error) {
			return NewFactory(), nil
		},
	})
}
