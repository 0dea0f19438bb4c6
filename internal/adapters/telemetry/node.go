package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/refmt/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry Graft node. The default
// is the no-op recorder; the app swaps in the progrock recorder when progress
// output is requested.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			return NewNoOp(), nil
		},
	})
}
