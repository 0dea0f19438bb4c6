package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/refmt/internal/core/ports"
)

const (
	SelectorNodeID graft.ID = "adapter.fs.selector"
	HasherNodeID   graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[ports.FileSelector]{
		ID:        SelectorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileSelector, error) {
			return NewSelector(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
