package workshop

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wsm/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/wsm/internal/core/ports"
)

// NodeID is the unique identifier for the workshop catalog Graft node.
const NodeID graft.ID = "adapter.catalog"

func init() {
	graft.Register(graft.Node[ports.Catalog]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Catalog, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(log), nil
		},
	})
}
