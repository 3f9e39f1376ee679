package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wsm/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wsm/internal/adapters/workshop" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wsm/internal/core/ports"
)

// NodeID is the unique identifier for the resolver Graft node.
const NodeID graft.ID = "engine.resolver"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{workshop.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Resolver, error) {
			catalog, err := graft.Dep[ports.Catalog](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(catalog, log), nil
		},
	})
}
