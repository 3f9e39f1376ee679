package steamcmd

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wsm/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/wsm/internal/adapters/secrets" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/wsm/internal/core/ports"
)

// NodeID is the unique identifier for the steamcmd transport Graft node.
const NodeID graft.ID = "adapter.transport"

func init() {
	graft.Register(graft.Node[ports.Transport]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{secrets.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Transport, error) {
			credentials, err := graft.Dep[ports.Credentials](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(credentials, log), nil
		},
	})
}
