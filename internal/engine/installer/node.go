package installer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wsm/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wsm/internal/adapters/prompt"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wsm/internal/adapters/state"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wsm/internal/adapters/steamcmd"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wsm/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wsm/internal/core/ports"
)

// NodeID is the unique identifier for the installer Graft node.
const NodeID graft.ID = "engine.installer"

func init() {
	graft.Register(graft.Node[*Installer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			steamcmd.NodeID,
			state.NodeID,
			prompt.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Installer, error) {
			transport, err := graft.Dep[ports.Transport](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.StateStore](ctx)
			if err != nil {
				return nil, err
			}

			confirmer, err := graft.Dep[ports.Confirmer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(transport, store, confirmer, log, tracer), nil
		},
	})
}
