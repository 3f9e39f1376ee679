package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wsm/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/wsm/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/wsm/internal/adapters/secrets"   //nolint:depguard // Wired in app layer
	"go.trai.ch/wsm/internal/adapters/state"     //nolint:depguard // Wired in app layer
	"go.trai.ch/wsm/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/wsm/internal/adapters/workshop"  //nolint:depguard // Wired in app layer
	"go.trai.ch/wsm/internal/core/ports"
	"go.trai.ch/wsm/internal/engine/installer"
	"go.trai.ch/wsm/internal/engine/resolver"
	"go.trai.ch/wsm/internal/engine/synchronizer"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			state.NodeID,
			workshop.NodeID,
			secrets.NodeID,
			resolver.NodeID,
			synchronizer.NodeID,
			installer.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
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

			return NewComponents(app, log, tracer), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[ports.SettingsStore](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.StateStore](ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := graft.Dep[ports.Catalog](ctx)
	if err != nil {
		return nil, err
	}

	credentials, err := graft.Dep[ports.Credentials](ctx)
	if err != nil {
		return nil, err
	}

	res, err := graft.Dep[*resolver.Resolver](ctx)
	if err != nil {
		return nil, err
	}

	sync, err := graft.Dep[*synchronizer.Synchronizer](ctx)
	if err != nil {
		return nil, err
	}

	inst, err := graft.Dep[*installer.Installer](ctx)
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

	return New(settings, store, catalog, credentials, res, sync, inst, log, tracer), nil
}
