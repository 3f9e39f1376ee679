package secrets

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
)

// NodeID is the unique identifier for the credentials Graft node.
const NodeID graft.ID = "adapter.credentials"

func init() {
	graft.Register(graft.Node[ports.Credentials]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Credentials, error) {
			return NewStore(domain.DefaultCredentialsPath()), nil
		},
	})
}
