package ports

import (
	"context"

	"go.trai.ch/wsm/internal/core/domain"
)

// FetchRequest describes one item download.
type FetchRequest struct {
	ID      domain.ItemID
	Version domain.Version
	// Dest is the directory the item's files must end up in.
	Dest string
	// Settings carries the account and install location of the batch.
	Settings domain.Settings
}

// Transport moves item files between the catalog and the local disk.
//
//go:generate mockgen -source=transport.go -destination=mocks/mock_transport.go -package=mocks
type Transport interface {
	// Fetch downloads the item into req.Dest, replacing any previous content.
	Fetch(ctx context.Context, req FetchRequest) error

	// Delete removes the files installed at path.
	Delete(ctx context.Context, path string) error
}
