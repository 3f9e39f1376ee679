// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/wsm/internal/core/domain"
)

// Catalog queries the remote workshop catalog.
//
//go:generate mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type Catalog interface {
	// Lookup returns the current metadata of an item.
	// It returns an error wrapping domain.ErrItemNotFound if the catalog does not know id.
	Lookup(ctx context.Context, id domain.ItemID) (*domain.Item, error)

	// Search returns the ids of items matching query, in the catalog's ranking order.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.ItemID, error)
}
