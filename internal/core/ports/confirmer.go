package ports

import (
	"context"

	"go.trai.ch/wsm/internal/core/domain"
)

// Confirmer asks the user to approve a batch before anything is changed.
//
//go:generate mockgen -source=confirmer.go -destination=mocks/mock_confirmer.go -package=mocks
type Confirmer interface {
	// Confirm presents the affected ids and reports whether the user agreed.
	Confirm(ctx context.Context, question string, ids []domain.ItemID) (bool, error)
}
