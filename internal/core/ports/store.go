package ports

import "go.trai.ch/wsm/internal/core/domain"

// StateStore persists the local install state.
// The whole state is read at once and written at once.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StateStore interface {
	// Load reads the persisted state. A missing file yields an empty state.
	// An unreadable or inconsistent file yields an error wrapping domain.ErrStateCorrupt.
	Load() (*domain.LocalState, error)

	// Save replaces the persisted state with state.
	Save(state *domain.LocalState) error
}
