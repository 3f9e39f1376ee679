package ports

import "go.trai.ch/wsm/internal/core/domain"

// SettingsStore reads and writes the persisted settings.
//
//go:generate mockgen -source=settings.go -destination=mocks/mock_settings.go -package=mocks
type SettingsStore interface {
	// Load reads the settings. A missing file yields zero settings.
	Load() (domain.Settings, error)

	// Save replaces the persisted settings.
	Save(settings domain.Settings) error
}
