// Package config reads and writes the settings file.
package config

import (
	"errors"
	"io/fs"
	"os"

	wsmfs "go.trai.ch/wsm/internal/adapters/fs"
	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the settings file version written by Save.
const SchemaVersion = "1"

var _ ports.SettingsStore = (*Store)(nil)

// Settingsfile represents the structure of the settings.yaml file.
type Settingsfile struct {
	Version    string `yaml:"version"`
	Login      string `yaml:"login,omitempty"`
	InstallDir string `yaml:"install_dir,omitempty"`
	AppID      string `yaml:"appid,omitempty"`
}

// Store implements ports.SettingsStore with a YAML file.
type Store struct {
	path string
}

// NewStore creates a Store for the settings file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the settings file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file yields zero settings.
// Values are validated the same way `wsm set` validates them.
func (s *Store) Load() (domain.Settings, error) {
	var file Settingsfile
	if err := readAndUnmarshalYAML(s.path, &file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Settings{}, nil
		}
		return domain.Settings{}, zerr.With(err, "path", s.path)
	}

	if file.Version != "" && file.Version != SchemaVersion {
		err := zerr.Wrap(domain.ErrConfigParseFailed, "unsupported settings version")
		return domain.Settings{}, zerr.With(zerr.With(err, "version", file.Version), "path", s.path)
	}

	settings := domain.Settings{}
	values := []struct {
		key   domain.SettingKey
		value string
	}{
		{domain.SettingLogin, file.Login},
		{domain.SettingInstallDir, file.InstallDir},
		{domain.SettingAppID, file.AppID},
	}
	for _, v := range values {
		if v.value == "" {
			continue
		}
		next, err := settings.With(v.key, v.value)
		if err != nil {
			return domain.Settings{}, zerr.With(err, "path", s.path)
		}
		settings = next
	}

	return settings, nil
}

// Save replaces the settings file.
func (s *Store) Save(settings domain.Settings) error {
	data, err := yaml.Marshal(Settingsfile{
		Version:    SchemaVersion,
		Login:      settings.Login,
		InstallDir: settings.InstallDir,
		AppID:      settings.AppID,
	})
	if err != nil {
		return zerr.Wrap(domain.ErrConfigWriteFailed, err.Error())
	}

	if err := wsmfs.WriteFileAtomic(s.path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigWriteFailed, err.Error()), "path", s.path)
	}
	return nil
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath comes from the settings layout
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return zerr.Wrap(domain.ErrConfigReadFailed, err.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(domain.ErrConfigParseFailed, parseErr.Error())
	}

	return nil
}
