package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// SettingKey names a persisted setting.
type SettingKey string

const (
	// SettingLogin is the Steam account name used by steamcmd.
	SettingLogin SettingKey = "login"
	// SettingInstallDir is the directory steamcmd installs into.
	SettingInstallDir SettingKey = "install_dir"
	// SettingAppID is the Steam application the workshop belongs to.
	SettingAppID SettingKey = "appid"
)

// AnonymousLogin is the Steam account name that needs no password.
const AnonymousLogin = "anonymous"

// settingUsage is printed when a required setting is absent.
var settingUsage = map[SettingKey]string{
	SettingLogin:      "wsm set login <username> [password]",
	SettingInstallDir: "wsm set install_dir <directory>",
	SettingAppID:      "wsm set appid <appid>",
}

// Settings is the immutable runtime configuration.
// Values are copied into components at construction and never changed afterwards.
type Settings struct {
	Login      string
	InstallDir string
	AppID      string
}

// Get returns the value stored under key.
func (s Settings) Get(key SettingKey) string {
	switch key {
	case SettingLogin:
		return s.Login
	case SettingInstallDir:
		return s.InstallDir
	case SettingAppID:
		return s.AppID
	default:
		return ""
	}
}

// With returns a copy of s with key set to value.
func (s Settings) With(key SettingKey, value string) (Settings, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s, zerr.With(zerr.Wrap(ErrInvalidSetting, string(key)+" must not be empty"), "setting", string(key))
	}

	switch key {
	case SettingLogin:
		s.Login = value
	case SettingInstallDir:
		abs, err := filepath.Abs(value)
		if err != nil {
			return s, zerr.With(zerr.Wrap(ErrInvalidSetting, err.Error()), "setting", string(key))
		}
		s.InstallDir = abs
	case SettingAppID:
		for _, r := range value {
			if r < '0' || r > '9' {
				err := zerr.Wrap(ErrInvalidSetting, "appid must be numeric")
				return s, zerr.With(err, "value", value)
			}
		}
		s.AppID = value
	default:
		return s, zerr.With(zerr.Wrap(ErrUnknownSetting, string(key)), "setting", string(key))
	}
	return s, nil
}

// Require returns ErrConfigMissing for the first key without a value.
func (s Settings) Require(keys ...SettingKey) error {
	for _, key := range keys {
		if s.Get(key) != "" {
			continue
		}
		err := zerr.Wrap(ErrConfigMissing, string(key)+" is not set")
		return zerr.With(err, "usage", settingUsage[key])
	}
	return nil
}

// IsAnonymous reports whether steamcmd should log in anonymously.
func (s Settings) IsAnonymous() bool {
	return s.Login == AnonymousLogin
}

// ContentDir returns the directory steamcmd places an item's files in.
func (s Settings) ContentDir(id ItemID) string {
	return filepath.Join(s.InstallDir, "steamapps", "workshop", "content", s.AppID, id.String())
}

// ParseSettingKey validates a user-supplied setting name.
func ParseSettingKey(raw string) (SettingKey, error) {
	key := SettingKey(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := settingUsage[key]; !ok {
		return "", zerr.Wrap(ErrUnknownSetting, raw)
	}
	return key, nil
}
