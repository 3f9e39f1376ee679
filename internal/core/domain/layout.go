package domain

import (
	"os"
	"path/filepath"
)

const (
	// HomeEnvVar overrides the directory holding settings and state.
	HomeEnvVar = "WSM_HOME"

	// PasswordEnvVar supplies the Steam password without touching disk.
	PasswordEnvVar = "WSM_STEAM_PASSWORD"

	// AppDirName is the directory created under the user config dir.
	AppDirName = "wsm"

	// FallbackDirName is used when no user config dir can be determined.
	FallbackDirName = ".wsm"

	// SettingsFileName is the name of the settings file.
	SettingsFileName = "settings.yaml"

	// StateFileName is the name of the local state file.
	StateFileName = "state.json"

	// CredentialsFileName is the name of the credentials file.
	CredentialsFileName = "credentials"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultHomePath returns the directory that holds settings, state and credentials.
// WSM_HOME wins, then the user config directory, then .wsm in the working directory.
func DefaultHomePath() string {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return filepath.Clean(home)
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, AppDirName)
	}
	return FallbackDirName
}

// DefaultSettingsPath returns the default path of the settings file.
func DefaultSettingsPath() string {
	return filepath.Join(DefaultHomePath(), SettingsFileName)
}

// DefaultStatePath returns the default path of the local state file.
func DefaultStatePath() string {
	return filepath.Join(DefaultHomePath(), StateFileName)
}

// DefaultCredentialsPath returns the default path of the credentials file.
func DefaultCredentialsPath() string {
	return filepath.Join(DefaultHomePath(), CredentialsFileName)
}
