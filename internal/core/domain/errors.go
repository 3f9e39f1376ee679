package domain

import "go.trai.ch/zerr"

var (
	// ErrItemNotFound is returned by the catalog when an id does not exist.
	ErrItemNotFound = zerr.New("workshop item not found")

	// ErrCatalogLookup is returned when resolution cannot find a requested or required item.
	ErrCatalogLookup = zerr.New("catalog lookup failed")

	// ErrCatalogRequestFailed is returned when the catalog cannot be reached.
	ErrCatalogRequestFailed = zerr.New("failed to query workshop catalog")

	// ErrCatalogParseFailed is returned when a catalog page cannot be understood.
	ErrCatalogParseFailed = zerr.New("failed to parse workshop page")

	// ErrTransport is returned when fetching or deleting item files fails.
	ErrTransport = zerr.New("transport failed")

	// ErrSteamCmdNotFound is returned when the steamcmd binary is not installed.
	ErrSteamCmdNotFound = zerr.New("steamcmd not found, install it first")

	// ErrConfigMissing is returned when a required setting has not been set.
	ErrConfigMissing = zerr.New("required setting missing")

	// ErrInvalidSetting is returned when a setting value is rejected.
	ErrInvalidSetting = zerr.New("invalid setting value")

	// ErrUnknownSetting is returned for setting names that do not exist.
	ErrUnknownSetting = zerr.New("unknown setting, expected one of login, install_dir, appid")

	// ErrConfigReadFailed is returned when the settings file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read settings file")

	// ErrConfigParseFailed is returned when the settings file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse settings file")

	// ErrConfigWriteFailed is returned when the settings file cannot be written.
	ErrConfigWriteFailed = zerr.New("failed to write settings file")

	// ErrStateCorrupt is returned when the local state file cannot be trusted.
	ErrStateCorrupt = zerr.New("local state is corrupt")

	// ErrStateWriteFailed is returned when the local state cannot be persisted.
	ErrStateWriteFailed = zerr.New("failed to write local state")

	// ErrCredentialsMissing is returned when steamcmd needs a password that is not available.
	ErrCredentialsMissing = zerr.New("steam password not available")

	// ErrCredentialsWriteFailed is returned when the credentials file cannot be written.
	ErrCredentialsWriteFailed = zerr.New("failed to write credentials")

	// ErrAborted is returned when the user declines a confirmation.
	ErrAborted = zerr.New("aborted by user")

	// ErrConfirmationRequired is returned when confirmation is needed but no terminal is attached.
	ErrConfirmationRequired = zerr.New("confirmation required, rerun with --yes")

	// ErrBatchFailed is returned when one or more items in a batch failed.
	ErrBatchFailed = zerr.New("one or more items failed")

	// ErrNoItemsSpecified is returned when a command needs item ids and got none.
	ErrNoItemsSpecified = zerr.New("no workshop items specified")

	// ErrInvalidSort is returned for unknown search sort modes.
	ErrInvalidSort = zerr.New("invalid sort, expected textsearch, mostrecent, trend or totaluniquesubscribers")

	// ErrInvalidSize is returned when a human-readable size cannot be parsed.
	ErrInvalidSize = zerr.New("invalid size")
)
