// Package domain contains the core domain models for workshop items and the local install state.
package domain

import (
	"strings"
	"time"
)

// ItemID is the catalog identifier of a workshop item.
// Steam publishes numeric ids but the core treats them as opaque strings.
type ItemID string

// String returns the id as a plain string.
func (id ItemID) String() string {
	return string(id)
}

// NewItemIDs converts raw strings into ItemIDs, trimming whitespace and
// dropping empty entries and duplicates while keeping the first occurrence order.
func NewItemIDs(raw []string) []ItemID {
	ids := make([]ItemID, 0, len(raw))
	seen := make(map[ItemID]struct{}, len(raw))
	for _, r := range raw {
		id := ItemID(strings.TrimSpace(r))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Version is the publish timestamp of an item revision in Unix seconds.
// A greater value is a newer revision.
type Version int64

// NewerThan reports whether v is a more recent revision than other.
func (v Version) NewerThan(other Version) bool {
	return v > other
}

// Time returns the version as a UTC time. The zero version maps to the zero time.
func (v Version) Time() time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(int64(v), 0).UTC()
}

// String renders the version as an RFC 3339 timestamp, or "unknown" for the zero version.
func (v Version) String() string {
	if v == 0 {
		return "unknown"
	}
	return v.Time().Format(time.RFC3339)
}

// VersionFromTime converts a timestamp into a Version.
func VersionFromTime(t time.Time) Version {
	if t.IsZero() {
		return 0
	}
	return Version(t.Unix())
}

// Item is the catalog metadata of a workshop item.
type Item struct {
	// ID is the unique catalog id.
	ID ItemID

	// Title is the human-readable name.
	Title string

	// Version is the revision currently published in the catalog.
	Version Version

	// Size is the download size in bytes.
	Size int64

	// PreviewURL points at the item's preview image, if any.
	PreviewURL string

	// Dependencies lists the ids of items this item requires, in catalog order.
	Dependencies []ItemID
}

// InstalledItem records an item that is present on this machine.
type InstalledItem struct {
	ID          ItemID
	Title       string
	Version     Version
	Size        int64
	Path        string
	InstalledAt time.Time
}

// NewInstalledItem builds the state entry for an item fetched into path.
func NewInstalledItem(item *Item, path string, at time.Time) InstalledItem {
	return InstalledItem{
		ID:          item.ID,
		Title:       item.Title,
		Version:     item.Version,
		Size:        item.Size,
		Path:        path,
		InstalledAt: at.UTC(),
	}
}
