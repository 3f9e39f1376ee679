// Package state persists the local install state as a checksummed JSON document.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	wsmfs "go.trai.ch/wsm/internal/adapters/fs"
	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
	"go.trai.ch/zerr"
)

// SchemaVersion is the version of the state document written by this package.
const SchemaVersion = 1

var _ ports.StateStore = (*Store)(nil)

type document struct {
	Version  int      `json:"version"`
	Checksum string   `json:"checksum"`
	Items    []record `json:"items"`
}

type record struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Version     int64     `json:"version"`
	Size        int64     `json:"size"`
	Path        string    `json:"path"`
	InstalledAt time.Time `json:"installed_at"`
}

// Store implements ports.StateStore backed by a single JSON file.
type Store struct {
	path string
}

// NewStore creates a Store reading and writing path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state file. A missing file yields an empty state.
func (s *Store) Load() (*domain.LocalState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewLocalState(), nil
		}
		return nil, s.corrupt(err, "failed to read state file")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, s.corrupt(err, "invalid json")
	}

	if doc.Version != SchemaVersion {
		return nil, zerr.With(s.corrupt(nil, "unsupported schema version"), "version", doc.Version)
	}

	sum, err := checksum(doc.Items)
	if err != nil {
		return nil, s.corrupt(err, "failed to encode items")
	}
	if sum != doc.Checksum {
		return nil, zerr.With(s.corrupt(nil, "checksum mismatch"), "expected", doc.Checksum)
	}

	entries := make([]domain.InstalledItem, 0, len(doc.Items))
	seen := make(map[domain.ItemID]struct{}, len(doc.Items))
	for _, r := range doc.Items {
		id := domain.ItemID(r.ID)
		if id == "" {
			return nil, s.corrupt(nil, "item without id")
		}
		if _, dup := seen[id]; dup {
			return nil, zerr.With(s.corrupt(nil, "duplicate item"), "id", r.ID)
		}
		seen[id] = struct{}{}

		entries = append(entries, domain.InstalledItem{
			ID:          id,
			Title:       r.Title,
			Version:     domain.Version(r.Version),
			Size:        r.Size,
			Path:        r.Path,
			InstalledAt: r.InstalledAt,
		})
	}

	return domain.NewLocalStateFrom(entries), nil
}

// Save atomically replaces the state file with state.
func (s *Store) Save(state *domain.LocalState) error {
	items := make([]record, 0, state.Len())
	for item := range state.All() {
		items = append(items, record{
			ID:          item.ID.String(),
			Title:       item.Title,
			Version:     int64(item.Version),
			Size:        item.Size,
			Path:        item.Path,
			InstalledAt: item.InstalledAt.UTC(),
		})
	}
	slices.SortFunc(items, func(a, b record) int { return strings.Compare(a.ID, b.ID) })

	sum, err := checksum(items)
	if err != nil {
		return zerr.Wrap(domain.ErrStateWriteFailed, err.Error())
	}

	data, err := json.MarshalIndent(document{
		Version:  SchemaVersion,
		Checksum: sum,
		Items:    items,
	}, "", "  ")
	if err != nil {
		return zerr.Wrap(domain.ErrStateWriteFailed, err.Error())
	}

	if err := wsmfs.WriteFileAtomic(s.path, append(data, '\n'), domain.PrivateFilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStateWriteFailed, err.Error()), "path", s.path)
	}

	return nil
}

func (s *Store) corrupt(cause error, reason string) error {
	msg := reason
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return zerr.With(zerr.Wrap(domain.ErrStateCorrupt, msg), "path", s.path)
}

// checksum is the xxhash of the compact JSON encoding of items.
func checksum(items []record) (string, error) {
	if items == nil {
		items = []record{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}
