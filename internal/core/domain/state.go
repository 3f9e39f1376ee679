package domain

import (
	"iter"
	"maps"
	"slices"
)

// LocalState maps installed item ids to their install records.
// It is the only source of truth for whether an item is installed.
// LocalState is not safe for concurrent use.
type LocalState struct {
	items map[ItemID]InstalledItem
}

// NewLocalState creates an empty LocalState.
func NewLocalState() *LocalState {
	return &LocalState{
		items: make(map[ItemID]InstalledItem),
	}
}

// NewLocalStateFrom creates a LocalState holding the given entries.
// Later entries overwrite earlier ones with the same id.
func NewLocalStateFrom(entries []InstalledItem) *LocalState {
	s := NewLocalState()
	for _, e := range entries {
		s.Put(e)
	}
	return s
}

// Get returns the install record for id.
func (s *LocalState) Get(id ItemID) (InstalledItem, bool) {
	item, ok := s.items[id]
	return item, ok
}

// Has reports whether id is installed.
func (s *LocalState) Has(id ItemID) bool {
	_, ok := s.items[id]
	return ok
}

// Put inserts or overwrites the record for item.ID.
func (s *LocalState) Put(item InstalledItem) {
	s.items[item.ID] = item
}

// Delete removes id and reports whether it was present.
func (s *LocalState) Delete(id ItemID) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	return true
}

// Len returns the number of installed items.
func (s *LocalState) Len() int {
	return len(s.items)
}

// IDs returns the installed ids in ascending order.
func (s *LocalState) IDs() []ItemID {
	return slices.Sorted(maps.Keys(s.items))
}

// All yields the install records ordered by id.
func (s *LocalState) All() iter.Seq[InstalledItem] {
	return func(yield func(InstalledItem) bool) {
		for _, id := range s.IDs() {
			if !yield(s.items[id]) {
				return
			}
		}
	}
}

// Entries returns the install records ordered by id.
func (s *LocalState) Entries() []InstalledItem {
	return slices.Collect(s.All())
}

// Clone returns an independent copy of the state.
func (s *LocalState) Clone() *LocalState {
	return &LocalState{items: maps.Clone(s.items)}
}

// TotalSize sums the recorded sizes of all installed items.
func (s *LocalState) TotalSize() int64 {
	var total int64
	for _, item := range s.items {
		total += item.Size
	}
	return total
}
