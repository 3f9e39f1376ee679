package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// SearchSort selects the catalog ranking used by search.
type SearchSort string

const (
	// SortTextSearch ranks by relevance to the query.
	SortTextSearch SearchSort = "textsearch"
	// SortMostRecent ranks by publish date.
	SortMostRecent SearchSort = "mostrecent"
	// SortTrend ranks by recent popularity.
	SortTrend SearchSort = "trend"
	// SortSubscribers ranks by total unique subscribers.
	SortSubscribers SearchSort = "totaluniquesubscribers"
)

// SearchSorts lists the accepted sort modes.
var SearchSorts = []SearchSort{SortTextSearch, SortMostRecent, SortTrend, SortSubscribers}

// ParseSearchSort validates a user-supplied sort mode. Empty selects SortTextSearch.
func ParseSearchSort(raw string) (SearchSort, error) {
	if raw == "" {
		return SortTextSearch, nil
	}
	sort := SearchSort(raw)
	if !slices.Contains(SearchSorts, sort) {
		return "", zerr.With(zerr.Wrap(ErrInvalidSort, raw), "sort", raw)
	}
	return sort, nil
}

// SearchOptions narrows a catalog search.
type SearchOptions struct {
	// AppID selects the workshop of one Steam application.
	AppID string
	Sort  SearchSort
	// Tags restricts results to items carrying all of these tags.
	Tags []string
}

// SearchHit is one search result with the metadata of its direct dependencies.
type SearchHit struct {
	Item         Item
	Dependencies []Item
}

// DependencySize is the total download size of the hit's direct dependencies.
func (h SearchHit) DependencySize() int64 {
	var total int64
	for _, dep := range h.Dependencies {
		total += dep.Size
	}
	return total
}
