package app

import (
	"context"
	"errors"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// SearchOptions configuration for the Search method.
type SearchOptions struct {
	// Sort is one of domain.SearchSorts. Empty means relevance.
	Sort string
	Tags []string
}

// Search queries the workshop and prints each hit with its dependencies.
func (a *App) Search(ctx context.Context, terms []string, opts SearchOptions) error {
	query := strings.Join(strings.Fields(strings.Join(terms, " ")), " ")

	sort, err := domain.ParseSearchSort(opts.Sort)
	if err != nil {
		return err
	}

	settings, err := a.loadSettings(domain.SettingAppID)
	if err != nil {
		return err
	}

	ctx, span := a.tracer.Start(ctx, "search", ports.WithAttribute("query", query))
	defer span.End()

	ids, err := a.catalog.Search(ctx, query, domain.SearchOptions{
		AppID: settings.AppID,
		Sort:  sort,
		Tags:  opts.Tags,
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	hits := make([]*domain.SearchHit, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			item, err := a.lookup(gctx, id)
			if errors.Is(err, domain.ErrItemNotFound) {
				a.logger.Warn(id.String() + " disappeared from the workshop")
				return nil
			}
			if err != nil {
				return err
			}

			deps, err := a.lookupAll(gctx, item.Dependencies)
			if err != nil {
				return err
			}
			hits[i] = &domain.SearchHit{Item: *item, Dependencies: deps}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return err
	}

	found := make([]domain.SearchHit, 0, len(hits))
	for _, hit := range hits {
		if hit != nil {
			found = append(found, *hit)
		}
	}
	a.report().SearchResults(query, found)
	return nil
}

// Info prints the catalog details of one item and whether it is installed.
func (a *App) Info(ctx context.Context, rawID string) error {
	ids := domain.NewItemIDs([]string{rawID})
	if len(ids) == 0 {
		return domain.ErrNoItemsSpecified
	}

	state, err := a.store.Load()
	if err != nil {
		return err
	}

	item, err := a.lookup(ctx, ids[0])
	if err != nil {
		return err
	}

	deps, err := a.lookupAll(ctx, item.Dependencies)
	if err != nil {
		return err
	}

	var installed *domain.InstalledItem
	if entry, ok := state.Get(item.ID); ok {
		installed = &entry
	}

	a.report().Info(item, deps, installed)
	return nil
}

// List prints installed items. A non-empty pattern keeps only items whose
// title or id fuzzily matches it, best match first.
func (a *App) List(_ context.Context, pattern string) error {
	state, err := a.store.Load()
	if err != nil {
		return err
	}

	entries := state.Entries()
	if pattern = strings.TrimSpace(pattern); pattern != "" {
		entries = filterEntries(entries, pattern)
	}

	a.report().List(entries)
	return nil
}

// lookup fetches one item inside its own span.
func (a *App) lookup(ctx context.Context, id domain.ItemID) (*domain.Item, error) {
	ctx, span := a.tracer.Start(ctx, "lookup "+id.String(), ports.WithAttribute("item.id", id.String()))
	defer span.End()

	item, err := a.catalog.Lookup(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return item, nil
}

// lookupAll fetches ids concurrently, keeping their order.
// Unknown ids yield an Item with only the id set.
func (a *App) lookupAll(ctx context.Context, ids []domain.ItemID) ([]domain.Item, error) {
	items := make([]domain.Item, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			item, err := a.lookup(ctx, id)
			switch {
			case errors.Is(err, domain.ErrItemNotFound):
				items[i] = domain.Item{ID: id}
			case err != nil:
				return err
			default:
				items[i] = *item
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

type installedTitles []domain.InstalledItem

func (s installedTitles) String(i int) string {
	return s[i].Title + " " + s[i].ID.String()
}

func (s installedTitles) Len() int {
	return len(s)
}

func filterEntries(entries []domain.InstalledItem, pattern string) []domain.InstalledItem {
	matches := fuzzy.FindFrom(pattern, installedTitles(entries))
	filtered := make([]domain.InstalledItem, len(matches))
	for i, m := range matches {
		filtered[i] = entries[m.Index]
	}
	return filtered
}
