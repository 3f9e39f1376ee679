// Package resolver expands requested workshop items into the full set that must be installed.
package resolver

import (
	"context"
	"errors"
	"strings"

	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver computes install plans by walking item dependencies in the catalog.
type Resolver struct {
	catalog ports.Catalog
	logger  ports.Logger
}

// New creates a Resolver backed by catalog.
func New(catalog ports.Catalog, logger ports.Logger) *Resolver {
	return &Resolver{catalog: catalog, logger: logger}
}

type pending struct {
	id     domain.ItemID
	parent domain.ItemID
}

// Resolve returns the plan for installing requested on top of installed.
//
// Requested ids come first in the plan, in the order given, followed by
// dependencies in breadth-first discovery order. Every id is looked up at most
// once, so dependency cycles terminate. Installed items are never looked up and
// their dependencies are not walked.
//
// If any id is unknown to the catalog, Resolve returns the plan together with an
// error wrapping domain.ErrCatalogLookup; plan.Missing lists the unknown ids.
// Any other catalog failure aborts resolution and no plan is returned.
func (r *Resolver) Resolve(
	ctx context.Context,
	requested []domain.ItemID,
	installed *domain.LocalState,
) (*domain.Plan, error) {
	plan := &domain.Plan{}
	visited := make(map[domain.ItemID]struct{}, len(requested))
	var queue []pending

	for _, id := range requested {
		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}

		if installed.Has(id) {
			plan.Satisfied = append(plan.Satisfied, id)
			continue
		}

		item, err := r.lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			plan.Missing = append(plan.Missing, id)
			continue
		}

		plan.Requested = append(plan.Requested, *item)
		queue = enqueue(queue, item)
	}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if _, ok := visited[next.id]; ok {
			continue
		}
		visited[next.id] = struct{}{}

		if installed.Has(next.id) {
			continue
		}

		r.logger.Debug("resolving " + next.id.String() + " required by " + next.parent.String())

		item, err := r.lookup(ctx, next.id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			plan.Missing = append(plan.Missing, next.id)
			continue
		}

		plan.Dependencies = append(plan.Dependencies, *item)
		queue = enqueue(queue, item)
	}

	if len(plan.Missing) > 0 {
		err := zerr.Wrap(domain.ErrCatalogLookup, "unknown workshop items")
		return plan, zerr.With(err, "missing", joinIDs(plan.Missing))
	}

	return plan, nil
}

// lookup fetches id from the catalog. A nil item with a nil error means the
// catalog does not know id.
func (r *Resolver) lookup(ctx context.Context, id domain.ItemID) (*domain.Item, error) {
	item, err := r.catalog.Lookup(ctx, id)
	if err == nil {
		return item, nil
	}
	if errors.Is(err, domain.ErrItemNotFound) {
		r.logger.Warn("workshop item " + id.String() + " not found")
		return nil, nil
	}
	return nil, zerr.With(zerr.Wrap(err, "failed to resolve dependencies"), "id", id.String())
}

func enqueue(queue []pending, item *domain.Item) []pending {
	for _, dep := range item.Dependencies {
		queue = append(queue, pending{id: dep, parent: item.ID})
	}
	return queue
}

func joinIDs(ids []domain.ItemID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
