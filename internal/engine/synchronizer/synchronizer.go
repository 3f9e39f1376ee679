// Package synchronizer compares installed items with their catalog revisions.
package synchronizer

import (
	"context"
	"errors"

	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
)

// Synchronizer classifies installed items as up to date, outdated or orphaned.
type Synchronizer struct {
	catalog ports.Catalog
	logger  ports.Logger
}

// New creates a Synchronizer backed by catalog.
func New(catalog ports.Catalog, logger ports.Logger) *Synchronizer {
	return &Synchronizer{catalog: catalog, logger: logger}
}

// Diff returns one status per id, in the order given. An empty ids slice
// checks every installed item in id order.
//
// Ids that are not installed are reported as domain.StatusNotInstalled without
// a catalog lookup. Catalog failures other than not-found are reported per item
// as domain.StatusUnreachable and do not stop the sweep. Only context
// cancellation aborts Diff.
func (s *Synchronizer) Diff(
	ctx context.Context,
	installed *domain.LocalState,
	ids []domain.ItemID,
) ([]domain.ItemStatus, error) {
	if len(ids) == 0 {
		ids = installed.IDs()
	}

	statuses := make([]domain.ItemStatus, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return statuses, err
		}
		statuses = append(statuses, s.check(ctx, installed, id))
	}
	return statuses, nil
}

func (s *Synchronizer) check(ctx context.Context, installed *domain.LocalState, id domain.ItemID) domain.ItemStatus {
	entry, ok := installed.Get(id)
	if !ok {
		return domain.ItemStatus{ID: id, Status: domain.StatusNotInstalled}
	}

	status := domain.ItemStatus{ID: id, CurrentVersion: entry.Version}

	remote, err := s.catalog.Lookup(ctx, id)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		s.logger.Warn(id.String() + " is no longer in the workshop")
		status.Status = domain.StatusOrphaned
		return status
	case err != nil:
		s.logger.Warn("could not check " + id.String() + ": " + err.Error())
		status.Status = domain.StatusUnreachable
		status.Err = err
		return status
	}

	status.Remote = remote
	status.RemoteVersion = remote.Version
	if remote.Version.NewerThan(entry.Version) {
		s.logger.Debug(id.String() + " has a newer revision " + remote.Version.String())
		status.Status = domain.StatusNeedsUpdate
	} else {
		status.Status = domain.StatusUpToDate
	}
	return status
}
